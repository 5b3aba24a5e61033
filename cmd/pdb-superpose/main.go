// Example pdb-superpose shows how to superpose and score two structures.
package main

import (
	"os"

	"github.com/TuftsBCB/pairalign/align"
	"github.com/TuftsBCB/pairalign/apps/tmalign"
	"github.com/TuftsBCB/pairalign/cmd/util"
	"github.com/TuftsBCB/pairalign/report"
)

func init() {
	util.FlagUse("tmalign", "out", "verbose")
	util.FlagParse("pdb-file pdb-file", "")
	util.AssertNArg(2)
}

func main() {
	pdbf1, pdbf2 := util.Arg(0), util.Arg(1)
	util.AssertIsFile(pdbf1)
	util.AssertIsFile(pdbf2)

	entry1, entry2 := util.PDBRead(pdbf1), util.PDBRead(pdbf2)
	chain1, chain2 := util.FirstChain(entry1), util.FirstChain(entry2)

	result := align.Compare(chain1, chain2)
	util.Verbosef("%d shared residues between %s and %s.\n",
		len(result.Correspondence), entry1.Name(), entry2.Name())
	if !result.Ok() {
		util.Fatalf("Could not align '%s' and '%s': %s.",
			pdbf1, pdbf2, result.Err)
	}

	var oracle *tmalign.Result
	if len(util.FlagTMAlign) > 0 {
		conf := tmalign.Config{Exec: util.FlagTMAlign, Verbose: util.FlagVerbose}
		var err error
		oracle, err = conf.Run(pdbf1, pdbf2)
		if util.Warning(err, "TM-align failed") {
			oracle = nil
		}
	}

	if len(util.FlagOutputPDB) > 0 {
		f := util.CreateFile(util.FlagOutputPDB)
		util.Assert(entry2.WriteTransformed(f, result.Move),
			"Could not write '%s'", util.FlagOutputPDB)
		util.Assert(f.Close(), "Could not write '%s'", util.FlagOutputPDB)
	}

	util.Assert(report.Write(os.Stdout, result, oracle))
	util.Assert(result.MarkReported())
}
