// pdb2fasta writes the sequences of the chains in a PDB file as FASTA. It
// shows which residues pdb-superpose and pdb-pairalign will see: by default
// only residues with a carbon-alpha atom are written.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/pairalign/cmd/util"
	"github.com/TuftsBCB/pairalign/pdb"
)

var (
	flagChain       = ""
	flagAllResidues = false
)

const lineWidth = 60

func init() {
	flag.StringVar(&flagChain, "chain", flagChain,
		"This may be set to one or more chain identifiers. Only chains\n"+
			"specified will be written.")
	flag.BoolVar(&flagAllResidues, "all-residues", flagAllResidues,
		"When set, residues without a carbon-alpha atom are included.")
}

func main() {
	util.FlagParse("in-pdb-file [out-fasta-file]", "")
	if util.NArg() < 1 || util.NArg() > 2 {
		util.Usage()
	}

	entry := util.PDBRead(util.Arg(0))
	seqs := sequences(entry, flagChain, flagAllResidues)
	if len(seqs) == 0 {
		util.Fatalf("Could not find any chains with amino acids.")
	}

	var out io.Writer = os.Stdout
	if util.NArg() == 2 {
		f := util.CreateFile(util.Arg(1))
		defer f.Close()
		out = f
	}
	util.Assert(writeFasta(out, seqs), "Could not write FASTA")
}

// sequences returns one sequence for every chain in entry whose identifier
// is in chains (or every chain, if chains is empty). Chains without any
// residues to write are left out.
func sequences(entry *pdb.Entry, chains string, all bool) []seq.Sequence {
	var seqs []seq.Sequence
	for _, chain := range entry.Chains {
		if len(chains) > 0 && strings.IndexByte(chains, chain.Ident) < 0 {
			continue
		}

		var letters []byte
		if all {
			letters = chain.Sequence()
		} else {
			_, letters = chain.CaAtoms()
		}
		if len(letters) == 0 {
			continue
		}
		residues := make([]seq.Residue, len(letters))
		for i, c := range letters {
			residues[i] = seq.Residue(c)
		}
		seqs = append(seqs, seq.Sequence{
			Name:     chainHeader(entry, chain),
			Residues: residues,
		})
	}
	return seqs
}

func writeFasta(w io.Writer, seqs []seq.Sequence) error {
	fw := fasta.NewWriter(w)
	fw.Columns = lineWidth
	if err := fw.WriteAll(seqs); err != nil {
		return err
	}
	return fw.Flush()
}

func chainHeader(entry *pdb.Entry, chain *pdb.Chain) string {
	name := entry.IdCode
	if len(name) == 0 {
		name = entry.Name()
	}
	return fmt.Sprintf("%s%c", strings.ToLower(name), chain.Ident)
}
