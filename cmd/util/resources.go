package util

import (
	"os"

	"github.com/TuftsBCB/pairalign/pdb"
)

func PDBRead(path string) *pdb.Entry {
	entry, err := pdb.ReadPDB(path)
	Assert(err, "Could not open PDB file '%s'", path)
	return entry
}

// FirstChain returns the first chain of entry, or stops the program if the
// entry has no chains.
func FirstChain(entry *pdb.Entry) *pdb.Chain {
	chain := entry.FirstChain()
	if chain == nil {
		Fatalf("PDB file '%s' has no chains.", entry.Path)
	}
	return chain
}

func CreateFile(path string) *os.File {
	f, err := os.Create(path)
	Assert(err, "Could not create file '%s'", path)
	return f
}
