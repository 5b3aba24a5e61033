package pdb

import (
	"fmt"
)

// Coords is the position of an atom.
type Coords [3]float64

// ResidueID identifies a residue within a chain: its sequence number and
// its insertion code. A blank insertion code is a space.
type ResidueID struct {
	Num   int
	ICode byte
}

// Less orders residue identifiers by sequence number and then by insertion
// code. A residue without an insertion code comes before any residue with
// the same number that has one.
func (id ResidueID) Less(other ResidueID) bool {
	if id.Num != other.Num {
		return id.Num < other.Num
	}
	return icodeRank(id.ICode) < icodeRank(other.ICode)
}

func icodeRank(c byte) int {
	if c == ' ' || c == 0 {
		return -1
	}
	return int(c)
}

func (id ResidueID) String() string {
	if icodeRank(id.ICode) < 0 {
		return fmt.Sprintf("%d", id.Num)
	}
	return fmt.Sprintf("%d%c", id.Num, id.ICode)
}

// Residue is a single amino acid residue in a chain. Ca is nil when the
// residue has no carbon-alpha ATOM record.
type Residue struct {
	ID   ResidueID
	Name byte
	Ca   *Coords
}

// Chain represents a protein chain or subunit in a PDB file. Residues are in
// the order they first appear in the ATOM records.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Residues []*Residue

	residues map[ResidueID]*Residue
}

// Residue returns the residue with the given identifier, or nil.
func (c *Chain) Residue(id ResidueID) *Residue {
	return c.residues[id]
}

// CaAtoms returns the carbon-alpha coordinates and the one letter sequence of
// every residue in the chain that has a carbon-alpha atom, in chain order.
// The two return values always have the same length.
func (c *Chain) CaAtoms() ([]Coords, []byte) {
	coords := make([]Coords, 0, len(c.Residues))
	seq := make([]byte, 0, len(c.Residues))
	for _, r := range c.Residues {
		if r.Ca != nil {
			coords = append(coords, *r.Ca)
			seq = append(seq, r.Name)
		}
	}
	return coords, seq
}

// Sequence returns the one letter sequence of every residue in the chain,
// including those without a carbon-alpha atom.
func (c *Chain) Sequence() []byte {
	seq := make([]byte, len(c.Residues))
	for i, r := range c.Residues {
		seq[i] = r.Name
	}
	return seq
}

// String returns a FASTA-like formatted string of this chain.
func (c *Chain) String() string {
	return fmt.Sprintf("> Chain %c :: length %d\n%s",
		c.Ident, len(c.Residues), string(c.Sequence()))
}

// NewChain builds a chain from residues that did not come from a PDB file.
// If two residues share an identifier, the first one wins in Residue lookups.
func NewChain(ident byte, residues []*Residue) *Chain {
	c := &Chain{
		Ident:    ident,
		Residues: residues,
		residues: make(map[ResidueID]*Residue, len(residues)),
	}
	for _, r := range residues {
		if _, ok := c.residues[r.ID]; !ok {
			c.residues[r.ID] = r
		}
	}
	return c
}
