package align

import (
	"sort"

	"github.com/TuftsBCB/pairalign/pdb"
	"github.com/TuftsBCB/pairalign/rmsd"
)

// Pair is a residue from each of two chains sharing the same residue
// identifier. Both residues always have a carbon-alpha atom.
type Pair struct {
	A, B *pdb.Residue
}

// Correspondence is an ordered list of residue pairs, sorted by residue
// identifier. No identifier appears twice.
type Correspondence []Pair

// Correspond computes the residues shared by chains a and b. A residue is
// shared if both chains have a residue with the same identifier (sequence
// number and insertion code) and both of those residues have a carbon-alpha
// atom. Identifiers found in only one chain are dropped, as are residues
// without a carbon-alpha atom.
//
// The result is sorted by identifier, so it does not depend on the order of
// residues in either chain.
func Correspond(a, b *pdb.Chain) Correspondence {
	if a == nil || b == nil {
		return nil
	}

	ids := make([]pdb.ResidueID, 0, len(a.Residues))
	seen := make(map[pdb.ResidueID]bool, len(a.Residues))
	for _, r := range a.Residues {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		if b.Residue(r.ID) != nil {
			ids = append(ids, r.ID)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	pairs := make(Correspondence, 0, len(ids))
	for _, id := range ids {
		ra, rb := a.Residue(id), b.Residue(id)
		if ra.Ca != nil && rb.Ca != nil {
			pairs = append(pairs, Pair{ra, rb})
		}
	}
	return pairs
}

// Targets returns the carbon-alpha coordinates of the residues from the
// first chain.
func (c Correspondence) Targets() []rmsd.Coords {
	coords := make([]rmsd.Coords, len(c))
	for i, p := range c {
		coords[i] = rmsd.Coords(*p.A.Ca)
	}
	return coords
}

// Mobiles returns the carbon-alpha coordinates of the residues from the
// second chain.
func (c Correspondence) Mobiles() []rmsd.Coords {
	coords := make([]rmsd.Coords, len(c))
	for i, p := range c {
		coords[i] = rmsd.Coords(*p.B.Ca)
	}
	return coords
}

// IDs returns the shared residue identifiers in order.
func (c Correspondence) IDs() []pdb.ResidueID {
	ids := make([]pdb.ResidueID, len(c))
	for i, p := range c {
		ids[i] = p.A.ID
	}
	return ids
}
