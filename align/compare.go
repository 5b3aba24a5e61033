package align

import (
	"fmt"

	"github.com/TuftsBCB/pairalign/pdb"
	"github.com/TuftsBCB/pairalign/rmsd"
)

// State is the stage a pairwise comparison has reached.
type State int

const (
	Loaded State = iota
	Corresponded
	Superposed
	Scored
	Reported
	Skipped
)

var stateNames = map[State]string{
	Loaded:       "loaded",
	Corresponded: "corresponded",
	Superposed:   "superposed",
	Scored:       "scored",
	Reported:     "reported",
	Skipped:      "skipped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is everything known about the comparison of two chains. When State
// is Skipped, Err says why and only the fields filled in before the failure
// are set.
type Result struct {
	State State
	Err   error

	// Correspondence is the list of shared residues that Transform and RMSD
	// were computed from.
	Correspondence Correspondence

	// Transform moves the second chain onto the first.
	Transform rmsd.Transform

	// RMSD is computed over the carbon-alpha atoms in Correspondence after
	// applying Transform.
	RMSD float64

	Similarity *Similarity

	// SeqA and SeqB are the sequences of the residues with carbon-alpha atoms
	// in each chain.
	SeqA, SeqB []byte
}

// Compare runs a full comparison of chain b against chain a: the residue
// correspondence, the superposition of b onto a and the similarity score.
//
// If the correspondence has fewer than 3 pairs (or the pairs are collinear)
// the result is Skipped with a *rmsd.DegenerateInputError, and no scoring is
// attempted. Compare never returns nil.
func Compare(a, b *pdb.Chain) *Result {
	r := &Result{State: Loaded}
	if a == nil {
		return r.skip(&EmptyInputError{"A"})
	}
	if b == nil {
		return r.skip(&EmptyInputError{"B"})
	}

	r.Correspondence = Correspond(a, b)
	r.State = Corresponded

	tr, rms, err := rmsd.Superpose(
		r.Correspondence.Targets(), r.Correspondence.Mobiles())
	if err != nil {
		return r.skip(err)
	}
	r.Transform, r.RMSD = tr, rms
	r.State = Superposed

	coordsA, seqA := a.CaAtoms()
	coordsB, seqB := b.CaAtoms()
	sim, err := Score(toRMSDCoords(coordsA), seqA, toRMSDCoords(coordsB), seqB)
	if err != nil {
		return r.skip(err)
	}
	r.Similarity, r.SeqA, r.SeqB = sim, seqA, seqB
	r.State = Scored
	return r
}

func (r *Result) skip(err error) *Result {
	r.State, r.Err = Skipped, err
	return r
}

// Ok returns true when the comparison was scored (or reported).
func (r *Result) Ok() bool {
	return r.State == Scored || r.State == Reported
}

// MarkReported records that the outputs of a scored comparison were written.
func (r *Result) MarkReported() error {
	if r.State != Scored {
		return fmt.Errorf("Cannot report a comparison in state '%s'.", r.State)
	}
	r.State = Reported
	return nil
}

// Move applies the superposition to a single atom of the second chain's
// entry. It has the signature expected by pdb.Entry.WriteTransformed.
func (r *Result) Move(c pdb.Coords) pdb.Coords {
	return pdb.Coords(r.Transform.Apply(rmsd.Coords(c)))
}

// AlignedCoordinates returns every point in coords moved into the frame of
// the first chain. The input is not modified.
func (r *Result) AlignedCoordinates(coords []pdb.Coords) []pdb.Coords {
	moved := make([]pdb.Coords, len(coords))
	for i, c := range coords {
		moved[i] = r.Move(c)
	}
	return moved
}

func toRMSDCoords(cs []pdb.Coords) []rmsd.Coords {
	converted := make([]rmsd.Coords, len(cs))
	for i, c := range cs {
		converted[i] = rmsd.Coords(c)
	}
	return converted
}
