package align

import (
	"errors"
	"math"

	"github.com/TuftsBCB/pairalign/rmsd"
)

const (
	// minFragment is the shortest seed fragment used by the TM-score search.
	minFragment = 4

	// maxRefine bounds the number of refinement iterations per seed.
	maxRefine = 20

	// cutoffStep is how much the distance cutoff grows when too few pairs
	// fall within it.
	cutoffStep = 0.5
)

// Classification is the comparison of the residues at one sequence position.
type Classification struct {
	Pos   int
	A, B  byte
	Match bool
}

// Similarity is the result of scoring two structures.
type Similarity struct {
	// TMScore is in [0, 1] and is normalized by the length of the first
	// structure.
	TMScore float64

	// D0 is the distance scale used to compute TMScore.
	D0 float64

	// Transform is the superposition that maximizes TMScore. It moves the
	// second structure onto the first.
	Transform rmsd.Transform

	// Classes has one entry for every position up to the length of the
	// shorter sequence.
	Classes []Classification
}

// Matches returns the number of positions classified as a match.
func (s *Similarity) Matches() int {
	n := 0
	for _, c := range s.Classes {
		if c.Match {
			n++
		}
	}
	return n
}

// Score compares two structures given as carbon-alpha coordinates and their
// one letter sequences. The structures may have different lengths; residues
// are paired by position up to the length of the shorter one.
//
// An *EmptyInputError is returned if either sequence is empty, and an
// *rmsd.MismatchedLengthError if a sequence and its coordinates disagree in
// length.
func Score(coordsA []rmsd.Coords, seqA []byte,
	coordsB []rmsd.Coords, seqB []byte) (*Similarity, error) {

	if len(seqA) == 0 {
		return nil, &EmptyInputError{"A"}
	}
	if len(seqB) == 0 {
		return nil, &EmptyInputError{"B"}
	}
	if len(coordsA) != len(seqA) {
		return nil, &rmsd.MismatchedLengthError{Len1: len(coordsA), Len2: len(seqA)}
	}
	if len(coordsB) != len(seqB) {
		return nil, &rmsd.MismatchedLengthError{Len1: len(coordsB), Len2: len(seqB)}
	}

	tm, tr := TMScore(coordsA, coordsB)
	return &Similarity{
		TMScore:   tm,
		D0:        D0(len(coordsA)),
		Transform: tr,
		Classes:   Classify(seqA, seqB),
	}, nil
}

// Classify compares two sequences position by position up to the length of
// the shorter one. The trailing residues of the longer sequence are not
// classified.
func Classify(seqA, seqB []byte) []Classification {
	n := len(seqA)
	if len(seqB) < n {
		n = len(seqB)
	}
	classes := make([]Classification, n)
	for i := 0; i < n; i++ {
		classes[i] = Classification{
			Pos:   i,
			A:     seqA[i],
			B:     seqB[i],
			Match: seqA[i] == seqB[i],
		}
	}
	return classes
}

// D0 returns the TM-score distance scale for a structure with n residues:
// 1.24 * cbrt(n - 15) - 1.8, but never less than 0.5.
func D0(n int) float64 {
	return math.Max(1.24*math.Cbrt(float64(n)-15)-1.8, 0.5)
}

// TMScore computes the TM-score of mobile against target, normalized by the
// length of target. target[i] is paired with mobile[i] for every i below the
// length of the shorter set.
//
// The score is maximized over superpositions: each contiguous seed fragment
// (of the full length, half of it, a quarter, and so on down to 4 pairs) is
// superposed, and the superposition is then refined by repeatedly refitting
// on the pairs that lie within a distance cutoff.
//
// The returned transformation moves mobile onto target. The score of two
// empty sets, or of sets with a NaN or infinite coordinate, is 0.
func TMScore(target, mobile []rmsd.Coords) (float64, rmsd.Transform) {
	n := len(target)
	if len(mobile) < n {
		n = len(mobile)
	}
	if n == 0 || !rmsd.Finite(target) || !rmsd.Finite(mobile) {
		return 0, rmsd.Identity()
	}

	d0 := D0(len(target))
	s := &tmSearch{
		target:  target[:n],
		mobile:  mobile[:n],
		d0:      d0,
		dSearch: math.Min(math.Max(d0, 4.5), 8.0),
		norm:    float64(len(target)),
		dists:   make([]float64, n),
	}
	s.best, s.bestTransform = -1, rmsd.Identity()

	for frag := n; ; frag /= 2 {
		step := frag / 2
		if step < 1 {
			step = 1
		}
		for start := 0; start+frag <= n; start += step {
			seed := make([]int, frag)
			for i := range seed {
				seed[i] = start + i
			}
			s.refine(seed)
		}
		if frag/2 < minFragment {
			break
		}
	}
	return s.best, s.bestTransform
}

type tmSearch struct {
	target, mobile []rmsd.Coords
	d0, dSearch    float64
	norm           float64
	dists          []float64

	best          float64
	bestTransform rmsd.Transform
}

func (s *tmSearch) refine(indices []int) {
	for iter := 0; iter < maxRefine; iter++ {
		tr := s.fit(indices)
		if score := s.evaluate(tr); score > s.best {
			s.best, s.bestTransform = score, tr
		}

		next := s.within()
		if sameIndices(indices, next) {
			return
		}
		indices = next
	}
}

// fit superposes the pairs at the given indices. When they cannot determine a
// rotation, only their centroids are superposed.
func (s *tmSearch) fit(indices []int) rmsd.Transform {
	ts := make([]rmsd.Coords, len(indices))
	ms := make([]rmsd.Coords, len(indices))
	for i, idx := range indices {
		ts[i], ms[i] = s.target[idx], s.mobile[idx]
	}

	tr, err := rmsd.Fit(ts, ms)
	var derr *rmsd.DegenerateInputError
	if err == nil {
		return tr
	} else if !errors.As(err, &derr) {
		// Fit can only fail on degenerate input or a failed SVD. Neither
		// should stop the search.
		return rmsd.Identity()
	}
	ct, cm := rmsd.Centroid(ts), rmsd.Centroid(ms)
	return rmsd.Translation(rmsd.Coords{
		ct[0] - cm[0], ct[1] - cm[1], ct[2] - cm[2],
	})
}

// evaluate records the distance of every pair under tr and returns the
// resulting TM-score.
func (s *tmSearch) evaluate(tr rmsd.Transform) float64 {
	var sum float64
	for i := range s.target {
		d := tr.Apply(s.mobile[i]).Dist(s.target[i])
		s.dists[i] = d
		sum += 1 / (1 + (d/s.d0)*(d/s.d0))
	}
	return sum / s.norm
}

// within returns the indices of all pairs closer than the search cutoff,
// using the distances from the last call to evaluate. The cutoff grows until
// at least 3 pairs (or every pair at a finite distance, if there are fewer)
// are included.
func (s *tmSearch) within() []int {
	need, finite := rmsd.MinPoints, 0
	for _, d := range s.dists {
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			finite++
		}
	}
	if finite < need {
		need = finite
	}
	for cutoff := s.dSearch; ; cutoff += cutoffStep {
		indices := make([]int, 0, len(s.dists))
		for i, d := range s.dists {
			if d < cutoff {
				indices = append(indices, i)
			}
		}
		if len(indices) >= need {
			return indices
		}
	}
}

func sameIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
