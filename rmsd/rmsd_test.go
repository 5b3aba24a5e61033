package rmsd

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/TuftsBCB/structure"

	matrix "github.com/skelterjohn/go.matrix"
)

const tolerance = 1e-6

var rng = rand.New(rand.NewSource(42))

var (
	sample1 = []Coords{
		{-2.803, -15.373, 24.556},
		{0.893, -16.062, 25.147},
		{1.368, -12.371, 25.885},
		{-1.651, -12.153, 28.177},
		{-0.440, -15.218, 30.068},
		{2.551, -13.273, 31.372},
		{0.105, -11.330, 33.567},
	}
	sample2 = []Coords{
		{-14.739, -18.673, 15.040},
		{-12.473, -15.810, 16.074},
		{-14.802, -13.307, 14.408},
		{-17.782, -14.852, 16.171},
		{-16.124, -14.617, 19.584},
		{-15.029, -11.037, 18.902},
		{-18.577, -10.001, 17.996},
	}
)

func ExampleSuperpose() {
	_, rms, err := Superpose(sample1, sample2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("RMSD: %f\n", rms)

	// The RMSD is symmetric in which set is moved.
	_, rms, _ = Superpose(sample2, sample1)
	fmt.Printf("RMSD: %f\n", rms)
	// Output:
	// RMSD: 0.719106
	// RMSD: 0.719106
}

func TestCovariance(t *testing.T) {
	cols := 11
	for i := 0; i < 1000; i++ {
		xs, ys := randomAtoms(cols), randomAtoms(cols)

		// Compute our covariance.
		tC := tmat(covariance(xs, ys).slice())

		// Now compute the "correct" covariance.
		mat1 := matrix.MakeDenseMatrix(columns(xs), 3, cols)
		mat2 := matrix.MakeDenseMatrix(columns(ys), 3, cols)
		aC_, err := mat1.TimesDense(mat2.Transpose())
		if err != nil {
			t.Fatal(err)
		}
		aC := tmat(aC_.Array())

		if !tC.approx(aC, 1e-6) {
			t.Fatalf("The covariance of\n%v\nand\n%v\nis\n%s\nbut we said\n%s\n",
				xs, ys, aC, tC)
		}
	}
}

func TestSvdReconstructs(t *testing.T) {
	for i := 0; i < 1000; i++ {
		m := matrix3(randomMatrix3())
		U, s, V, err := m.svd()
		if err != nil {
			t.Fatal(err)
		}
		S := matrix3{s[0], 0, 0, 0, s[1], 0, 0, 0, s[2]}
		got := tmat(U.mult(S).mult(V.transpose()).slice())
		if !got.approx(tmat(m.slice()), 1e-6) {
			t.Fatalf("U*S*V^T of\n%s\nis\n%s\n", tmat(m.slice()), got)
		}
		if s[0] < s[1] || s[1] < s[2] {
			t.Fatalf("Singular values %v are not in decreasing order.", s)
		}
	}
}

func TestDet(t *testing.T) {
	tests := []struct {
		m    matrix3
		want float64
	}{
		{identity3, 1},
		{reflectZ, -1},
		{matrix3{2, 0, 0, 0, 3, 0, 0, 0, 4}, 24},
		{matrix3{1, 2, 3, 4, 5, 6, 7, 8, 9}, 0},
		{matrix3{0, 1, 0, 1, 0, 0, 0, 0, 1}, -1},
	}
	for _, test := range tests {
		if got := test.m.det(); math.Abs(got-test.want) > tolerance {
			t.Errorf("det(%v) = %f, want %f", test.m, got, test.want)
		}
	}
}

func TestProperRotation(t *testing.T) {
	for i := 0; i < 500; i++ {
		tr, err := Fit(randomAtoms(11), randomAtoms(11))
		if err != nil {
			t.Fatal(err)
		}
		assertProper(t, tr)
	}
}

func TestSelfAlignment(t *testing.T) {
	for i := 0; i < 100; i++ {
		ps := randomAtoms(3 + rng.Intn(20))
		tr, rms, err := Superpose(ps, ps)
		if err != nil {
			t.Fatal(err)
		}
		if !tmat(tr.Rotation[:]).approx(tmat(identity3.slice()), tolerance) {
			t.Fatalf("Rotation of a self alignment is\n%s\n",
				tmat(tr.Rotation[:]))
		}
		for _, v := range tr.Translation {
			if math.Abs(v) > tolerance {
				t.Fatalf("Translation of a self alignment is %v.",
					tr.Translation)
			}
		}
		if rms > tolerance {
			t.Fatalf("RMSD of a self alignment is %f.", rms)
		}
	}
}

func TestRigidMotionInvariance(t *testing.T) {
	for i := 0; i < 200; i++ {
		ps := randomAtoms(5 + rng.Intn(30))
		motion := Transform{
			Rotation:    randomRotation(),
			Translation: randomAtom(),
		}
		moved := motion.ApplyAll(ps)

		tr, rms, err := Superpose(ps, moved)
		if err != nil {
			t.Fatal(err)
		}
		if rms > tolerance {
			t.Fatalf("RMSD after recovering a rigid motion is %f.", rms)
		}
		assertProper(t, tr)

		// The fitted transform must also bring every moved point back.
		back := tr.ApplyAll(moved)
		for j := range ps {
			if d := back[j].Dist(ps[j]); d > 1e-4 {
				t.Fatalf("Point %d is %f away from its origin.", j, d)
			}
		}
	}
}

func TestMatchesStructureRMSD(t *testing.T) {
	for i := 0; i < 100; i++ {
		a, b := randomAtoms(11), randomAtoms(11)
		_, ours, err := Superpose(a, b)
		if err != nil {
			t.Fatal(err)
		}
		theirs := structure.RMSD(structureCoords(a), structureCoords(b))
		if math.Abs(ours-theirs) > 1e-4 {
			t.Fatalf("Our RMSD is %f but the structure package says %f.",
				ours, theirs)
		}
	}
}

func TestDegenerate(t *testing.T) {
	tests := [][]Coords{
		nil,
		{{1, 2, 3}},
		{{1, 2, 3}, {4, 5, 6}},
		{{0, 0, 0}, {1, 2, 3}, {2, 4, 6}, {3, 6, 9}},
		{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
	}
	for _, ps := range tests {
		_, err := Fit(ps, ps)
		var derr *DegenerateInputError
		if !errors.As(err, &derr) {
			t.Errorf("Expected a DegenerateInputError for %v but got %v.",
				ps, err)
			continue
		}
		if derr.N != len(ps) {
			t.Errorf("Expected N = %d but got %d.", len(ps), derr.N)
		}
	}
}

func TestNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ps := randomAtoms(5)
		qs := append([]Coords(nil), ps...)
		qs[2][1] = bad

		var derr *DegenerateInputError
		if _, err := Fit(ps, qs); !errors.As(err, &derr) {
			t.Errorf("Expected a DegenerateInputError for %v but got %v.",
				bad, err)
		}
		if _, err := Fit(qs, ps); !errors.As(err, &derr) {
			t.Errorf("Expected a DegenerateInputError for %v but got %v.",
				bad, err)
		}
		if _, _, err := Superpose(qs, qs); err == nil {
			t.Errorf("Expected Superpose to reject %v.", bad)
		}
	}
	if !Finite(randomAtoms(3)) || Finite([]Coords{{0, math.NaN(), 0}}) {
		t.Fatal("Finite gives the wrong answer.")
	}
}

func TestMismatchedLength(t *testing.T) {
	_, err := Fit(randomAtoms(4), randomAtoms(5))
	var merr *MismatchedLengthError
	if !errors.As(err, &merr) {
		t.Fatalf("Expected a MismatchedLengthError but got %v.", err)
	}
	if merr.Len1 != 4 || merr.Len2 != 5 {
		t.Fatalf("Wrong lengths in %v.", merr)
	}
	if _, err := RMSD(randomAtoms(2), randomAtoms(3)); err == nil {
		t.Fatal("Expected an error from RMSD with unequal lengths.")
	}
}

func TestApplyAllDoesNotModify(t *testing.T) {
	ps := []Coords{{1, 0, 0}, {0, 1, 0}}
	tr := Translation(Coords{1, 1, 1})
	moved := tr.ApplyAll(ps)
	if ps[0] != (Coords{1, 0, 0}) {
		t.Fatalf("ApplyAll modified its input: %v", ps)
	}
	if moved[1] != (Coords{1, 2, 1}) {
		t.Fatalf("Expected (1, 2, 1) but got %v.", moved[1])
	}
}

func BenchmarkSvd(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		test := matrix3(randomMatrix3())
		b.StartTimer()
		test.svd()
	}
}

func BenchmarkSuperpose(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		atoms1 := randomAtoms(11)
		atoms2 := randomAtoms(11)
		b.StartTimer()
		Superpose(atoms1, atoms2)
	}
}

func assertProper(t *testing.T, tr Transform) {
	R := matrix3(tr.Rotation)
	RRT := tmat(R.mult(R.transpose()).slice())
	if !RRT.approx(tmat(identity3.slice()), tolerance) {
		t.Fatalf("R*R^T is not the identity:\n%s\n", RRT)
	}
	if d := tr.Det(); math.Abs(d-1) > tolerance {
		t.Fatalf("det(R) = %f", d)
	}
}

func (a matrix3) slice() []float64 {
	return a[:]
}

type tmat []float64

func (m tmat) String() string {
	return fmt.Sprintf(`
|%f  %f  %f|
|%f  %f  %f|
|%f  %f  %f|
`, m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func (m1 tmat) approx(m2 tmat, eps float64) bool {
	for i := 0; i < 9; i++ {
		scale := math.Max(1, math.Abs(m2[i]))
		if math.Abs(m1[i]-m2[i]) > eps*scale {
			return false
		}
	}
	return true
}

// columns lays out points as a row-major 3xN matrix.
func columns(ps []Coords) []float64 {
	cols := len(ps)
	m := make([]float64, 3*cols)
	for i, p := range ps {
		m[0*cols+i] = p[0]
		m[1*cols+i] = p[1]
		m[2*cols+i] = p[2]
	}
	return m
}

func randomMatrix3() (m [9]float64) {
	for i := 0; i < 9; i++ {
		m[i] = rng.Float64() * float64(rng.Intn(1000))
	}
	return
}

// randomRotation builds a rotation matrix from a random unit quaternion.
func randomRotation() matrix3 {
	var q [4]float64
	var norm float64
	for norm < 1e-3 {
		norm = 0
		for i := range q {
			q[i] = rng.NormFloat64()
			norm += q[i] * q[i]
		}
	}
	norm = math.Sqrt(norm)
	w, x, y, z := q[0]/norm, q[1]/norm, q[2]/norm, q[3]/norm
	return matrix3{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}
}

func randomAtoms(cnt int) []Coords {
	atoms := make([]Coords, cnt)
	for i := 0; i < cnt; i++ {
		atoms[i] = randomAtom()
	}
	return atoms
}

func randomAtom() Coords {
	return Coords{
		rng.Float64() * 100,
		rng.Float64() * 100,
		rng.Float64() * 100,
	}
}

func structureCoords(ps []Coords) []structure.Coords {
	cs := make([]structure.Coords, len(ps))
	for i, p := range ps {
		cs[i] = structure.Coords{X: p[0], Y: p[1], Z: p[2]}
	}
	return cs
}
