package rmsd

import (
	"fmt"

	matrix "github.com/skelterjohn/go.matrix"
)

// Represents a 3x3 matrix, in row-major order
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
type matrix3 [9]float64

var identity3 = matrix3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// reflectZ negates the last column of a matrix when multiplied on the right.
var reflectZ = matrix3{
	1, 0, 0,
	0, 1, 0,
	0, 0, -1,
}

func (a matrix3) mult(b matrix3) matrix3 {
	return matrix3{
		a[0]*b[0] + a[1]*b[3] + a[2]*b[6],
		a[0]*b[1] + a[1]*b[4] + a[2]*b[7],
		a[0]*b[2] + a[1]*b[5] + a[2]*b[8],

		a[3]*b[0] + a[4]*b[3] + a[5]*b[6],
		a[3]*b[1] + a[4]*b[4] + a[5]*b[7],
		a[3]*b[2] + a[4]*b[5] + a[5]*b[8],

		a[6]*b[0] + a[7]*b[3] + a[8]*b[6],
		a[6]*b[1] + a[7]*b[4] + a[8]*b[7],
		a[6]*b[2] + a[7]*b[5] + a[8]*b[8],
	}
}

func (a matrix3) transpose() matrix3 {
	return matrix3{
		a[0], a[3], a[6],
		a[1], a[4], a[7],
		a[2], a[5], a[8],
	}
}

func (a matrix3) det() float64 {
	return a[0]*(a[4]*a[8]-a[5]*a[7]) -
		a[1]*(a[3]*a[8]-a[5]*a[6]) +
		a[2]*(a[3]*a[7]-a[4]*a[6])
}

func (a matrix3) multVec(v Coords) Coords {
	return Coords{
		a[0]*v[0] + a[1]*v[1] + a[2]*v[2],
		a[3]*v[0] + a[4]*v[1] + a[5]*v[2],
		a[6]*v[0] + a[7]*v[1] + a[8]*v[2],
	}
}

// covariance computes the 3x3 cross-covariance matrix X(Y^T) of two centered
// point sets, where X and Y are the 3xN matrices with one point per column.
func covariance(xs, ys []Coords) matrix3 {
	var C matrix3
	for i := range xs {
		x, y := xs[i], ys[i]
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				C[r*3+c] += x[r] * y[c]
			}
		}
	}
	return C
}

// svd computes the singular value decomposition A = U*diag(s)*(V^T).
// The singular values are in decreasing order, as go.matrix (and Jama, which
// it is derived from) always orders them.
func (a matrix3) svd() (matrix3, [3]float64, matrix3, error) {
	var U, V matrix3
	var s [3]float64

	elements := make([]float64, 9)
	copy(elements, a[:])
	mU, mS, mV, err := matrix.MakeDenseMatrix(elements, 3, 3).SVD()
	if err != nil {
		return U, s, V, fmt.Errorf("Could not compute SVD of %v: %s", a, err)
	}
	copy(U[:], mU.Array())
	copy(V[:], mV.Array())
	for i := range s {
		s[i] = mS.Get(i, i)
	}
	return U, s, V, nil
}
