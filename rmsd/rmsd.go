package rmsd

import (
	"math"
)

// collinearTolerance is the ratio between the second and the first singular
// values of the covariance matrix below which the points are treated as
// lying on a line.
const collinearTolerance = 1e-9

// Fit implements a version of the Kabsch algorithm that is described here:
// http://cnx.org/content/m11608/latest/
//
// It returns the transformation that, when applied to mobile, minimizes the
// RMSD between mobile and target. target[i] is paired with mobile[i].
//
// A brief, high-level overview:
//
// Build the 3xN matrices X and Y containing, for the sets mobile and target
// respectively, the coordinates for each of the N atoms after centering
// the atoms by subtracting the centroids.
//
// Compute the covariance matrix C=X(Y^T)
//
// Compute the SVD (Singular Value Decomposition) of C=US(V^T)
//
// Compute d=sign(det(V(U^T)))
//
// Compute the optimal rotation R as R = V([1 0 0] [0 1 0] [0 0 d])(U^T)
//
// The translation is then the target centroid minus the rotated mobile
// centroid.
//
// A *MismatchedLengthError is returned when the lengths of target and mobile
// differ. A *DegenerateInputError is returned when there are fewer than
// MinPoints points, when a coordinate is NaN or infinite or when the points
// are collinear.
func Fit(target, mobile []Coords) (Transform, error) {
	if len(target) != len(mobile) {
		return Identity(), &MismatchedLengthError{len(target), len(mobile)}
	}
	if len(target) < MinPoints {
		return Identity(), &DegenerateInputError{
			N:      len(target),
			Reason: "at least 3 paired points are required",
		}
	}
	if !Finite(target) || !Finite(mobile) {
		return Identity(), &DegenerateInputError{
			N:      len(target),
			Reason: "every coordinate must be a finite number",
		}
	}

	// In order to "center" the coordinates, we
	// subtract the centroid for each set of atom coordinates.
	ct, cm := Centroid(target), Centroid(mobile)
	X := make([]Coords, len(mobile))
	Y := make([]Coords, len(target))
	for i := range mobile {
		X[i] = mobile[i].sub(cm)
		Y[i] = target[i].sub(ct)
	}

	C := covariance(X, Y)
	U, s, V, err := C.svd()
	if err != nil {
		return Identity(), err
	}
	if s[0] == 0 || s[1] <= collinearTolerance*s[0] {
		return Identity(), &DegenerateInputError{
			N:      len(target),
			Reason: "the points are collinear",
		}
	}

	// If the determinant is negative, then V(U^T) is an "improper rotation"
	// (a reflection) and doesn't constitute a "right handed system". To
	// correct for it, we negate the singular vector with the smallest
	// singular value. This makes the rotation "proper".
	UT := U.transpose()
	if V.mult(UT).det() < 0 {
		V = V.mult(reflectZ)
	}
	R := V.mult(UT)
	return Transform{
		Rotation:    R,
		Translation: ct.sub(R.multVec(cm)),
	}, nil
}

// Superpose fits mobile onto target and returns the transformation along
// with the RMSD between target and the transformed mobile points.
func Superpose(target, mobile []Coords) (Transform, float64, error) {
	t, err := Fit(target, mobile)
	if err != nil {
		return t, 0, err
	}
	r, err := RMSD(target, t.ApplyAll(mobile))
	if err != nil {
		return t, 0, err
	}
	return t, r, nil
}

// RMSD computes the root-mean-square deviation between two paired point sets
// without moving either of them. The RMSD of two empty sets is 0.
func RMSD(struct1, struct2 []Coords) (float64, error) {
	if len(struct1) != len(struct2) {
		return 0, &MismatchedLengthError{len(struct1), len(struct2)}
	}
	if len(struct1) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range struct1 {
		sum += struct1[i].distSq(struct2[i])
	}
	return math.Sqrt(sum / float64(len(struct1))), nil
}
