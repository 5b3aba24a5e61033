package rmsd

import (
	"fmt"
)

// MinPoints is the fewest number of paired points that Fit accepts.
const MinPoints = 3

// DegenerateInputError is returned when a set of points cannot determine a
// unique rotation. Either there are fewer than MinPoints points, or all of
// the points lie on a single line.
type DegenerateInputError struct {
	N      int
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("Cannot superpose %d points: %s.", e.N, e.Reason)
}

// MismatchedLengthError is returned when two point sets that must be paired
// have a different number of points.
type MismatchedLengthError struct {
	Len1, Len2 int
}

func (e *MismatchedLengthError) Error() string {
	return fmt.Sprintf("Paired point sets must have equal length, but "+
		"they have lengths %d and %d.", e.Len1, e.Len2)
}
