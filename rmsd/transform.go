package rmsd

import (
	"fmt"
	"math"
)

// Coords is a point in three dimensional space, usually the position of an
// atom.
type Coords [3]float64

func (c Coords) add(d Coords) Coords {
	return Coords{c[0] + d[0], c[1] + d[1], c[2] + d[2]}
}

func (c Coords) sub(d Coords) Coords {
	return Coords{c[0] - d[0], c[1] - d[1], c[2] - d[2]}
}

// Dist returns the Euclidean distance between two points.
func (c Coords) Dist(d Coords) float64 {
	return math.Sqrt(c.distSq(d))
}

func (c Coords) distSq(d Coords) float64 {
	dx, dy, dz := c[0]-d[0], c[1]-d[1], c[2]-d[2]
	return dx*dx + dy*dy + dz*dz
}

// Transform is a rigid body transformation. A point p is transformed by
// first rotating it and then translating it: Rotation * p + Translation.
//
// Rotation is stored in row-major order and is always a proper rotation
// (orthonormal with a determinant of +1) when returned by Fit.
type Transform struct {
	Rotation    [9]float64
	Translation Coords
}

// Identity returns the transformation that leaves every point in place.
func Identity() Transform {
	return Transform{Rotation: identity3}
}

// Translation returns a transformation that only translates points by the
// given vector.
func Translation(v Coords) Transform {
	return Transform{Rotation: identity3, Translation: v}
}

// Apply transforms a single point.
func (t Transform) Apply(p Coords) Coords {
	return matrix3(t.Rotation).multVec(p).add(t.Translation)
}

// ApplyAll returns a new slice with every point in ps transformed. The input
// is not modified.
func (t Transform) ApplyAll(ps []Coords) []Coords {
	moved := make([]Coords, len(ps))
	for i, p := range ps {
		moved[i] = t.Apply(p)
	}
	return moved
}

// Det returns the determinant of the rotation matrix.
func (t Transform) Det() float64 {
	return matrix3(t.Rotation).det()
}

// Row returns row i of the rotation matrix.
func (t Transform) Row(i int) [3]float64 {
	return [3]float64{
		t.Rotation[i*3+0], t.Rotation[i*3+1], t.Rotation[i*3+2],
	}
}

// String returns the rotation matrix followed by the translation vector.
func (t Transform) String() string {
	r := t.Rotation
	return fmt.Sprintf("[[%.6f %.6f %.6f]\n [%.6f %.6f %.6f]\n"+
		" [%.6f %.6f %.6f]] + [%.6f %.6f %.6f]",
		r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8],
		t.Translation[0], t.Translation[1], t.Translation[2])
}

// Finite returns false if any coordinate of any point is NaN or infinite.
func Finite(ps []Coords) bool {
	for _, p := range ps {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Centroid calculates the average position of a set of points.
// The centroid of an empty set is the origin.
func Centroid(ps []Coords) Coords {
	var c Coords
	if len(ps) == 0 {
		return c
	}
	for _, p := range ps {
		c = c.add(p)
	}
	n := float64(len(ps))
	return Coords{c[0] / n, c[1] / n, c[2] / n}
}
