// Package affine provides the 2-D homogeneous transform used as turtle state.
//
// A Matrix is a value type. Compose never mutates its receiver, so saving a
// transform is a plain assignment.
package affine

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Matrix holds the affine transform
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// acting on column vectors: x' = A*x + C*y + E, y' = B*x + D*y + F.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that maps every point to itself.
var Identity = Matrix{A: 1, D: 1}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Rotate returns a counter-clockwise rotation (in a y-up frame) by radians.
func Rotate(radians float64) Matrix {
	s, c := math.Sincos(radians)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// RotateDegrees is Rotate with the angle given in degrees.
func RotateDegrees(degrees float64) Matrix {
	return Rotate(degrees * math.Pi / 180)
}

// Scale returns an axis-aligned scale by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Compose returns m ∘ local: local is applied first, then m.
// Turtle operations are always composed this way so that they act in the
// turtle's current frame.
func (m Matrix) Compose(local Matrix) Matrix {
	return Matrix{
		A: m.A*local.A + m.C*local.B,
		B: m.B*local.A + m.D*local.B,
		C: m.A*local.C + m.C*local.D,
		D: m.B*local.C + m.D*local.D,
		E: m.A*local.E + m.C*local.F + m.E,
		F: m.B*local.E + m.D*local.F + m.F,
	}
}

// Apply maps p through the transform.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyAll maps every point of pts into a new slice.
func (m Matrix) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Inverse returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Inverse() (inv Matrix, ok bool) {
	det := m.Det()
	if det == 0 {
		return Matrix{}, false
	}
	inv.A = m.D / det
	inv.B = -m.B / det
	inv.C = -m.C / det
	inv.D = m.A / det
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// AxisAligned reports whether the transform maps axis-aligned rectangles to
// axis-aligned rectangles (no rotation or skew).
func (m Matrix) AxisAligned() bool {
	return m.B == 0 && m.C == 0
}

// Near reports whether every coefficient of m and o differs by at most eps.
func (m Matrix) Near(o Matrix, eps float64) bool {
	return math.Abs(m.A-o.A) <= eps &&
		math.Abs(m.B-o.B) <= eps &&
		math.Abs(m.C-o.C) <= eps &&
		math.Abs(m.D-o.D) <= eps &&
		math.Abs(m.E-o.E) <= eps &&
		math.Abs(m.F-o.F) <= eps
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}
