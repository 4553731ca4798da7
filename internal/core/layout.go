package core

import (
	"github.com/comalice/lsystemx/affine"
)

// Reference canvas the forest scale is calibrated against.
const (
	referenceWidth  = 800.0
	referenceHeight = 600.0
)

// ForestOrigins returns the starting transform of each of n trees on a
// width x height canvas with y growing downwards.
//
// Trees are spaced evenly along the bottom edge with their local +y pointing
// up. The scale shrinks as the forest grows but never below 1 device unit per
// turtle unit.
func ForestOrigins(width, height float64, n int) []affine.Matrix {
	if n < 1 {
		return nil
	}
	div := float64(n/2 + 1)
	sx := max(1, 6*(width/referenceWidth)/div)
	sy := max(1, 6*(height/referenceHeight)/div)

	base := affine.Translate(width/float64(n+1), height).Compose(affine.Scale(sx, -sy))
	spacing := width / (sx * float64(n+1))

	origins := make([]affine.Matrix, n)
	for i := range origins {
		origins[i] = base.Compose(affine.Translate(float64(i)*spacing, 0))
	}
	return origins
}
