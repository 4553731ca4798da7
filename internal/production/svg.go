package production

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/comalice/lsystemx/affine"
	"github.com/comalice/lsystemx/internal/primitives"
)

// svgPrecision is the number of SVG user units per device unit. svgo takes
// integer coordinates, so everything is drawn at this resolution inside a
// group scaled back down.
const svgPrecision = 10

// SVGSurface draws onto an SVG document. Close must be called to finish it.
type SVGSurface struct {
	canvas *svg.SVG
	closed bool
}

// NewSVGSurface writes the document header and a background rectangle of the
// given size.
func NewSVGSurface(w io.Writer, width, height int, background color.RGBA) *SVGSurface {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fillStyle(background))
	canvas.Gtransform(fmt.Sprintf("scale(%g)", 1.0/svgPrecision))
	return &SVGSurface{canvas: canvas}
}

func (s *SVGSurface) DrawPolygon(points []affine.Point, stroke color.RGBA) {
	xs, ys := coords(points)
	s.canvas.Polygon(xs, ys, strokeStyle(stroke))
}

func (s *SVGSurface) FillPolygon(points []affine.Point, fill color.RGBA) {
	xs, ys := coords(points)
	s.canvas.Polygon(xs, ys, fillStyle(fill))
}

// FillRectangle accepts the corners in any order.
func (s *SVGSurface) FillRectangle(c1, c2 affine.Point, fill color.RGBA) {
	x0, y0 := scaled(min(c1.X, c2.X)), scaled(min(c1.Y, c2.Y))
	x1, y1 := scaled(max(c1.X, c2.X)), scaled(max(c1.Y, c2.Y))
	s.canvas.Rect(x0, y0, x1-x0, y1-y0, fillStyle(fill))
}

// Close ends the document. Calling it twice is a no-op.
func (s *SVGSurface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.canvas.Gend()
	s.canvas.End()
}

func scaled(v float64) int {
	return int(math.Round(v * svgPrecision))
}

func coords(points []affine.Point) (xs, ys []int) {
	xs = make([]int, len(points))
	ys = make([]int, len(points))
	for i, p := range points {
		xs[i], ys[i] = scaled(p.X), scaled(p.Y)
	}
	return xs, ys
}

func fillStyle(c color.RGBA) string {
	s := "fill:" + primitives.HexColor(c)
	if c.A != 255 {
		s += fmt.Sprintf(";fill-opacity:%.3g", float64(c.A)/255)
	}
	return s
}

func strokeStyle(c color.RGBA) string {
	s := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", primitives.HexColor(c), svgPrecision)
	if c.A != 255 {
		s += fmt.Sprintf(";stroke-opacity:%.3g", float64(c.A)/255)
	}
	return s
}
