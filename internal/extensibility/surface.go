// Package extensibility provides Surface decorators that can be stacked
// around any drawing backend.
package extensibility

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/affine"
)

// LoggingSurface wraps a Surface and logs every call at debug level.
type LoggingSurface struct {
	inner  lsystemx.Surface
	logger *zap.Logger
}

// NewLoggingSurface creates a LoggingSurface around inner. A nil logger
// discards output.
func NewLoggingSurface(inner lsystemx.Surface, logger *zap.Logger) *LoggingSurface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingSurface{inner: inner, logger: logger}
}

func (s *LoggingSurface) DrawPolygon(points []affine.Point, stroke color.RGBA) {
	s.log(lsystemx.OpDrawPolygon, points, stroke)
	s.inner.DrawPolygon(points, stroke)
}

func (s *LoggingSurface) FillPolygon(points []affine.Point, fill color.RGBA) {
	s.log(lsystemx.OpFillPolygon, points, fill)
	s.inner.FillPolygon(points, fill)
}

func (s *LoggingSurface) FillRectangle(c1, c2 affine.Point, fill color.RGBA) {
	s.log(lsystemx.OpFillRectangle, []affine.Point{c1, c2}, fill)
	s.inner.FillRectangle(c1, c2, fill)
}

func (s *LoggingSurface) log(kind lsystemx.OpKind, points []affine.Point, c color.RGBA) {
	if ce := s.logger.Check(zap.DebugLevel, kind.String()); ce != nil {
		fields := []zap.Field{
			zap.Int("points", len(points)),
			zap.Uint32("rgba", uint32(c.R)<<24|uint32(c.G)<<16|uint32(c.B)<<8|uint32(c.A)),
		}
		if len(points) > 0 {
			fields = append(fields, zap.Float64("x", points[0].X), zap.Float64("y", points[0].Y))
		}
		ce.Write(fields...)
	}
}

// CountingSurface counts calls by kind and optionally forwards them. Not safe
// for concurrent use.
type CountingSurface struct {
	Inner  lsystemx.Surface // may be nil
	Counts map[lsystemx.OpKind]int
}

func (s *CountingSurface) DrawPolygon(points []affine.Point, stroke color.RGBA) {
	s.count(lsystemx.OpDrawPolygon)
	if s.Inner != nil {
		s.Inner.DrawPolygon(points, stroke)
	}
}

func (s *CountingSurface) FillPolygon(points []affine.Point, fill color.RGBA) {
	s.count(lsystemx.OpFillPolygon)
	if s.Inner != nil {
		s.Inner.FillPolygon(points, fill)
	}
}

func (s *CountingSurface) FillRectangle(c1, c2 affine.Point, fill color.RGBA) {
	s.count(lsystemx.OpFillRectangle)
	if s.Inner != nil {
		s.Inner.FillRectangle(c1, c2, fill)
	}
}

func (s *CountingSurface) count(k lsystemx.OpKind) {
	if s.Counts == nil {
		s.Counts = make(map[lsystemx.OpKind]int)
	}
	s.Counts[k]++
}

// Total returns the number of calls seen.
func (s *CountingSurface) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// MultiSurface fans every call out to each surface in order.
type MultiSurface []lsystemx.Surface

func (m MultiSurface) DrawPolygon(points []affine.Point, stroke color.RGBA) {
	for _, s := range m {
		s.DrawPolygon(points, stroke)
	}
}

func (m MultiSurface) FillPolygon(points []affine.Point, fill color.RGBA) {
	for _, s := range m {
		s.FillPolygon(points, fill)
	}
}

func (m MultiSurface) FillRectangle(c1, c2 affine.Point, fill color.RGBA) {
	for _, s := range m {
		s.FillRectangle(c1, c2, fill)
	}
}
