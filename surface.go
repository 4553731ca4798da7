package lsystemx

import (
	"image/color"

	"github.com/comalice/lsystemx/affine"
)

// Surface receives drawing calls in device coordinates. The interpreter has
// already applied the active transform to every vertex. Implementations need
// not be safe for concurrent use.
type Surface interface {
	DrawPolygon(points []affine.Point, stroke color.RGBA)
	FillPolygon(points []affine.Point, fill color.RGBA)
	FillRectangle(c1, c2 affine.Point, fill color.RGBA)
}

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpDrawPolygon OpKind = iota
	OpFillPolygon
	OpFillRectangle
)

func (k OpKind) String() string {
	switch k {
	case OpDrawPolygon:
		return "drawPolygon"
	case OpFillPolygon:
		return "fillPolygon"
	case OpFillRectangle:
		return "fillRectangle"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing call. FillRectangle ops store their two corners
// in Points.
type Op struct {
	Kind   OpKind
	Points []affine.Point
	Color  color.RGBA
}

// DisplayList is a Surface that records calls so they can be replayed later,
// for example onto a shared surface after rendering trees concurrently.
type DisplayList struct {
	Ops []Op
}

func (d *DisplayList) DrawPolygon(points []affine.Point, stroke color.RGBA) {
	d.record(OpDrawPolygon, points, stroke)
}

func (d *DisplayList) FillPolygon(points []affine.Point, fill color.RGBA) {
	d.record(OpFillPolygon, points, fill)
}

func (d *DisplayList) FillRectangle(c1, c2 affine.Point, fill color.RGBA) {
	d.Ops = append(d.Ops, Op{Kind: OpFillRectangle, Points: []affine.Point{c1, c2}, Color: fill})
}

func (d *DisplayList) record(kind OpKind, points []affine.Point, c color.RGBA) {
	pts := make([]affine.Point, len(points))
	copy(pts, points)
	d.Ops = append(d.Ops, Op{Kind: kind, Points: pts, Color: c})
}

// Replay issues every recorded call, in order, against s.
func (d *DisplayList) Replay(s Surface) {
	for _, op := range d.Ops {
		switch op.Kind {
		case OpDrawPolygon:
			s.DrawPolygon(op.Points, op.Color)
		case OpFillPolygon:
			s.FillPolygon(op.Points, op.Color)
		case OpFillRectangle:
			s.FillRectangle(op.Points[0], op.Points[1], op.Color)
		}
	}
}

// Reset drops all recorded calls and keeps the backing storage.
func (d *DisplayList) Reset() {
	d.Ops = d.Ops[:0]
}

// Bounds returns the bounding box of every recorded vertex. ok is false when
// nothing was recorded.
func (d *DisplayList) Bounds() (lo, hi affine.Point, ok bool) {
	for _, op := range d.Ops {
		for _, p := range op.Points {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		}
	}
	return lo, hi, ok
}
