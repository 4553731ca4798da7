package lsystemx

import (
	"fmt"
	"image/color"

	"github.com/comalice/lsystemx/affine"
)

// Symbols understood by the Turtle. Anything else is ignored, so grammars may
// carry annotation symbols with no geometric meaning.
const (
	SymLeaf      = 'L'
	SymStem      = 'T'
	SymTurnLeft  = '+'
	SymTurnRight = '-'
	SymShrink    = 's'
	SymGrow      = 'S'
	SymShrinkX   = 'h'
	SymGrowX     = 'H'
	SymShrinkY   = 'v'
	SymGrowY     = 'V'
	SymPush      = '['
	SymPop       = ']'
)

// DefaultLeaf is the 8-vertex leaf outline in turtle space; the stem of the
// leaf sits at the origin and the tip points along +y.
var DefaultLeaf = []affine.Point{
	{X: 0, Y: 0},
	{X: 1.0, Y: 0.75},
	{X: 1.25, Y: 1.75},
	{X: 1, Y: 2.75},
	{X: 0, Y: 4.0},
	{X: -1, Y: 2.75},
	{X: -1.25, Y: 1.75},
	{X: -1, Y: 0.75},
}

// Default turtle colours.
var (
	DefaultLeafFill   = color.RGBA{R: 64, G: 224, B: 0, A: 255}
	DefaultLeafStroke = color.RGBA{R: 64, G: 128, B: 0, A: 255}
	DefaultStemFill   = color.RGBA{R: 178, G: 106, B: 45, A: 255}
)

// Turtle interprets an expanded symbol string. Its state is a single affine
// transform plus a stack of saved transforms, both local to each Interpret
// call, so one Turtle may be used from several goroutines.
type Turtle struct {
	// Angle is the turn for '+' and '-' in degrees.
	Angle float64
	// Factor is the shrink factor for 's', 'h' and 'v'; the grow symbols use 1/Factor.
	Factor float64
	// Step is the stem length; 'T' advances the turtle by Step along its local +y.
	Step float64
	// StemWidth is the width of the stem rectangle.
	StemWidth float64

	Leaf       []affine.Point
	LeafFill   color.RGBA
	LeafStroke color.RGBA
	StemFill   color.RGBA
}

// NewTurtle returns a Turtle with the default geometry: 30 degree turns, a
// 0.9 scale factor and stems 1 wide and 6 long.
func NewTurtle() *Turtle {
	return &Turtle{
		Angle:      30,
		Factor:     0.9,
		Step:       6,
		StemWidth:  1,
		Leaf:       DefaultLeaf,
		LeafFill:   DefaultLeafFill,
		LeafStroke: DefaultLeafStroke,
		StemFill:   DefaultStemFill,
	}
}

// Stats summarises one interpretation.
type Stats struct {
	Leaves   int
	Stems    int
	Ignored  int
	MaxStack int
}

// InterpretError reports a malformed symbol stream.
type InterpretError struct {
	Pos    int
	Symbol byte
	Err    error
}

func (e *InterpretError) Error() string {
	return fmt.Sprintf("symbol %q at %d: %v", e.Symbol, e.Pos, e.Err)
}

func (e *InterpretError) Unwrap() error {
	return e.Err
}

// localOps holds the local transforms for one interpretation.
type localOps struct {
	left, right    affine.Matrix
	shrink, grow   affine.Matrix
	shrinkX, growX affine.Matrix
	shrinkY, growY affine.Matrix
	advance        affine.Matrix
	stemLo, stemHi affine.Point
}

func (t *Turtle) prepare() localOps {
	f, g := t.Factor, 1/t.Factor
	hw := t.StemWidth / 2
	return localOps{
		left:    affine.RotateDegrees(t.Angle),
		right:   affine.RotateDegrees(-t.Angle),
		shrink:  affine.Scale(f, f),
		grow:    affine.Scale(g, g),
		shrinkX: affine.Scale(f, 1),
		growX:   affine.Scale(g, 1),
		shrinkY: affine.Scale(1, f),
		growY:   affine.Scale(1, g),
		advance: affine.Translate(0, t.Step),
		stemLo:  affine.Point{X: -hw, Y: 0},
		stemHi:  affine.Point{X: hw, Y: t.Step},
	}
}

// Interpret replays symbols left to right starting from initial, drawing on s.
//
// Every transform mutation is composed in the turtle's local frame
// (active = active ∘ op). A ']' without a matching '[' stops interpretation
// with an *InterpretError wrapping ErrStackUnderflow; calls already made on s
// are not undone. Saved transforms left on the stack at the end are dropped.
func (t *Turtle) Interpret(symbols string, initial affine.Matrix, s Surface) (Stats, error) {
	var st Stats
	o := t.prepare()
	active := initial
	var stack []affine.Matrix

	for i := 0; i < len(symbols); i++ {
		switch c := symbols[i]; c {
		case SymLeaf:
			pts := active.ApplyAll(t.Leaf)
			s.FillPolygon(pts, t.LeafFill)
			s.DrawPolygon(pts, t.LeafStroke)
			st.Leaves++
		case SymStem:
			t.drawStem(active, o, s)
			active = active.Compose(o.advance)
			st.Stems++
		case SymTurnLeft:
			active = active.Compose(o.left)
		case SymTurnRight:
			active = active.Compose(o.right)
		case SymShrink:
			active = active.Compose(o.shrink)
		case SymGrow:
			active = active.Compose(o.grow)
		case SymShrinkX:
			active = active.Compose(o.shrinkX)
		case SymGrowX:
			active = active.Compose(o.growX)
		case SymShrinkY:
			active = active.Compose(o.shrinkY)
		case SymGrowY:
			active = active.Compose(o.growY)
		case SymPush:
			stack = append(stack, active)
			st.MaxStack = max(st.MaxStack, len(stack))
		case SymPop:
			if len(stack) == 0 {
				return st, &InterpretError{Pos: i, Symbol: c, Err: ErrStackUnderflow}
			}
			active = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		default:
			st.Ignored++
		}
	}
	return st, nil
}

// drawStem fills the stem rectangle. An axis-aligned transform keeps the
// rectangle a rectangle; otherwise its four corners go out as a polygon.
func (t *Turtle) drawStem(active affine.Matrix, o localOps, s Surface) {
	if active.AxisAligned() {
		s.FillRectangle(active.Apply(o.stemLo), active.Apply(o.stemHi), t.StemFill)
		return
	}
	s.FillPolygon(active.ApplyAll([]affine.Point{
		o.stemLo,
		{X: o.stemHi.X, Y: o.stemLo.Y},
		o.stemHi,
		{X: o.stemLo.X, Y: o.stemHi.Y},
	}), t.StemFill)
}

// Interpret runs a default Turtle over symbols.
func Interpret(symbols string, initial affine.Matrix, s Surface) error {
	_, err := NewTurtle().Interpret(symbols, initial, s)
	return err
}
