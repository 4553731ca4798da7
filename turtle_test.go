package lsystemx_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/affine"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func interpret(t *testing.T, symbols string, initial affine.Matrix) *DisplayList {
	t.Helper()
	var dl DisplayList
	require.NoError(t, Interpret(symbols, initial, &dl))
	return &dl
}

func TestInterpretLeaf(t *testing.T) {
	dl := interpret(t, "L", affine.Identity)

	want := []Op{
		{Kind: OpFillPolygon, Points: DefaultLeaf, Color: DefaultLeafFill},
		{Kind: OpDrawPolygon, Points: DefaultLeaf, Color: DefaultLeafStroke},
	}
	if diff := cmp.Diff(want, dl.Ops, approx); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretStemAdvances(t *testing.T) {
	dl := interpret(t, "TT", affine.Identity)

	want := []Op{
		{Kind: OpFillRectangle, Points: []affine.Point{{X: -0.5, Y: 0}, {X: 0.5, Y: 6}}, Color: DefaultStemFill},
		{Kind: OpFillRectangle, Points: []affine.Point{{X: -0.5, Y: 6}, {X: 0.5, Y: 12}}, Color: DefaultStemFill},
	}
	if diff := cmp.Diff(want, dl.Ops, approx); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretRotatedStemIsPolygon(t *testing.T) {
	dl := interpret(t, "+T", affine.Identity)
	require.Len(t, dl.Ops, 1)
	op := dl.Ops[0]
	assert.Equal(t, OpFillPolygon, op.Kind)
	assert.Equal(t, DefaultStemFill, op.Color)

	r := affine.RotateDegrees(30)
	want := r.ApplyAll([]affine.Point{{X: -0.5}, {X: 0.5}, {X: 0.5, Y: 6}, {X: -0.5, Y: 6}})
	if diff := cmp.Diff(want, op.Points, approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretComposesInLocalFrame(t *testing.T) {
	// With a horizontal stretch already active, a local turn is applied
	// before the stretch, not after it.
	initial := affine.Scale(2, 1)
	dl := interpret(t, "+L", initial)

	tip := dl.Ops[0].Points[4]
	assert.InDelta(t, -4.0, tip.X, 1e-9)
	assert.InDelta(t, 4*math.Cos(math.Pi/6), tip.Y, 1e-9)

	dl = interpret(t, "-L", affine.Identity)
	tip = dl.Ops[0].Points[4]
	assert.InDelta(t, 2.0, tip.X, 1e-9)
}

func TestInterpretPushPopRestores(t *testing.T) {
	dl := interpret(t, "T[+sT]T", affine.Identity)
	require.Len(t, dl.Ops, 3)

	assert.Equal(t, OpFillPolygon, dl.Ops[1].Kind)
	last := dl.Ops[2]
	assert.Equal(t, OpFillRectangle, last.Kind)
	if diff := cmp.Diff([]affine.Point{{X: -0.5, Y: 6}, {X: 0.5, Y: 12}}, last.Points, approx); diff != "" {
		t.Errorf("stem after pop mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretEmptyBranchIsIdentity(t *testing.T) {
	base := affine.Translate(3, 7).Compose(affine.RotateDegrees(11))
	plain := interpret(t, "L", base)
	bracketed := interpret(t, "[]L", base)
	assert.Equal(t, plain.Ops, bracketed.Ops, "[ ] must leave the transform bit-identical")
}

func TestInterpretScaleInverses(t *testing.T) {
	base := affine.Translate(40, 80).Compose(affine.Scale(3, -3))
	want := interpret(t, "L", base)
	for _, pair := range []string{"sS", "Ss", "hH", "Hh", "vV", "Vv", "shvVHS"} {
		got := interpret(t, pair+"L", base)
		if diff := cmp.Diff(want.Ops, got.Ops, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", pair, diff)
		}
	}
}

func TestInterpretScaleSymbols(t *testing.T) {
	cases := []struct {
		sym    string
		sx, sy float64
	}{
		{"s", 0.9, 0.9},
		{"S", 1 / 0.9, 1 / 0.9},
		{"h", 0.9, 1},
		{"H", 1 / 0.9, 1},
		{"v", 1, 0.9},
		{"V", 1, 1 / 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.sym, func(t *testing.T) {
			dl := interpret(t, tc.sym+"T", affine.Identity)
			require.Len(t, dl.Ops, 1)
			assert.Equal(t, OpFillRectangle, dl.Ops[0].Kind)
			hi := dl.Ops[0].Points[1]
			assert.InDelta(t, 0.5*tc.sx, hi.X, 1e-9)
			assert.InDelta(t, 6*tc.sy, hi.Y, 1e-9)
		})
	}
}

func TestInterpretUnderflow(t *testing.T) {
	var dl DisplayList
	err := Interpret("]", affine.Identity, &dl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var ie *InterpretError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Pos)
	assert.Equal(t, byte(']'), ie.Symbol)

	// Calls made before the bad pop stay on the surface.
	dl.Reset()
	err = Interpret("T[]]L", affine.Identity, &dl)
	require.ErrorIs(t, err, ErrStackUnderflow)
	assert.Len(t, dl.Ops, 1)
	assert.Contains(t, err.Error(), "at 3")
}

func TestInterpretIgnoresUnknownSymbols(t *testing.T) {
	var dl DisplayList
	st, err := NewTurtle().Interpret("XYZ 123", affine.Identity, &dl)
	require.NoError(t, err)
	assert.Empty(t, dl.Ops)
	assert.Equal(t, 7, st.Ignored)
}

func TestInterpretUnclosedPushIsFine(t *testing.T) {
	var dl DisplayList
	st, err := NewTurtle().Interpret("[[[T", affine.Identity, &dl)
	require.NoError(t, err)
	assert.Equal(t, 3, st.MaxStack)
	assert.Equal(t, 1, st.Stems)
}

func TestInterpretRunsAreIndependent(t *testing.T) {
	turtle := NewTurtle()
	var a, b DisplayList

	_, err := turtle.Interpret("[+T", affine.Identity, &a)
	require.NoError(t, err)

	// The unclosed '[' of the previous run must not be visible here.
	_, err = turtle.Interpret("]", affine.Identity, &b)
	assert.ErrorIs(t, err, ErrStackUnderflow)

	// Identical inputs, identical output.
	var c DisplayList
	_, err = turtle.Interpret("[+T", affine.Identity, &c)
	require.NoError(t, err)
	assert.Equal(t, a.Ops, c.Ops)
}

func TestInterpretStats(t *testing.T) {
	var dl DisplayList
	st, err := NewTurtle().Interpret("T[+T[L]][-TL]L", affine.Identity, &dl)
	require.NoError(t, err)
	assert.Equal(t, Stats{Leaves: 3, Stems: 3, MaxStack: 2}, st)
}

func TestInterpretCustomTurtle(t *testing.T) {
	turtle := NewTurtle()
	turtle.Angle = 90
	turtle.Step = 1
	turtle.StemWidth = 0

	var dl DisplayList
	_, err := turtle.Interpret("+TT", affine.Identity, &dl)
	require.NoError(t, err)
	require.Len(t, dl.Ops, 2)

	// After a 90 degree left turn, each stem advances along -x.
	end := dl.Ops[1].Points[2]
	assert.InDelta(t, -2.0, end.X, 1e-9)
	assert.InDelta(t, 0.0, end.Y, 1e-9)
}
