// Package testutil holds fixtures and adapters shared by the test suites.
package testutil

import (
	"bytes"
	"testing"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/affine"
)

// ExpansionAdapter gives the string and streaming expansion paths a common
// interface so the same cases can run against both.
type ExpansionAdapter interface {
	Name() string
	Expand(g *lsystemx.Grammar, depth int) (string, error)
}

// StringAdapter uses Grammar.Expand.
type StringAdapter struct{}

func (StringAdapter) Name() string { return "string" }

func (StringAdapter) Expand(g *lsystemx.Grammar, depth int) (string, error) {
	return g.Expand(depth), nil
}

// StreamAdapter uses Grammar.ExpandTo into a buffer.
type StreamAdapter struct{}

func (StreamAdapter) Name() string { return "stream" }

func (StreamAdapter) Expand(g *lsystemx.Grammar, depth int) (string, error) {
	var buf bytes.Buffer
	if _, err := g.ExpandTo(&buf, depth); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Adapters returns every expansion path.
func Adapters() []ExpansionAdapter {
	return []ExpansionAdapter{StringAdapter{}, StreamAdapter{}}
}

// MustParse parses src or fails the test.
func MustParse(t testing.TB, src string) *lsystemx.Grammar {
	t.Helper()
	g, err := lsystemx.ParseString(src)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

// AssertMatrixNear fails the test when got differs from want by more than eps
// in any coefficient.
func AssertMatrixNear(t testing.TB, want, got affine.Matrix, eps float64) {
	t.Helper()
	if !want.Near(got, eps) {
		t.Errorf("matrix mismatch:\nwant %v\n got %v", want, got)
	}
}
