package lsystemx_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/lsystemx"
)

type builder interface {
	Build() (*Grammar, error)
}

func mustBuild(t *testing.T, b builder) *Grammar {
	t.Helper()
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestExpandDepthZeroReturnsAxiom(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("A[B]C").
		Rule('A', "AA").
		Rule('B', "").
		Rule('C', "xyz"))

	assert.Equal(t, "A[B]C", g.Expand(0))
	assert.Equal(t, "A[B]C", g.Expand(-3), "negative depth behaves like zero")
}

func TestExpandDepthFirst(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().SetAxiom("A").Rule('A', "AB"))

	// A@0 -> AB@1; A@1 -> AB@2 emitted literally; B has no rule.
	assert.Equal(t, "AB", g.Expand(1))
	assert.Equal(t, "ABB", g.Expand(2))
	assert.Equal(t, "ABBB", g.Expand(3))
}

func TestExpandLeftToRight(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("AB").
		Rule('A', "BA").
		Rule('B', "A"))

	// A@0 -> BA@1 -> (A)(BA); B@0 -> A@1 -> BA.
	assert.Equal(t, "BAA", g.Expand(1))
	assert.Equal(t, "ABABA", g.Expand(2))
}

func TestExpandDeterministic(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("X").
		Rule('X', "T[+X][-X]sL").Lifetime(-1).
		Rule('T', "TT").
		Rule('L', "[+L][-L]").Even())

	first := g.Expand(6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.Expand(6))
	}
	assert.Equal(t, Digest(first), Digest(g.Expand(6)))
}

func TestExpandConcurrentSharedGrammar(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("X").
		Rule('X', "T[+X][-X]").
		Rule('T', "TT"))
	want := g.Expand(5)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Expand(5)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestExpandRulePrecedence(t *testing.T) {
	// The first rule dies after depth 0, after which the second applies.
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("A").
		Rule('A', "XA").Lifetime(1).
		Rule('A', "YA"))

	assert.Equal(t, "XA", g.Expand(1))
	assert.Equal(t, "XYA", g.Expand(2))
	assert.Equal(t, "XYYA", g.Expand(3))
}

func TestExpandFirstLiveRuleWins(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("A").
		Rule('A', "first").
		Rule('A', "second"))

	assert.Equal(t, "first", g.Expand(1))
}

func TestExpandPositiveLifetimeBoundary(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("A").
		Rule('A', "aA").Lifetime(2))

	// Alive at depth 1 (L-1), dead at depth 2 (L).
	assert.Equal(t, "aaA", g.Expand(2))
	assert.Equal(t, "aaA", g.Expand(5))
}

func TestExpandNegativeLifetime(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("A").
		Rule('A', "aA").Lifetime(-2))

	cases := []struct {
		maxDepth int
		want     string
	}{
		{0, "A"},
		{1, "A"},    // alive while d < -1: never
		{2, "A"},    // alive while d < 0: never
		{3, "aA"},   // alive at 0
		{5, "aaaA"}, // alive at 0,1,2; stops at 5-2
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, g.Expand(tc.maxDepth), "maxDepth %d", tc.maxDepth)
	}
}

func TestExpandParity(t *testing.T) {
	t.Run("even only", func(t *testing.T) {
		g := mustBuild(t, NewGrammarBuilder().
			SetAxiom("A").
			Rule('A', "aA").Even())
		// Applied at 0, skipped at 1.
		assert.Equal(t, "aA", g.Expand(4))
	})

	t.Run("odd only", func(t *testing.T) {
		g := mustBuild(t, NewGrammarBuilder().
			SetAxiom("A").
			Rule('A', "aA").Odd())
		// Skipped at 0, so A never rewrites.
		assert.Equal(t, "A", g.Expand(4))
	})

	t.Run("alternating", func(t *testing.T) {
		g := mustBuild(t, NewGrammarBuilder().
			SetAxiom("A").
			Rule('A', "aA").Even().
			Rule('A', "bA").Odd())
		assert.Equal(t, "ababA", g.Expand(4))
	})

	t.Run("even with fallback", func(t *testing.T) {
		g := mustBuild(t, NewGrammarBuilder().
			SetAxiom("A").
			Rule('A', "aA").Even().
			Rule('A', "bA"))
		assert.Equal(t, "ababaA", g.Expand(5))
	})
}

func TestExpandDeadRuleFallsThroughLikeMissingRule(t *testing.T) {
	dead := mustBuild(t, NewGrammarBuilder().
		SetAxiom("AB").
		AddRule('A', "zzz", EvenOnly|OddOnly, 0))
	none := mustBuild(t, NewGrammarBuilder().SetAxiom("AB"))

	for depth := 0; depth < 4; depth++ {
		assert.Equal(t, none.Expand(depth), dead.Expand(depth))
	}
	assert.True(t, dead.Rules()[0].Dead())
}

func TestExpandEmptySubstitutionErases(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().
		SetAxiom("AxA").
		Rule('A', ""))
	assert.Equal(t, "x", g.Expand(1))
}

func TestExpandTo(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().SetAxiom("A").Rule('A', "AB"))

	var buf bytes.Buffer
	n, err := g.ExpandTo(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "ABBB", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExpandToPropagatesWriteError(t *testing.T) {
	g := mustBuild(t, NewGrammarBuilder().SetAxiom("A").Rule('A', strings.Repeat("A", 64)))

	_, err := g.ExpandTo(failingWriter{}, 3)
	assert.EqualError(t, err, "disk full")
}

func TestExpandDeepGrammarDoesNotRecurse(t *testing.T) {
	// Linear growth keeps the output small while the depth is large.
	g := mustBuild(t, NewGrammarBuilder().SetAxiom("A").Rule('A', "bA"))
	out := g.Expand(100000)
	assert.Len(t, out, 100001)
	assert.True(t, strings.HasSuffix(out, "bA"))
}
