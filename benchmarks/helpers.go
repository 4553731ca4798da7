// Package benchmarks provides shared grammar generators for benchmark tests.
package benchmarks

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/primitives"
)

// GenWideRules creates a grammar whose only productive rule is the last of n,
// so every lookup scans the whole rule list.
func GenWideRules(n int) *lsystemx.Grammar {
	if n < 1 {
		n = 1
	}
	b := lsystemx.NewGrammarBuilder().SetAxiom("Z")
	for i := 0; i < n-1; i++ {
		b.AddRule(byte('a'+i%26), "x", 0, 0)
	}
	b.AddRule('Z', "TZ", 0, 0)
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// GenBranching creates a grammar where each X spawns fan children, so the
// output grows as fan^depth.
func GenBranching(fan int) *lsystemx.Grammar {
	if fan < 1 {
		fan = 1
	}
	var sub strings.Builder
	sub.WriteString("T")
	for i := 0; i < fan; i++ {
		if i%2 == 0 {
			sub.WriteString("[+X]")
		} else {
			sub.WriteString("[-X]")
		}
	}
	sub.WriteString("L")
	g, err := lsystemx.NewGrammarBuilder().
		SetAxiom("X").
		Rule('X', sub.String()).
		Build()
	if err != nil {
		panic(err)
	}
	return g
}

// GenLifetimeLadder creates n rules for the same trigger with lifetimes 1..n,
// so a different rule wins at each depth.
func GenLifetimeLadder(n int) *lsystemx.Grammar {
	b := lsystemx.NewGrammarBuilder().SetAxiom("A")
	for i := 1; i <= n; i++ {
		b.AddRule('A', fmt.Sprintf("%dA", i%10), 0, i)
	}
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// GenGrammarYAML returns g encoded as a YAML document.
func GenGrammarYAML(name string, g *lsystemx.Grammar) []byte {
	cfg, err := primitives.FromGrammar(name, g)
	if err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	return data
}
