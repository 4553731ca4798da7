// Package builder declares grammars with functional options, for code that
// prefers a value-style listing over the fluent GrammarBuilder.
//
//	g, err := builder.Grammar("X",
//		builder.Rule('X', "T[+X][-X]sL", builder.Lifetime(-1)),
//		builder.Rule('T', "TT"),
//		builder.Rule('L', "[+L][-L]", builder.Even()),
//	)
package builder

import (
	"github.com/comalice/lsystemx" // the core package
)

// Option configures a rule.
type Option func(*lsystemx.Rule)

// Even restricts the rule to even depths.
func Even() Option {
	return func(r *lsystemx.Rule) { r.Flags |= lsystemx.EvenOnly }
}

// Odd restricts the rule to odd depths.
func Odd() Option {
	return func(r *lsystemx.Rule) { r.Flags |= lsystemx.OddOnly }
}

// Lifetime sets the rule lifetime.
func Lifetime(n int) Option {
	return func(r *lsystemx.Rule) { r.Lifetime = n }
}

// Rule creates a rule; with no options it fires at every depth.
func Rule(trigger byte, substitution string, opts ...Option) lsystemx.Rule {
	r := lsystemx.Rule{Trigger: trigger, Substitution: substitution}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Grammar builds a grammar from an axiom and rules in precedence order.
func Grammar(axiom string, rules ...lsystemx.Rule) (*lsystemx.Grammar, error) {
	b := lsystemx.NewGrammarBuilder().SetAxiom(axiom)
	for _, r := range rules {
		b.AddRule(r.Trigger, r.Substitution, r.Flags, r.Lifetime)
	}
	return b.Build()
}

// MustGrammar is Grammar that panics on error. Intended for examples and
// package-level fixtures.
func MustGrammar(axiom string, rules ...lsystemx.Rule) *lsystemx.Grammar {
	g, err := Grammar(axiom, rules...)
	if err != nil {
		panic(err)
	}
	return g
}
