package primitives

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/comalice/lsystemx"
)

// RuleConfig is one production in document form.
type RuleConfig struct {
	Trigger      string `json:"trigger" yaml:"trigger"`
	Substitution string `json:"substitution" yaml:"substitution"`
	Lifetime     int    `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	Even         bool   `json:"even,omitempty" yaml:"even,omitempty"`
	Odd          bool   `json:"odd,omitempty" yaml:"odd,omitempty"`
}

// GrammarConfig is a grammar in document form. Rules are kept in precedence
// order.
type GrammarConfig struct {
	Name  string       `json:"name,omitempty" yaml:"name,omitempty"`
	Axiom string       `json:"axiom" yaml:"axiom"`
	Rules []RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Validate checks the rule.
func (r *RuleConfig) Validate() error {
	if len(r.Trigger) != 1 {
		return fmt.Errorf("trigger %q must be exactly one byte", r.Trigger)
	}
	return nil
}

// Rule converts to the engine type. Validate first.
func (r *RuleConfig) Rule() lsystemx.Rule {
	var flags lsystemx.RuleFlags
	if r.Even {
		flags |= lsystemx.EvenOnly
	}
	if r.Odd {
		flags |= lsystemx.OddOnly
	}
	return lsystemx.Rule{
		Trigger:      r.Trigger[0],
		Substitution: r.Substitution,
		Flags:        flags,
		Lifetime:     r.Lifetime,
	}
}

// Validate checks the axiom and every rule.
func (g *GrammarConfig) Validate() error {
	if g.Axiom == "" {
		return lsystemx.ErrNoAxiom
	}
	for i := range g.Rules {
		if err := g.Rules[i].Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// Grammar validates the document and builds an engine grammar from it.
func (g *GrammarConfig) Grammar() (*lsystemx.Grammar, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	b := lsystemx.NewGrammarBuilder().SetAxiom(g.Axiom)
	for i := range g.Rules {
		r := g.Rules[i].Rule()
		b.AddRule(r.Trigger, r.Substitution, r.Flags, r.Lifetime)
	}
	return b.Build()
}

// FromGrammar converts an engine grammar to document form. Triggers must be
// ASCII and text valid UTF-8, since document encoders rewrite other bytes.
func FromGrammar(name string, g *lsystemx.Grammar) (*GrammarConfig, error) {
	if g == nil {
		return nil, errors.New("nil grammar")
	}
	if !utf8.ValidString(g.Axiom()) {
		return nil, fmt.Errorf("axiom %q is not valid UTF-8", g.Axiom())
	}
	cfg := &GrammarConfig{Name: name, Axiom: g.Axiom()}
	for i, r := range g.Rules() {
		if r.Trigger >= utf8.RuneSelf {
			return nil, fmt.Errorf("rule %d: trigger %q is not ASCII", i, r.Trigger)
		}
		if !utf8.ValidString(r.Substitution) {
			return nil, fmt.Errorf("rule %d: substitution %q is not valid UTF-8", i, r.Substitution)
		}
		cfg.Rules = append(cfg.Rules, RuleConfig{
			Trigger:      string([]byte{r.Trigger}),
			Substitution: r.Substitution,
			Lifetime:     r.Lifetime,
			Even:         r.Flags&lsystemx.EvenOnly != 0,
			Odd:          r.Flags&lsystemx.OddOnly != 0,
		})
	}
	return cfg, nil
}
