package lsystemx

// GrammarBuilder collects an axiom and rules and produces an immutable Grammar.
type GrammarBuilder struct {
	axiom string
	rules []Rule
}

// RuleBuilder provides fluent methods for configuring the most recently added rule.
type RuleBuilder struct {
	b   *GrammarBuilder
	idx int
}

// NewGrammarBuilder creates an empty builder.
func NewGrammarBuilder() *GrammarBuilder {
	return &GrammarBuilder{}
}

// SetAxiom sets the initial symbol sequence. Calling it again replaces the axiom.
func (b *GrammarBuilder) SetAxiom(axiom string) *GrammarBuilder {
	b.axiom = axiom
	return b
}

// AddRule appends a rule. Rules for the same trigger are legal; the first one
// alive at a given depth wins.
func (b *GrammarBuilder) AddRule(trigger byte, substitution string, flags RuleFlags, lifetime int) *GrammarBuilder {
	b.rules = append(b.rules, Rule{
		Trigger:      trigger,
		Substitution: substitution,
		Flags:        flags,
		Lifetime:     lifetime,
	})
	return b
}

// Rule appends a rule with no flags and an unlimited lifetime and returns a
// RuleBuilder to refine it.
func (b *GrammarBuilder) Rule(trigger byte, substitution string) *RuleBuilder {
	b.AddRule(trigger, substitution, 0, 0)
	return &RuleBuilder{b: b, idx: len(b.rules) - 1}
}

// Build validates the configuration and constructs the Grammar.
// An empty axiom counts as never set.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.axiom == "" {
		return nil, ErrNoAxiom
	}
	rules := make([]Rule, len(b.rules))
	copy(rules, b.rules)
	return &Grammar{axiom: b.axiom, rules: rules}, nil
}

// RuleBuilder fluent methods

// Even restricts the rule to even depths.
func (rb *RuleBuilder) Even() *RuleBuilder {
	rb.b.rules[rb.idx].Flags |= EvenOnly
	return rb
}

// Odd restricts the rule to odd depths.
func (rb *RuleBuilder) Odd() *RuleBuilder {
	rb.b.rules[rb.idx].Flags |= OddOnly
	return rb
}

// Lifetime sets the rule lifetime (see Rule).
func (rb *RuleBuilder) Lifetime(n int) *RuleBuilder {
	rb.b.rules[rb.idx].Lifetime = n
	return rb
}

// Rule starts another rule on the same builder.
func (rb *RuleBuilder) Rule(trigger byte, substitution string) *RuleBuilder {
	return rb.b.Rule(trigger, substitution)
}

// Build finishes the underlying GrammarBuilder.
func (rb *RuleBuilder) Build() (*Grammar, error) {
	return rb.b.Build()
}
