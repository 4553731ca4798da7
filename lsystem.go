package lsystemx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAxiom is returned when a grammar is finished without an axiom.
	ErrNoAxiom = errors.New("grammar has no axiom")

	// ErrStackUnderflow is returned when ']' is interpreted with no saved transform.
	ErrStackUnderflow = errors.New("transform stack underflow")
)

// RuleFlags restrict a rule to even or odd expansion depths.
type RuleFlags uint8

const (
	// EvenOnly rules are skipped at odd depths ('%' in the text format).
	EvenOnly RuleFlags = 1 << iota
	// OddOnly rules are skipped at even depths ('^' in the text format).
	OddOnly
)

func (f RuleFlags) String() string {
	var sb strings.Builder
	if f&EvenOnly != 0 {
		sb.WriteByte('%')
	}
	if f&OddOnly != 0 {
		sb.WriteByte('^')
	}
	return sb.String()
}

// Rule is a production: Trigger is replaced by Substitution.
//
// Lifetime 0 never dies. A positive lifetime L keeps the rule alive while
// depth < L. A negative lifetime keeps it alive while depth < maxDepth+L.
type Rule struct {
	Trigger      byte
	Substitution string
	Flags        RuleFlags
	Lifetime     int
}

// Alive reports whether the rule may fire at depth during an expansion to maxDepth.
func (r Rule) Alive(depth, maxDepth int) bool {
	switch {
	case r.Lifetime > 0 && depth >= r.Lifetime:
		return false
	case r.Lifetime < 0 && depth >= maxDepth+r.Lifetime:
		return false
	case r.Flags&EvenOnly != 0 && depth%2 == 1:
		return false
	case r.Flags&OddOnly != 0 && depth%2 == 0:
		return false
	}
	return true
}

// Dead reports whether the rule can never fire because both parity flags are set.
func (r Rule) Dead() bool {
	return r.Flags&EvenOnly != 0 && r.Flags&OddOnly != 0
}

func (r Rule) String() string {
	var sb strings.Builder
	if r.Lifetime != 0 {
		fmt.Fprintf(&sb, "%d ", r.Lifetime)
	}
	sb.WriteString(r.Flags.String())
	sb.WriteByte(r.Trigger)
	sb.WriteString(" = ")
	sb.WriteString(r.Substitution)
	return sb.String()
}

// Grammar is an axiom plus an ordered rule list. It is immutable once built
// and safe for concurrent expansion.
type Grammar struct {
	axiom string
	rules []Rule
}

// Axiom returns the initial symbol sequence.
func (g *Grammar) Axiom() string {
	return g.axiom
}

// Rules returns a copy of the rules in definition order.
func (g *Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// match returns the first rule for s that is alive at depth.
// A trigger with no rules and a trigger whose rules are all dead both fall
// through to literal emission.
func (g *Grammar) match(s byte, depth, maxDepth int) (Rule, bool) {
	for _, r := range g.rules {
		if r.Trigger != s || !r.Alive(depth, maxDepth) {
			continue
		}
		return r, true
	}
	return Rule{}, false
}
