package lsystemx

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const maxLine = 1 << 20

// Parse reads a grammar in the text format:
//
//	# comment
//	<axiom>
//	[lifetime] [flags]<trigger> = <substitution>
//
// The first line that is neither blank nor a comment is the axiom. Every
// later line is a rule; flags are '%' (even depths only) and '^' (odd depths
// only). Lines that do not have the rule shape are skipped. A source without
// an axiom fails with ErrNoAxiom.
func Parse(r io.Reader) (*Grammar, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	b := NewGrammarBuilder()
	haveAxiom := false
	for sc.Scan() {
		line := trimLeft(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if !haveAxiom {
			b.SetAxiom(strings.TrimSpace(line))
			haveAxiom = true
			continue
		}
		if r, ok := parseRule(line); ok {
			b.AddRule(r.Trigger, r.Substitution, r.Flags, r.Lifetime)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return b.Build()
}

// ParseString parses a grammar held in memory.
func ParseString(src string) (*Grammar, error) {
	return Parse(strings.NewReader(src))
}

// LoadFile parses the grammar file at path.
func LoadFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// parseRule parses one non-comment line after the axiom.
func parseRule(line string) (Rule, bool) {
	var r Rule
	r.Lifetime, line = parseLifetime(line)
	line = trimLeft(line)

	for {
		if line == "" {
			return Rule{}, false
		}
		c := line[0]
		line = trimLeft(line[1:])
		if c == '%' {
			r.Flags |= EvenOnly
			continue
		}
		if c == '^' {
			r.Flags |= OddOnly
			continue
		}
		r.Trigger = c
		break
	}

	if line == "" || line[0] != '=' {
		return Rule{}, false
	}
	r.Substitution = strings.TrimSpace(line[1:])
	return r, true
}

// parseLifetime reads an optional leading signed integer. A sign with no
// digits after it is not a number and is left in place, so '+' and '-' can
// still be used as triggers.
func parseLifetime(s string) (int, string) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, s
	}
	n, err := strconv.ParseInt(s[:i], 10, 0)
	if err != nil {
		// Only a range error is possible here; clamp like strtol.
		if s[0] == '-' {
			n = math.MinInt
		} else {
			n = math.MaxInt
		}
	}
	return int(n), s[i:]
}

func trimLeft(s string) string {
	return strings.TrimLeft(s, " \t")
}
