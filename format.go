package lsystemx

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Format writes g in the text format accepted by Parse.
//
// Some grammars built in code cannot be written back: an axiom starting with
// '#', a trigger that is whitespace, '%' or '^', and an axiom or substitution
// holding a line break or surrounding whitespace. Those return an error and
// nothing is written.
func (g *Grammar) Format(w io.Writer) error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, g.axiom)
	for _, r := range g.rules {
		lifetime := r.Lifetime != 0
		// A digit or '#' at the start of the line would read back as a
		// lifetime or a comment.
		if r.Flags == 0 && (r.Trigger == '#' || (r.Trigger >= '0' && r.Trigger <= '9')) {
			lifetime = true
		}
		if lifetime {
			fmt.Fprintf(bw, "%d ", r.Lifetime)
		}
		fmt.Fprintf(bw, "%s%c = %s\n", r.Flags, r.Trigger, r.Substitution)
	}
	return bw.Flush()
}

// checkWritable reports the first part of g that Parse would read back
// differently.
func (g *Grammar) checkWritable() error {
	if strings.HasPrefix(g.axiom, "#") {
		return fmt.Errorf("axiom %q would read back as a comment", g.axiom)
	}
	if err := checkLine(g.axiom); err != nil {
		return fmt.Errorf("axiom: %w", err)
	}
	for i, r := range g.rules {
		switch r.Trigger {
		case ' ', '\t', '\n', '\r', '\v', '\f', '%', '^':
			return fmt.Errorf("rule %d: trigger %q cannot be written in text format", i, r.Trigger)
		}
		if err := checkLine(r.Substitution); err != nil {
			return fmt.Errorf("rule %d: substitution: %w", i, err)
		}
	}
	return nil
}

// checkLine rejects text that would not survive one trimmed line.
func checkLine(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("%q contains a line break", s)
	}
	if strings.TrimSpace(s) != s {
		return fmt.Errorf("%q has leading or trailing whitespace", s)
	}
	return nil
}

// String returns the text format of g. Grammars that Format rejects are
// rendered on a best-effort basis.
func (g *Grammar) String() string {
	var sb strings.Builder
	if err := g.Format(&sb); err != nil {
		sb.Reset()
		sb.WriteString(g.axiom)
		for _, r := range g.rules {
			sb.WriteByte('\n')
			sb.WriteString(r.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
