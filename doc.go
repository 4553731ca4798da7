// Package lsystemx expands L-system grammars and draws them with a
// transform-stack turtle.
//
// # Grammars
//
// A Grammar is an axiom plus an ordered list of rules. Each rule has a
// single trigger symbol, a substitution, optional parity flags and a
// lifetime. Build one in code:
//
//	g, err := lsystemx.NewGrammarBuilder().
//		SetAxiom("X").
//		Rule('X', "T[+X][-X]sL").Lifetime(-1).
//		Rule('T', "TT").
//		Build()
//
// or parse the text format:
//
//	# fractal plant
//	X
//	-1 X = T[+X][-X]sL
//	T = TT
//	%L = [+L][-L]
//
// Expand(depth) rewrites the axiom depth-first: the first rule for a symbol
// that is alive at the current depth replaces it, otherwise the symbol is
// kept. Expansion is a pure function of the grammar and the depth.
//
// # Drawing
//
// A Turtle walks the expanded string. Its pose is a single affine.Matrix;
// '+', '-', scale symbols and stems compose new local transforms on the right
// so they act in the turtle's own frame, and '[' / ']' save and restore the
// whole matrix. Drawable symbols ('L' leaf, 'T' stem) are sent to a Surface
// in device coordinates.
//
//	var dl lsystemx.DisplayList
//	if err := lsystemx.Interpret(g.Expand(5), affine.Identity, &dl); err != nil {
//		// a ']' had no matching '['
//	}
//
// Every Interpret call owns its transform stack, so several trees can be
// interpreted concurrently from one shared Grammar as long as each writes to
// its own Surface.
package lsystemx
