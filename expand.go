package lsystemx

import (
	"bufio"
	"io"
	"strings"

	"github.com/edwingeng/deque"
)

// frame is a partially consumed symbol sequence at one expansion depth.
type frame struct {
	input string
	pos   int
	depth int
}

// Expand rewrites the axiom to maxDepth and returns the terminal string.
//
// Expansion is depth-first and left-to-right: a symbol with a live rule is
// replaced by the expansion of that rule's substitution one level deeper,
// anything else is emitted as is. At maxDepth every symbol is emitted as is,
// so Expand(0) returns the axiom. The output grows exponentially with
// maxDepth; bounding it is the caller's job.
func (g *Grammar) Expand(maxDepth int) string {
	var sb strings.Builder
	g.expand(maxDepth, func(s byte) { sb.WriteByte(s) })
	return sb.String()
}

// ExpandTo streams the expansion to w and returns the number of symbols written.
func (g *Grammar) ExpandTo(w io.Writer, maxDepth int) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	var werr error
	g.expand(maxDepth, func(s byte) {
		if werr != nil {
			return
		}
		if werr = bw.WriteByte(s); werr == nil {
			n++
		}
	})
	if werr != nil {
		return n, werr
	}
	return n, bw.Flush()
}

// expand walks an explicit stack of frames instead of recursing, so deep
// grammars do not grow the goroutine stack. Emission order matches the
// recursive definition.
func (g *Grammar) expand(maxDepth int, emit func(byte)) {
	pending := deque.NewDeque()
	pending.PushBack(&frame{input: g.axiom})
	for !pending.Empty() {
		f := pending.PopBack().(*frame)
		if f.pos == len(f.input) {
			continue
		}
		s := f.input[f.pos]
		f.pos++
		pending.PushBack(f)

		if f.depth < maxDepth {
			if r, ok := g.match(s, f.depth, maxDepth); ok {
				pending.PushBack(&frame{input: r.Substitution, depth: f.depth + 1})
				continue
			}
		}
		emit(s)
	}
}
