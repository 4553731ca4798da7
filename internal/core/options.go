// Package core renders grammars: it expands once, interprets the result for
// every tree of a forest in parallel and replays the drawing calls onto the
// caller's surface in tree order.
package core

import (
	"go.uber.org/zap"

	"github.com/comalice/lsystemx/internal/primitives"
)

// Option applies configuration to a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConfig sets canvas, forest and turtle settings. Zero fields take
// defaults.
func WithConfig(c primitives.RenderConfig) Option {
	return func(r *Renderer) {
		r.config = c.WithDefaults()
	}
}

// WithConcurrency bounds how many trees are interpreted at once. Values below
// one mean no bound.
func WithConcurrency(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}
