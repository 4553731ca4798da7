package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/primitives"
)

// Result describes one render.
type Result struct {
	Depth   int
	Trees   int
	Length  int
	Digest  string
	Ops     int
	Stats   lsystemx.Stats // summed over trees; MaxStack is the maximum
	Elapsed time.Duration
}

// Renderer draws forests of one grammar. It is safe for concurrent use.
type Renderer struct {
	config  primitives.RenderConfig
	logger  *zap.Logger
	workers int
}

// NewRenderer creates a Renderer with default settings.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		config: primitives.DefaultRenderConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return r, nil
}

// Config returns the effective settings.
func (r *Renderer) Config() primitives.RenderConfig {
	return r.config
}

// Render expands g to depth and draws trees copies of it onto s. Depth is
// and trees are checked against the configured limits before anything is
// expanded.
func (r *Renderer) Render(ctx context.Context, g *lsystemx.Grammar, depth, trees int, s lsystemx.Surface) (Result, error) {
	if err := r.config.CheckDepth(depth); err != nil {
		return Result{}, err
	}
	if err := r.config.CheckTrees(trees); err != nil {
		return Result{}, err
	}
	start := time.Now()
	symbols := g.Expand(depth)
	r.logger.Debug("expanded",
		zap.Int("depth", depth),
		zap.Int("length", len(symbols)),
		zap.Duration("elapsed", time.Since(start)))

	res, err := r.RenderSymbols(ctx, symbols, trees, s)
	res.Depth = depth
	res.Elapsed = time.Since(start)
	return res, err
}

// RenderSymbols draws trees copies of an already expanded string onto s.
// Trees is checked against the configured MaxTrees.
//
// Each tree is interpreted into its own display list, concurrently, and the
// lists are replayed onto s in tree order so the output does not depend on
// scheduling. If interpretation fails, trees before the failing one are
// replayed in full along with the failing tree's partial list.
func (r *Renderer) RenderSymbols(ctx context.Context, symbols string, trees int, s lsystemx.Surface) (Result, error) {
	if err := r.config.CheckTrees(trees); err != nil {
		return Result{}, err
	}
	res := Result{Trees: trees, Length: len(symbols), Digest: lsystemx.Digest(symbols)}
	origins := ForestOrigins(float64(r.config.Width), float64(r.config.Height), trees)
	turtle := r.config.Turtle()

	lists := make([]lsystemx.DisplayList, trees)
	stats := make([]lsystemx.Stats, trees)
	errs := make([]error, trees)

	var g errgroup.Group
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}
	for i := range origins {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			stats[i], errs[i] = turtle.Interpret(symbols, origins[i], &lists[i])
			return errs[i]
		})
	}
	waitErr := g.Wait()

	for i := range lists {
		lists[i].Replay(s)
		res.Ops += len(lists[i].Ops)
		res.Stats.Leaves += stats[i].Leaves
		res.Stats.Stems += stats[i].Stems
		res.Stats.Ignored += stats[i].Ignored
		res.Stats.MaxStack = max(res.Stats.MaxStack, stats[i].MaxStack)
		if errs[i] != nil {
			r.logger.Warn("render stopped", zap.Int("tree", i), zap.Error(errs[i]))
			return res, errs[i]
		}
	}
	if waitErr != nil {
		return res, waitErr
	}

	r.logger.Debug("rendered",
		zap.Int("trees", trees),
		zap.Int("ops", res.Ops),
		zap.String("digest", res.Digest))
	return res, nil
}
