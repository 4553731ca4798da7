package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/core"
	"github.com/comalice/lsystemx/internal/extensibility"
	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/internal/production"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Draw the grammar as an SVG forest",
	Long: `Expands the grammar to --depth and draws --trees copies of it side by
side. The SVG goes to --output, or stdout when it is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "-", "SVG output file")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	res, err := renderTo(cmd.Context(), renderOutput, cmd.OutOrStdout(), g, cfg)
	if err != nil {
		return err
	}
	logger.Info("rendered",
		zap.String("output", renderOutput),
		zap.Int("depth", res.Depth),
		zap.Int("trees", res.Trees),
		zap.Int("length", res.Length),
		zap.Int("ops", res.Ops),
		zap.Duration("elapsed", res.Elapsed))
	return nil
}

// renderTo renders g to path, or to stdout when path is "-". The file is
// only replaced once rendering has succeeded.
func renderTo(ctx context.Context, path string, stdout io.Writer, g *lsystemx.Grammar, cfg primitives.RenderConfig) (core.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := core.NewRenderer(core.WithConfig(cfg), core.WithLogger(logger))
	if err != nil {
		return core.Result{}, err
	}

	if path == "-" {
		return renderSVG(ctx, r, g, cfg, stdout)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lsys-*.svg")
	if err != nil {
		return core.Result{}, err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	res, err := renderSVG(ctx, r, g, cfg, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return res, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return res, fmt.Errorf("replace %s: %w", path, err)
	}
	return res, nil
}

func renderSVG(ctx context.Context, r *core.Renderer, g *lsystemx.Grammar, cfg primitives.RenderConfig, w io.Writer) (core.Result, error) {
	svg := production.NewSVGSurface(w, cfg.Width, cfg.Height, cfg.BackgroundColor())
	var s lsystemx.Surface = svg
	var counter extensibility.CountingSurface
	if verbose {
		s = extensibility.MultiSurface{extensibility.NewLoggingSurface(svg, logger), &counter}
	}
	res, err := r.Render(ctx, g, cfg.Depth, cfg.Trees, s)
	svg.Close()
	if verbose {
		logger.Debug("draw calls",
			zap.Int("total", counter.Total()),
			zap.Int("rectangles", counter.Counts[lsystemx.OpFillRectangle]),
			zap.Int("polygons", counter.Counts[lsystemx.OpFillPolygon]))
	}
	return res, err
}
