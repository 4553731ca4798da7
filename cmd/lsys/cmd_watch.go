package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/internal/production"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-render an SVG whenever the grammar file is saved",
	Long: `Renders FILE to --output once, then again after every save until
interrupted. Load or render errors are logged and the previous SVG is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "SVG output file (required)")
	watchCmd.MarkFlagRequired("output")
}

// rerender loads and renders path to out, logging rather than returning
// failures so the watch loop keeps going.
func rerender(ctx context.Context, path, out string, cfg primitives.RenderConfig) bool {
	g, err := loadGrammar(path)
	if err != nil {
		logger.Warn("load failed", zap.String("file", path), zap.Error(err))
		return false
	}
	res, err := renderTo(ctx, out, nil, g, cfg)
	if err != nil {
		logger.Warn("render failed", zap.String("file", path), zap.Error(err))
		return false
	}
	logger.Info("rendered",
		zap.String("output", out),
		zap.Int("length", res.Length),
		zap.String("digest", res.Digest))
	return true
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchOutput == "" || watchOutput == "-" {
		return errors.New("watch needs a file for --output")
	}
	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rerender(ctx, path, watchOutput, cfg)

	w, err := production.NewWatcher([]string{path}, func(ctx context.Context, ev production.ChangeEvent) {
		rerender(ctx, path, watchOutput, cfg)
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching", zap.String("file", path), zap.String("output", watchOutput))
	<-ctx.Done()
	return nil
}
