package main

import (
	"context"
	"errors"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx/internal/core"
	"github.com/comalice/lsystemx/internal/production"
	"github.com/comalice/lsystemx/internal/server"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve FILE...",
	Short: "Serve grammars as SVG over HTTP",
	Long: `Loads each FILE into a registry named after its base name and serves:

  /                               loaded grammars and versions
  /render?grammar=NAME&depth=N&trees=N
  /expand?grammar=NAME&depth=N
  /stats                          request counters

With --watch, files are reloaded when saved. A file that fails to load keeps
its previous version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload grammar files on change")
}

// loadRegistry loads every file into a fresh registry.
func loadRegistry(paths []string) (*core.Registry, error) {
	reg := core.NewRegistry()
	for _, p := range paths {
		g, err := loadGrammar(p)
		if err != nil {
			return nil, err
		}
		reg.Put(production.GrammarName(p), p, g)
	}
	return reg, nil
}

// reloader returns a ChangeFunc that republishes a changed file.
func reloader(reg *core.Registry) production.ChangeFunc {
	return func(ctx context.Context, ev production.ChangeEvent) {
		g, err := loadGrammar(ev.Path)
		if err != nil {
			logger.Warn("reload failed, keeping previous version", zap.String("file", ev.Path), zap.Error(err))
			return
		}
		v := reg.Put(production.GrammarName(ev.Path), ev.Path, g)
		logger.Info("reloaded", zap.String("file", ev.Path), zap.Int("version", v))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(args)
	if err != nil {
		return err
	}
	r, err := core.NewRenderer(
		core.WithConfig(cfg),
		core.WithLogger(logger),
		core.WithConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		w, err := production.NewWatcher(args, reloader(reg), logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	srv := server.New(reg, r, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(serveAddr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
