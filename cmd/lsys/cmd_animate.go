package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/realtime"
)

var (
	animateDir  string
	animateFrom int
	animateRate time.Duration
)

var animateCmd = &cobra.Command{
	Use:   "animate FILE",
	Short: "Write one SVG per depth to show the plant growing",
	Long: `Renders FILE at every depth from --from up to --depth, one frame per
tick, into --out-dir as frame-NNN.svg where NNN is the depth.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnimate,
}

func init() {
	f := animateCmd.Flags()
	f.StringVar(&animateDir, "out-dir", ".", "Directory for frame files")
	f.IntVar(&animateFrom, "from", 0, "First depth")
	f.DurationVar(&animateRate, "rate", 0, "Time between frames (0 renders as fast as possible)")
}

func frameName(dir string, depth int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%03d.svg", depth))
}

// animate renders g at depths from..cfg.Depth into dir.
func animate(ctx context.Context, g *lsystemx.Grammar, cfg primitives.RenderConfig, dir string, from int, rate time.Duration) (int, error) {
	if err := cfg.CheckDepth(from); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	frames := 0
	a, err := realtime.NewAnimator(realtime.Config{
		TickRate: max(rate, time.Millisecond),
		From:     from,
		To:       cfg.Depth,
	}, func(ctx context.Context, f realtime.Frame) error {
		fc := cfg
		fc.Depth = f.Depth
		path := frameName(dir, f.Depth)
		res, err := renderTo(ctx, path, nil, g, fc)
		if err != nil {
			return err
		}
		frames++
		logger.Debug("frame",
			zap.String("output", path),
			zap.Int("depth", f.Depth),
			zap.Int("length", res.Length))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if rate <= 0 {
		for {
			more, err := a.Tick(ctx)
			if err != nil || !more {
				return frames, err
			}
			if err := ctx.Err(); err != nil {
				return frames, err
			}
		}
	}
	if err := a.Start(ctx); err != nil {
		return 0, err
	}
	if err := a.Wait(); err != nil {
		return frames, err
	}
	if !a.Finished() {
		// The loop stopped on ctx before the last frame.
		return frames, ctx.Err()
	}
	return frames, nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := animate(ctx, g, cfg, animateDir, animateFrom, animateRate)
	if err != nil {
		return err
	}
	logger.Info("animated", zap.String("dir", animateDir), zap.Int("frames", n))
	return nil
}
