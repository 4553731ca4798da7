// Command lsys expands, renders and serves L-System grammars.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/internal/production"
)

var (
	verbose    bool
	configPath string
	depth      int
	trees      int
	width      int
	height     int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lsys",
	Short: "L-System grammar tool",
	Long: `lsys expands grammars with lifetime and parity rules and draws the
result as a forest of plants.

Grammar files use the text format unless their extension is .yaml, .yml
or .json. Render settings come from --config and may be overridden by flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "", "Render config YAML file")
	pf.IntVarP(&depth, "depth", "d", 0, "Expansion depth")
	pf.IntVarP(&trees, "trees", "n", primitives.DefaultTrees, "Number of trees")
	pf.IntVar(&width, "width", primitives.DefaultWidth, "Canvas width")
	pf.IntVar(&height, "height", primitives.DefaultHeight, "Canvas height")

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(animateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// renderConfig loads --config, if any, and applies explicitly set flags on
// top of it.
func renderConfig(cmd *cobra.Command) (primitives.RenderConfig, error) {
	cfg := primitives.DefaultRenderConfig()
	if configPath != "" {
		var err error
		if cfg, err = primitives.LoadRenderConfig(configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Depth = depth
	}
	if flags.Changed("trees") {
		cfg.Trees = trees
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadGrammar reads a grammar file and warns about rules that can never fire.
func loadGrammar(path string) (*lsystemx.Grammar, error) {
	g, err := production.LoadGrammar(path)
	if err != nil {
		return nil, err
	}
	for i, r := range g.Rules() {
		if r.Dead() {
			logger.Warn("rule can never fire: both parity flags set",
				zap.String("file", path),
				zap.Int("rule", i),
				zap.Stringer("text", r))
		}
	}
	logger.Debug("grammar loaded",
		zap.String("file", path),
		zap.String("axiom", g.Axiom()),
		zap.Int("rules", len(g.Rules())))
	return g, nil
}
