package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx"
)

var (
	expandColor  bool
	expandDigest bool
)

var expandCmd = &cobra.Command{
	Use:   "expand FILE",
	Short: "Print the expanded symbol string",
	Long: `Expands the grammar to --depth and writes the symbols to stdout.

With --digest only the BLAKE3 digest and length are printed. With --color
leaves, stems, turns and brackets are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().BoolVar(&expandColor, "color", false, "Highlight symbol classes")
	expandCmd.Flags().BoolVar(&expandDigest, "digest", false, "Print digest and length only")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if expandDigest {
		symbols := g.Expand(cfg.Depth)
		_, err := fmt.Fprintf(out, "%s %d\n", lsystemx.Digest(symbols), len(symbols))
		return err
	}
	if expandColor {
		return writeColored(out, g.Expand(cfg.Depth))
	}

	n, err := g.ExpandTo(out, cfg.Depth)
	if err != nil {
		return fmt.Errorf("write expansion: %w", err)
	}
	logger.Debug("expanded", zap.Int("depth", cfg.Depth), zap.Int64("length", n))
	_, err = fmt.Fprintln(out)
	return err
}

var (
	leafColor    = color.New(color.FgGreen)
	stemColor    = color.New(color.FgYellow)
	turnColor    = color.New(color.FgCyan)
	bracketColor = color.New(color.FgWhite, color.Bold)
	scaleColor   = color.New(color.FgMagenta)
)

func symbolColor(c byte) *color.Color {
	switch c {
	case lsystemx.SymLeaf:
		return leafColor
	case lsystemx.SymStem:
		return stemColor
	case lsystemx.SymTurnLeft, lsystemx.SymTurnRight:
		return turnColor
	case lsystemx.SymPush, lsystemx.SymPop:
		return bracketColor
	case lsystemx.SymShrink, lsystemx.SymGrow, lsystemx.SymShrinkX,
		lsystemx.SymGrowX, lsystemx.SymShrinkY, lsystemx.SymGrowY:
		return scaleColor
	}
	return nil
}

// writeColored writes symbols with runs of the same class sharing one escape
// sequence.
func writeColored(w io.Writer, symbols string) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(symbols); {
		c := symbolColor(symbols[i])
		j := i + 1
		for j < len(symbols) && symbolColor(symbols[j]) == c {
			j++
		}
		if c == nil {
			bw.WriteString(symbols[i:j])
		} else {
			c.Fprint(bw, symbols[i:j])
		}
		i = j
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
