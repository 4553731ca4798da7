package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx/internal/production"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert IN [OUT]",
	Short: "Convert a grammar between text, YAML and JSON",
	Long: `Reads IN and writes it to OUT, choosing both encodings by extension.
Without OUT the grammar is written to stdout in the --to encoding.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "yaml", "Encoding for stdout: text, yaml or json")
}

func runConvert(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		if err := production.SaveGrammar(args[1], g); err != nil {
			return err
		}
		logger.Info("converted", zap.String("from", args[0]), zap.String("to", args[1]))
		return nil
	}
	enc, err := production.ParseEncoding(convertTo)
	if err != nil {
		return err
	}
	return production.EncodeGrammar(cmd.OutOrStdout(), g, production.GrammarName(args[0]), enc)
}
