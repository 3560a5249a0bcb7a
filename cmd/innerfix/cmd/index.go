package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/innerfix/config"
	"github.com/viant/innerfix/pipeline"
	"github.com/viant/innerfix/report"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the nesting records reconstructed for a program",
	Long: `Index reconstructs nesting records for every class of the input and prints them
grouped by enclosing type, without writing any class.

Example:
  innerfix index --input app.jar --report -`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func validateInput(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input == "" {
		return config.ValidationErrors{{Field: "input", Message: "is required"}}
	}
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(validateInput)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	fs := afs.New()
	source, err := pipeline.NewSource(ctx, fs, cfg.Input)
	if err != nil {
		return err
	}
	types, err := pipeline.NewRunner(source,
		pipeline.WithWorkers(cfg.Processing.Workers),
		pipeline.WithCacheSize(0),
		pipeline.WithLogger(log),
	).Index(ctx)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	return report.Write(ctx, fs, cfg.Report, cmd.OutOrStdout(), report.Index(newBuilder(cfg).Build(types)))
}
