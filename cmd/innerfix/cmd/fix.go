package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/innerfix/config"
	"github.com/viant/innerfix/pipeline"
	"github.com/viant/innerfix/report"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Rewrite a program restoring missing InnerClasses attributes",
	Long: `Fix indexes every class of the input, reconstructs nesting records and writes
the program to the output. Only classes without any InnerClasses entry receive
reconstructed records; every other file is copied unchanged.

Example:
  innerfix fix --input app.jar --output app-fixed.jar --report report.yaml`,
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup((*config.Config).ValidateFix)
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
	runner := pipeline.NewRunner(source,
		pipeline.WithWorkers(cfg.Processing.Workers),
		pipeline.WithCacheSize(cfg.Processing.CacheSize),
		pipeline.WithLogger(log),
		pipeline.WithStages(pipeline.NewInnerClassStage(newBuilder(cfg))),
	)
	result, err := runner.Run(ctx, pipeline.NewSink(fs, cfg.Output))
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}
	if cfg.Report != "" {
		document := &report.Run{Input: cfg.Input, Output: cfg.Output, Result: result}
		if err = report.Write(ctx, fs, cfg.Report, cmd.OutOrStdout(), document); err != nil {
			return err
		}
	}
	cmd.Printf("%d files, %d classes, %d modified, %d skipped\n", result.Files, result.Classes, result.Modified, len(result.Skipped))
	return nil
}
