package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/innerfix/audit"
	"github.com/viant/innerfix/config"
	"github.com/viant/innerfix/inspector/java"
	"github.com/viant/innerfix/inspector/repository"
	"github.com/viant/innerfix/pipeline"
	"github.com/viant/innerfix/report"
)

var sources string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare reconstructed nesting with Java sources",
	Long: `Audit reconstructs nesting records for the input and compares them with the
nesting declared in Java sources. Sources may be a source folder or a Maven or
Gradle project root, whose main source folders are inspected. Findings show where the naming heuristics are
wrong for this program (e.g. deeper inner classes using this$1, user fields named
this$0, types missing from the compiled output). Findings are not errors.

Example:
  innerfix audit --input classes --sources src/main/java`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&sources, "sources", "", "Override Java source root")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(func(cfg *config.Config) error {
		if sources != "" {
			cfg.Audit.Sources = sources
		}
		if err := validateInput(cfg); err != nil {
			return err
		}
		if cfg.Audit.Sources == "" {
			return config.ValidationErrors{{Field: "audit.sources", Message: "is required"}}
		}
		return nil
	})
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
		return fmt.Errorf("audit failed: %w", err)
	}
	project, err := repository.New().DetectProject(cfg.Audit.Sources)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	log.Debugw("detected sources", "project", project.Name, "type", project.Type, "roots", project.SourceRoots)
	inspector := java.NewInspector(fs)
	var declarations []*java.Declaration
	for _, root := range project.SourceRoots {
		found, err := inspector.InspectPackages(ctx, root)
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}
		declarations = append(declarations, found...)
	}
	findings := audit.Compare(newBuilder(cfg).Build(types), declarations)
	log.Infow("audited program", "declared", len(declarations), "findings", len(findings))
	document := &report.Audit{Input: cfg.Input, Sources: cfg.Audit.Sources, Checked: len(declarations), Findings: findings}
	return report.Write(ctx, fs, cfg.Report, cmd.OutOrStdout(), document)
}
