package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/innerfix/config"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	input      string
	output     string
	reportPath string
	logLevel   string
	logFormat  string
	workers    int
)

var rootCmd = &cobra.Command{
	Use:   "innerfix",
	Short: "Restore InnerClasses attributes stripped from compiled Java classes",
	Long: `innerfix rebuilds the InnerClasses attribute of class files whose nesting metadata
was removed by an obfuscator or minifier. Nesting is recovered from binary names
(Outer$Inner, Outer$1Local, Outer$1) and the synthetic this$0 field.

Run it after any renaming step, it relies on final class names.

Known limitations:
  - private and protected modifiers of nested types are never recovered
  - a declared field named this$0 makes a static nested type look non-static
  - renamed types whose names resemble Outer$1 are classified as local or anonymous`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "innerfix.yaml",
		"Path to configuration file (defaults are used when missing)")
	rootCmd.PersistentFlags().StringVarP(&input, "input", "i", "",
		"Override input (class directory or jar)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "",
		"Override output (class directory or jar)")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "",
		"Override report location (YAML, '-' for stdout)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override number of units processed concurrently")
}

// loadConfig loads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(input, output, reportPath, logLevel, logFormat, workers)
	return cfg, nil
}

// setup loads configuration, validates it with validate and creates the logger
func setup(validate func(*config.Config) error) (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err = validate(cfg); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// newBuilder creates the record builder for the configured naming conventions
func newBuilder(cfg *config.Config) *innerclass.Builder {
	return innerclass.NewBuilder(
		innerclass.WithSeparator(cfg.Heuristics.SeparatorRune()),
		innerclass.WithOuterField(cfg.Heuristics.OuterField),
	)
}
