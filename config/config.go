// Package config provides configuration structures and loading for innerfix.
package config

// Config represents the complete application configuration.
type Config struct {
	Input      string           `yaml:"input" mapstructure:"input"`   // directory URL or .jar
	Output     string           `yaml:"output" mapstructure:"output"` // directory URL or .jar
	Report     string           `yaml:"report" mapstructure:"report"` // optional YAML report path
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Heuristics HeuristicsConfig `yaml:"heuristics" mapstructure:"heuristics"`
	Audit      AuditConfig      `yaml:"audit" mapstructure:"audit"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ProcessingConfig represents worker settings.
type ProcessingConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"` // decoded classes kept between phases
}

// HeuristicsConfig represents the naming conventions used to recover nesting.
type HeuristicsConfig struct {
	Separator  string `yaml:"separator" mapstructure:"separator"`
	OuterField string `yaml:"outer_field" mapstructure:"outer_field"`
}

// AuditConfig represents settings of the audit command.
type AuditConfig struct {
	Sources string `yaml:"sources" mapstructure:"sources"` // Java source folder or Maven/Gradle project root
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Processing: ProcessingConfig{
			Workers:   4,
			CacheSize: 1024,
		},
		Heuristics: HeuristicsConfig{
			Separator:  "$",
			OuterField: "this$0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// SeparatorRune returns the configured nesting separator.
func (h HeuristicsConfig) SeparatorRune() rune {
	for _, r := range h.Separator {
		return r
	}
	return '$'
}

// ApplyOverrides applies CLI flag overrides. Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(input, output, report, logLevel, logFormat string, workers int) {
	if input != "" {
		c.Input = input
	}
	if output != "" {
		c.Output = output
	}
	if report != "" {
		c.Report = report
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if workers > 0 {
		c.Processing.Workers = workers
	}
}
