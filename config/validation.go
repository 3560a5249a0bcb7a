package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	var errors ValidationErrors
	if c.Processing.Workers < 1 {
		errors = append(errors, ValidationError{Field: "processing.workers", Message: "must be at least 1"})
	}
	if c.Processing.CacheSize < 0 {
		errors = append(errors, ValidationError{Field: "processing.cache_size", Message: "must not be negative"})
	}
	if utf8.RuneCountInString(c.Heuristics.Separator) != 1 {
		errors = append(errors, ValidationError{Field: "heuristics.separator", Message: "must be a single character"})
	}
	if c.Heuristics.OuterField == "" {
		errors = append(errors, ValidationError{Field: "heuristics.outer_field", Message: "is required"})
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		errors = append(errors, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unsupported level %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "json", "text", "":
	default:
		errors = append(errors, ValidationError{Field: "logging.format", Message: fmt.Sprintf("unsupported format %q", c.Logging.Format)})
	}
	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateFix checks settings required to rewrite classes.
func (c *Config) ValidateFix() error {
	var errors ValidationErrors
	if err := c.Validate(); err != nil {
		errors = append(errors, err.(ValidationErrors)...)
	}
	if c.Input == "" {
		errors = append(errors, ValidationError{Field: "input", Message: "is required"})
	}
	if c.Output == "" {
		errors = append(errors, ValidationError{Field: "output", Message: "is required"})
	}
	if c.Input != "" && c.Input == c.Output {
		errors = append(errors, ValidationError{Field: "output", Message: "must differ from input"})
	}
	if len(errors) > 0 {
		return errors
	}
	return nil
}
