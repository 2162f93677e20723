// Package config - Configuration validation
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sonemaro/ormf/internal/catalog"
	"github.com/sonemaro/ormf/internal/filter"
	"github.com/sonemaro/ormf/internal/format"
	"github.com/sonemaro/ormf/internal/logging"
	"github.com/sonemaro/ormf/internal/openrouter"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s\n  Hint: %s", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a formatted string of all errors and warnings
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w.Error()))
		}
	}

	return sb.String()
}

// Validate validates the configuration and returns all errors and warnings
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateProvider(cfg, result)
	validateFilter(cfg, result)
	validateLog(cfg, result)

	return result
}

func validateProvider(cfg *Config, result *ValidationResult) {
	normalized, err := openrouter.NormalizeURL(cfg.Provider.Endpoint, cfg.Provider.ModelURL)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.endpoint",
			Message: fmt.Sprintf("invalid endpoint URL: %s", cfg.Provider.Endpoint),
			Hint:    "Endpoint should be an https URL like " + openrouter.DefaultEndpoint,
		})
	} else if _, err := url.ParseRequestURI(normalized); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.model_url",
			Message: fmt.Sprintf("request URL %s is not valid: %v", normalized, err),
		})
	}

	if cfg.Provider.Timeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.timeout",
			Message: "timeout cannot be negative",
		})
	} else if cfg.Provider.Timeout == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "provider.timeout",
			Message: "no timeout set, the request may wait indefinitely",
			Hint:    "Set provider.timeout to a duration such as 30s",
		})
	}
}

func validateFilter(cfg *Config, result *ValidationResult) {
	if err := catalog.ValidateLimit(cfg.Filter.N); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "filter.n",
			Message: err.Error(),
			Hint:    "Use -1 to return every model",
		})
	}

	if _, err := format.Parse(cfg.Filter.ReturnFormat); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "filter.return_format",
			Message: err.Error(),
		})
	}

	if _, err := filter.Compile(cfg.Filter.KeepRegexes, ""); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "filter.keep_regexes",
			Message: err.Error(),
			Hint:    "Patterns use RE2 syntax; lookarounds and backreferences are not supported",
		})
	} else if cfg.Filter.KeepRegexes == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "filter.keep_regexes",
			Message: "empty keep pattern matches every model",
		})
	}

	if _, err := filter.Compile("", cfg.Filter.RemoveRegexes); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "filter.remove_regexes",
			Message: err.Error(),
			Hint:    "Patterns use RE2 syntax; lookarounds and backreferences are not supported",
		})
	}
}

func validateLog(cfg *Config, result *ValidationResult) {
	if !logging.ValidLevel(cfg.Log.Level) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level '%s', using '%s'", cfg.Log.Level, logging.DefaultLevel),
			Hint:    "Valid levels: trace, debug, info, warn, error",
		})
	}
}
