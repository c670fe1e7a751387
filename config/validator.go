package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/models"
)

// ValidationRule represents a single custom validation rule
type ValidationRule struct {
	Field   string
	Check   func(cfg *Config) error
	Message string
}

// StandardValidator provides standard configuration validation
type StandardValidator struct {
	rules []ValidationRule
}

// NewStandardValidator creates a new standard validator
func NewStandardValidator() *StandardValidator {
	return &StandardValidator{
		rules: make([]ValidationRule, 0),
	}
}

// AddRule adds a custom validation rule
func (v *StandardValidator) AddRule(rule ValidationRule) {
	v.rules = append(v.rules, rule)
}

// Validate validates the entire configuration.
// All problems are reported together, wrapped in errors.ErrInvalidConfig.
func (v *StandardValidator) Validate(cfg *Config) error {
	var problems []string

	if err := v.validateApp(&cfg.App); err != nil {
		problems = append(problems, fmt.Sprintf("app: %v", err))
	}

	if err := v.validateData(&cfg.Data); err != nil {
		problems = append(problems, fmt.Sprintf("data: %v", err))
	}

	if err := v.validateReport(&cfg.Report); err != nil {
		problems = append(problems, fmt.Sprintf("report: %v", err))
	}

	if err := v.validateWatch(&cfg.Watch); err != nil {
		problems = append(problems, fmt.Sprintf("watch: %v", err))
	}

	for _, rule := range v.rules {
		if err := rule.Check(cfg); err != nil {
			msg := rule.Message
			if msg == "" {
				msg = err.Error()
			}
			problems = append(problems, fmt.Sprintf("%s: %s", rule.Field, msg))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errors.ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// Validate checks cfg with the standard rules
func Validate(cfg *Config) error {
	return NewStandardValidator().Validate(cfg)
}

// validateApp validates application configuration
func (v *StandardValidator) validateApp(app *AppConfig) error {
	var problems []string

	if err := ValidateLogLevel(app.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("log_level: %v", err))
	}

	// Validate log file path if specified
	if app.LogFile != "" {
		dir := filepath.Dir(os.ExpandEnv(app.LogFile))
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("log_file: directory does not exist: %s", dir))
			}
		}
	}

	return joinProblems(problems)
}

// validateData validates data configuration.
// The root is not checked for existence here; a missing root is reported at load time.
func (v *StandardValidator) validateData(data *DataConfig) error {
	var problems []string

	if strings.TrimSpace(data.Root) == "" {
		problems = append(problems, "root: must not be empty")
	}

	if !strings.HasPrefix(data.Extension, ".") || len(data.Extension) < 2 {
		problems = append(problems, fmt.Sprintf("extension: must look like .jsonl, got %q", data.Extension))
	}

	if data.Workers <= 0 {
		problems = append(problems, "workers: must be positive")
	}
	if data.Workers > 256 {
		problems = append(problems, "workers: must not exceed 256")
	}

	return joinProblems(problems)
}

// validateReport validates reporting configuration
func (v *StandardValidator) validateReport(report *ReportConfig) error {
	var problems []string

	if _, err := models.ParseTimeRange(report.Range); err != nil {
		problems = append(problems, fmt.Sprintf("range: %v", err))
	}

	if err := ValidateOutput(report.Output); err != nil {
		problems = append(problems, fmt.Sprintf("output: %v", err))
	}

	if report.Limit < 0 {
		problems = append(problems, "limit: must not be negative")
	}

	if report.Timezone != "" {
		if _, err := time.LoadLocation(report.Timezone); err != nil {
			problems = append(problems, fmt.Sprintf("timezone: invalid timezone: %s", report.Timezone))
		}
	}

	return joinProblems(problems)
}

// validateWatch validates watch-mode configuration
func (v *StandardValidator) validateWatch(watch *WatchConfig) error {
	if watch.Debounce < models.MinDebounce {
		return fmt.Errorf("debounce: must be at least %v", models.MinDebounce)
	}
	if watch.Debounce > time.Minute {
		return fmt.Errorf("debounce: must not exceed 1m")
	}
	return nil
}

func joinProblems(problems []string) error {
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Built-in validation functions

// ValidateLogLevel validates log level
func ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "warning", "error"}

	if !lo.Contains(validLevels, strings.ToLower(level)) {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", level)
	}
	return nil
}

// ValidateOutput validates the report output format
func ValidateOutput(output string) error {
	if !lo.Contains(OutputFormats(), strings.ToLower(output)) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", output, strings.Join(OutputFormats(), ", "))
	}
	return nil
}
