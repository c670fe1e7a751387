package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/claudestat/errors"
)

func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"ERROR", false},
		{"trace", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := ValidateLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutput(t *testing.T) {
	for _, format := range OutputFormats() {
		assert.NoError(t, ValidateOutput(format), format)
	}
	assert.Error(t, ValidateOutput("xml"))
	assert.Error(t, ValidateOutput(""))
}

func TestStandardValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown range",
			mutate:  func(cfg *Config) { cfg.Report.Range = "90d" },
			wantErr: "report: range",
		},
		{
			name:    "unknown output",
			mutate:  func(cfg *Config) { cfg.Report.Output = "xml" },
			wantErr: "report: output",
		},
		{
			name:    "negative limit",
			mutate:  func(cfg *Config) { cfg.Report.Limit = -1 },
			wantErr: "limit: must not be negative",
		},
		{
			name:    "bad timezone",
			mutate:  func(cfg *Config) { cfg.Report.Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "zero workers",
			mutate:  func(cfg *Config) { cfg.Data.Workers = 0 },
			wantErr: "workers: must be positive",
		},
		{
			name:    "extension without dot",
			mutate:  func(cfg *Config) { cfg.Data.Extension = "jsonl" },
			wantErr: "extension",
		},
		{
			name:    "empty root",
			mutate:  func(cfg *Config) { cfg.Data.Root = " " },
			wantErr: "root: must not be empty",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *Config) { cfg.App.LogLevel = "loud" },
			wantErr: "log_level",
		},
		{
			name:    "log file in missing directory",
			mutate:  func(cfg *Config) { cfg.App.LogFile = filepath.Join("/nonexistent-dir-xyz", "a.log") },
			wantErr: "log_file",
		},
		{
			name:    "debounce too small",
			mutate:  func(cfg *Config) { cfg.Watch.Debounce = time.Millisecond },
			wantErr: "debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := NewStandardValidator().Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestStandardValidator_CollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Report.Range = "bogus"
	cfg.Data.Workers = -2

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data: workers")
	assert.Contains(t, err.Error(), "report: range")
}

func TestStandardValidator_CustomRule(t *testing.T) {
	v := NewStandardValidator()
	v.AddRule(ValidationRule{
		Field:   "report.limit",
		Check:   func(cfg *Config) error { return errors.New("too big") },
		Message: "limit out of range",
	})

	err := v.Validate(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.limit: limit out of range")
}
