package config

import (
	"runtime"
	"time"

	"github.com/penwyp/claudestat/models"
)

// Config represents the complete application configuration
type Config struct {
	// Application
	App AppConfig `yaml:"app" json:"app" mapstructure:"app"`

	// Data Sources
	Data DataConfig `yaml:"data" json:"data" mapstructure:"data"`

	// Reporting
	Report ReportConfig `yaml:"report" json:"report" mapstructure:"report"`

	// Watch mode
	Watch WatchConfig `yaml:"watch" json:"watch" mapstructure:"watch"`

	// Debug
	Debug DebugConfig `yaml:"debug" json:"debug" mapstructure:"debug"`
}

// AppConfig contains general application settings
type AppConfig struct {
	Name     string `yaml:"name" json:"name" mapstructure:"name"`
	Version  string `yaml:"version" json:"version" mapstructure:"version"`
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file" mapstructure:"log_file"`
}

// DataConfig contains log discovery and loading settings
type DataConfig struct {
	Root      string `yaml:"root" json:"root" mapstructure:"root"`
	Extension string `yaml:"extension" json:"extension" mapstructure:"extension"`
	Workers   int    `yaml:"workers" json:"workers" mapstructure:"workers"`
}

// ReportConfig controls what the report command renders
type ReportConfig struct {
	Range    string `yaml:"range" json:"range" mapstructure:"range"`
	Output   string `yaml:"output" json:"output" mapstructure:"output"`
	Limit    int    `yaml:"limit" json:"limit" mapstructure:"limit"`
	Timezone string `yaml:"timezone" json:"timezone" mapstructure:"timezone"`
}

// WatchConfig contains watch-mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce" mapstructure:"debounce"`
}

// DebugConfig contains debugging settings
type DebugConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
}

// Output formats accepted by report.output
const (
	OutputTable   = "table"
	OutputJSON    = "json"
	OutputCSV     = "csv"
	OutputSummary = "summary"
)

// OutputFormats lists every valid report.output value
func OutputFormats() []string {
	return []string{OutputTable, OutputJSON, OutputCSV, OutputSummary}
}

// EnvPrefix is the prefix for environment overrides, e.g. CLAUDESTAT_DATA_ROOT
const EnvPrefix = "CLAUDESTAT"

// ConfigPaths returns the default configuration file paths, lowest precedence first
func ConfigPaths() []string {
	return []string{
		"$HOME/.claudestat.yaml",
		"./claudestat.yaml",
		"$HOME/.config/claudestat/config.yaml",
	}
}

// Version will be set at build time
var Version = "dev"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "claudestat",
			Version:  Version,
			LogLevel: "info",
		},
		Data: DataConfig{
			Root:      models.DefaultDataDir,
			Extension: models.LogFileExtension,
			Workers:   runtime.NumCPU(),
		},
		Report: ReportConfig{
			Range:  models.Last30Days.String(),
			Output: OutputTable,
			Limit:  10,
		},
		Watch: WatchConfig{
			Debounce: models.DefaultDebounce,
		},
		Debug: DebugConfig{
			Enabled: false,
		},
	}
}

// TimeRange returns the parsed report range
func (c *Config) TimeRange() (models.TimeRange, error) {
	return models.ParseTimeRange(c.Report.Range)
}

// Location returns the configured report timezone, or nil when records stay in UTC
func (c *Config) Location() (*time.Location, error) {
	if c.Report.Timezone == "" {
		return nil, nil
	}
	return time.LoadLocation(c.Report.Timezone)
}
