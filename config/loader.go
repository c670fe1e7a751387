package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/penwyp/claudestat/logging"
)

// Source represents a configuration source
type Source interface {
	Name() string
	Load() (*Config, error)
	Priority() int
}

// Validator validates configuration
type Validator interface {
	Validate(cfg *Config) error
}

// Merger merges configurations from multiple sources
type Merger interface {
	Merge(base, override *Config) *Config
}

// Loader loads configuration from multiple sources
type Loader struct {
	sources    []Source
	validators []Validator
	merger     Merger
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		sources:    make([]Source, 0),
		validators: make([]Validator, 0),
		merger:     &DefaultMerger{},
	}
}

// AddSource adds a configuration source
func (l *Loader) AddSource(source Source) {
	l.sources = append(l.sources, source)
}

// AddValidator adds a configuration validator
func (l *Loader) AddValidator(validator Validator) {
	l.validators = append(l.validators, validator)
}

// SetMerger sets the configuration merger
func (l *Loader) SetMerger(merger Merger) {
	l.merger = merger
}

// LoadWithDefaults loads configuration with defaults as base.
// Sources are applied lowest priority first; a failing source is skipped.
func (l *Loader) LoadWithDefaults() (*Config, error) {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	config := DefaultConfig()
	for _, source := range l.sources {
		cfg, err := source.Load()
		if err != nil {
			logging.LogDebugf("config source %s skipped: %v", source.Name(), err)
			continue
		}

		config = l.merger.Merge(config, cfg)
	}

	for _, validator := range l.validators {
		if err := validator.Validate(config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return config, nil
}

// FileSource loads configuration from a file
type FileSource struct {
	path  string
	order int
}

// NewFileSource creates a new file configuration source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// newOrderedFileSource keeps the relative order of the default search paths
func newOrderedFileSource(path string, order int) *FileSource {
	return &FileSource{path: path, order: order}
}

// Name returns the source name
func (f *FileSource) Name() string {
	return fmt.Sprintf("file:%s", f.path)
}

// Priority returns the source priority (higher is applied later and wins)
func (f *FileSource) Priority() int {
	return 100 + f.order
}

// Load loads configuration from the file
func (f *FileSource) Load() (*Config, error) {
	expandedPath, err := ExpandHome(os.ExpandEnv(f.path))
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", expandedPath)
	}

	v := viper.New()
	v.SetConfigFile(expandedPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", expandedPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from %s: %w", expandedPath, err)
	}

	return &config, nil
}

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix string
}

// NewEnvSource creates a new environment variable configuration source
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix: prefix,
	}
}

// Name returns the source name
func (e *EnvSource) Name() string {
	return fmt.Sprintf("env:%s", e.prefix)
}

// Priority returns the source priority (higher is applied later and wins)
func (e *EnvSource) Priority() int {
	return 200
}

// Load loads configuration from environment variables
func (e *EnvSource) Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(e.prefix)
	v.AutomaticEnv()

	// Replace dots and dashes with underscores for env vars
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Unmarshal only sees keys viper knows about
	e.setAllKeys(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from environment: %w", err)
	}

	return &config, nil
}

// setAllKeys registers every configuration key with a zero default
func (e *EnvSource) setAllKeys(v *viper.Viper) {
	// App config
	v.SetDefault("app.log_level", "")
	v.SetDefault("app.log_file", "")

	// Data config
	v.SetDefault("data.root", "")
	v.SetDefault("data.extension", "")
	v.SetDefault("data.workers", 0)

	// Report config
	v.SetDefault("report.range", "")
	v.SetDefault("report.output", "")
	v.SetDefault("report.limit", 0)
	v.SetDefault("report.timezone", "")

	// Watch config
	v.SetDefault("watch.debounce", "0s")

	// Debug config
	v.SetDefault("debug.enabled", false)
}

// FlagSource loads configuration from command-line flags
type FlagSource struct {
	flags *pflag.FlagSet
}

// NewFlagSource creates a new flag configuration source
func NewFlagSource(flags *pflag.FlagSet) *FlagSource {
	return &FlagSource{
		flags: flags,
	}
}

// Name returns the source name
func (f *FlagSource) Name() string {
	return "flags"
}

// Priority returns the source priority (higher is applied later and wins)
func (f *FlagSource) Priority() int {
	return 300
}

// Load loads configuration from command-line flags that were set explicitly
func (f *FlagSource) Load() (*Config, error) {
	config := &Config{}
	var loadErr error

	f.flags.Visit(func(flag *pflag.Flag) {
		var err error
		switch flag.Name {
		case "debug":
			config.Debug.Enabled, err = f.flags.GetBool("debug")
		case "log-level":
			config.App.LogLevel, err = f.flags.GetString("log-level")
		case "log-file":
			config.App.LogFile, err = f.flags.GetString("log-file")
		case "data-dir":
			config.Data.Root, err = f.flags.GetString("data-dir")
		case "workers":
			config.Data.Workers, err = f.flags.GetInt("workers")
		case "range":
			config.Report.Range, err = f.flags.GetString("range")
		case "output":
			config.Report.Output, err = f.flags.GetString("output")
		case "limit":
			config.Report.Limit, err = f.flags.GetInt("limit")
		case "timezone":
			config.Report.Timezone, err = f.flags.GetString("timezone")
		case "debounce":
			config.Watch.Debounce, err = f.flags.GetDuration("debounce")
		}
		if err != nil && loadErr == nil {
			loadErr = fmt.Errorf("flag --%s: %w", flag.Name, err)
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return config, nil
}

// DefaultMerger is the default configuration merger
type DefaultMerger struct{}

// Merge merges two configurations, with non-zero override fields taking precedence
func (m *DefaultMerger) Merge(base, override *Config) *Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	// Merge App config
	if override.App.Name != "" {
		result.App.Name = override.App.Name
	}
	if override.App.Version != "" {
		result.App.Version = override.App.Version
	}
	if override.App.LogLevel != "" {
		result.App.LogLevel = override.App.LogLevel
	}
	if override.App.LogFile != "" {
		result.App.LogFile = override.App.LogFile
	}

	// Merge Data config
	if override.Data.Root != "" {
		result.Data.Root = override.Data.Root
	}
	if override.Data.Extension != "" {
		result.Data.Extension = override.Data.Extension
	}
	if override.Data.Workers != 0 {
		result.Data.Workers = override.Data.Workers
	}

	// Merge Report config
	if override.Report.Range != "" {
		result.Report.Range = override.Report.Range
	}
	if override.Report.Output != "" {
		result.Report.Output = override.Report.Output
	}
	if override.Report.Limit != 0 {
		result.Report.Limit = override.Report.Limit
	}
	if override.Report.Timezone != "" {
		result.Report.Timezone = override.Report.Timezone
	}

	// Merge Watch config
	if override.Watch.Debounce != 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}

	// A source can only switch debug on
	if override.Debug.Enabled {
		result.Debug.Enabled = true
	}

	return &result
}

// NewDefaultLoader wires the standard sources: config files, environment, then flags
func NewDefaultLoader(configFile string, flags *pflag.FlagSet) *Loader {
	loader := NewLoader()

	if configFile != "" {
		loader.AddSource(newOrderedFileSource(configFile, len(ConfigPaths())))
	} else {
		for i, path := range ConfigPaths() {
			loader.AddSource(newOrderedFileSource(path, i))
		}
	}

	loader.AddSource(NewEnvSource(EnvPrefix))

	if flags != nil {
		loader.AddSource(NewFlagSource(flags))
	}

	loader.AddValidator(NewStandardValidator())
	return loader
}
