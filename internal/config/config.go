package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// IndexConfig controls the index.md / index.html run index.
type IndexConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	DBPath  string `yaml:"db_path" toml:"db_path"`
}

// RendererConfig configures the external chart renderer.
type RendererConfig struct {
	// Command is the renderer argv. The section kind, report path and chart
	// path are appended. Empty disables chart rendering.
	Command []string `yaml:"command" toml:"command"`

	// Timeout bounds a single renderer invocation (0 = no limit).
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`

	// SchemaCheck verifies report.txt column headers before rendering.
	SchemaCheck bool `yaml:"schema_check" toml:"schema_check"`
}

// Config represents qcreport configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogDir is the directory where run logs are written. Empty disables
	// file logging.
	LogDir string `yaml:"log_dir" toml:"log_dir"`

	// MaxConcurrency bounds parallel section dispatch (0 = GOMAXPROCS)
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`

	// PrintSummary prints the Basic Statistics section after parsing
	PrintSummary bool `yaml:"print_summary" toml:"print_summary"`

	Index    IndexConfig    `yaml:"index" toml:"index"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
}

// DefaultConfig returns a Config with default values rooted at HomeDir.
func DefaultConfig() *Config {
	home := HomeDir()
	return &Config{
		LogLevel:       "info",
		LogDir:         filepath.Join(home, "logs"),
		MaxConcurrency: 0,
		PrintSummary:   true,
		Index:          IndexConfig{Enabled: true},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(home, "history.db"),
		},
		Renderer: RendererConfig{
			Timeout:     2 * time.Minute,
			SchemaCheck: true,
		},
	}
}

// fileConfig mirrors Config with pointer fields so keys absent from the
// file leave defaults untouched. Durations are strings ("90s", "2m").
type fileConfig struct {
	LogLevel       *string `yaml:"log_level" toml:"log_level"`
	LogDir         *string `yaml:"log_dir" toml:"log_dir"`
	MaxConcurrency *int    `yaml:"max_concurrency" toml:"max_concurrency"`
	PrintSummary   *bool   `yaml:"print_summary" toml:"print_summary"`
	Index          struct {
		Enabled *bool `yaml:"enabled" toml:"enabled"`
	} `yaml:"index" toml:"index"`
	History struct {
		Enabled *bool   `yaml:"enabled" toml:"enabled"`
		DBPath  *string `yaml:"db_path" toml:"db_path"`
	} `yaml:"history" toml:"history"`
	Renderer struct {
		Command     []string `yaml:"command" toml:"command"`
		Timeout     *string  `yaml:"timeout" toml:"timeout"`
		SchemaCheck *bool    `yaml:"schema_check" toml:"schema_check"`
	} `yaml:"renderer" toml:"renderer"`
}

// LoadConfig loads configuration from path. The format follows the file
// extension: .yaml/.yml or .toml.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := cfg.apply(&fc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply overlays every key present in fc.
func (c *Config) apply(fc *fileConfig) error {
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogDir != nil {
		c.LogDir = *fc.LogDir
	}
	if fc.MaxConcurrency != nil {
		c.MaxConcurrency = *fc.MaxConcurrency
	}
	if fc.PrintSummary != nil {
		c.PrintSummary = *fc.PrintSummary
	}
	if fc.Index.Enabled != nil {
		c.Index.Enabled = *fc.Index.Enabled
	}
	if fc.History.Enabled != nil {
		c.History.Enabled = *fc.History.Enabled
	}
	if fc.History.DBPath != nil {
		c.History.DBPath = *fc.History.DBPath
	}
	if fc.Renderer.Command != nil {
		c.Renderer.Command = fc.Renderer.Command
	}
	if fc.Renderer.Timeout != nil {
		timeout, err := time.ParseDuration(*fc.Renderer.Timeout)
		if err != nil {
			return fmt.Errorf("invalid renderer.timeout format %q: %w", *fc.Renderer.Timeout, err)
		}
		c.Renderer.Timeout = timeout
	}
	if fc.Renderer.SchemaCheck != nil {
		c.Renderer.SchemaCheck = *fc.Renderer.SchemaCheck
	}
	return nil
}

// LoadConfigFromDir loads .qcreport/config.yaml, falling back to
// .qcreport/config.toml, in dir. Missing files yield defaults.
func LoadConfigFromDir(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, ".qcreport", "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadConfig(yamlPath)
	}
	return LoadConfig(filepath.Join(dir, ".qcreport", "config.toml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, maxConcurrency *int, rendererTimeout *time.Duration, noIndex *bool, quiet *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if rendererTimeout != nil {
		c.Renderer.Timeout = *rendererTimeout
	}
	if noIndex != nil && *noIndex {
		c.Index.Enabled = false
	}
	if quiet != nil && *quiet {
		c.PrintSummary = false
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer.timeout must be >= 0, got %v", c.Renderer.Timeout)
	}
	if len(c.Renderer.Command) > 0 && strings.TrimSpace(c.Renderer.Command[0]) == "" {
		return fmt.Errorf("renderer.command must start with an executable")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
