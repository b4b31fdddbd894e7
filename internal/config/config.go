// =============================================================================
// GRN Comparison Tool - Configuration Module
// =============================================================================
//
// This module loads the application configuration from an optional YAML file.
// Every setting has a default matching the standard GRN register export, so
// the tool runs without any configuration file at all.
//
// CONFIGURATION SECTIONS:
//   1. comparison : key/amount columns and the export preamble size
//   2. server     : interactive shell (HTTP) settings
//   3. output     : where the CLI writes report files
//   4. logging    : log level and format
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultKeyColumn is the column identifying a GRN in the register export.
	DefaultKeyColumn = "Invoice No"

	// DefaultAmountColumn is the column holding the GRN amount.
	DefaultAmountColumn = "total"

	// DefaultHeaderRows is the size of the export preamble above the header row.
	DefaultHeaderRows = 5

	// DefaultStatusColumn is the column appended by the status report.
	DefaultStatusColumn = "GRN Status"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Comparison ComparisonConfig `yaml:"comparison"`
	Server     ServerConfig     `yaml:"server"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ComparisonConfig describes the layout of the two input reports.
type ComparisonConfig struct {
	// KeyColumn is the column whose trimmed text identifies a record.
	// Default: "Invoice No"
	KeyColumn string `yaml:"key_column"`

	// AmountColumn is the column compared by the amount difference report.
	// Default: "total"
	AmountColumn string `yaml:"amount_column"`

	// HeaderRows is the number of preamble rows above the column header row.
	// Default: 5
	HeaderRows *int `yaml:"header_rows"`

	// StatusColumn is the name of the Old/New column added by the status report.
	// Default: "GRN Status"
	StatusColumn string `yaml:"status_column"`
}

// SkipRows returns the configured preamble size.
func (c ComparisonConfig) SkipRows() int {
	if c.HeaderRows == nil {
		return DefaultHeaderRows
	}
	return *c.HeaderRows
}

// ServerConfig holds the interactive shell settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadBytes caps the size of one request carrying both uploads.
	// Default: 32 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// PreviewRows caps the rows rendered in the inline preview.
	// The download always carries every row. Default: 500
	PreviewRows int `yaml:"preview_rows"`

	// RequestTimeout bounds one action. Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	// Dir is where report files are written. Default: "./output"
	Dir string `yaml:"dir"`

	// DatedSubdirs writes into Dir/YYYY/MM/DD. Default: false
	DatedSubdirs bool `yaml:"dated_subdirs"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: "info"
	Level string `yaml:"level"`

	// Format is "text" or "json". Default: "text"
	Format string `yaml:"format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct, defaults applied.
//   - An error if the file cannot be read, parsed, or fails validation.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes a YAML document into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Comparison.KeyColumn == "" {
		cfg.Comparison.KeyColumn = DefaultKeyColumn
	}
	if cfg.Comparison.AmountColumn == "" {
		cfg.Comparison.AmountColumn = DefaultAmountColumn
	}
	if cfg.Comparison.HeaderRows == nil {
		n := DefaultHeaderRows
		cfg.Comparison.HeaderRows = &n
	}
	if cfg.Comparison.StatusColumn == "" {
		cfg.Comparison.StatusColumn = DefaultStatusColumn
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 32 << 20
	}
	if cfg.Server.PreviewRows == 0 {
		cfg.Server.PreviewRows = 500
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// validate checks the configuration after defaults are applied.
func validate(cfg *Config) error {
	c := cfg.Comparison
	if c.SkipRows() < 0 {
		return fmt.Errorf("comparison.header_rows must not be negative, got %d", c.SkipRows())
	}
	if c.KeyColumn == c.AmountColumn {
		return fmt.Errorf("comparison.key_column and comparison.amount_column must differ (both %q)", c.KeyColumn)
	}
	if c.StatusColumn == c.KeyColumn {
		return fmt.Errorf("comparison.status_column must not replace the key column %q", c.KeyColumn)
	}

	if cfg.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if cfg.Server.PreviewRows < 0 {
		return fmt.Errorf("server.preview_rows must not be negative")
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}

	return nil
}
