package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRNCOMPARE_"

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name  string
	apply func(cfg *Config, value string) error
}

var envBindings = []envBinding{
	{"KEY_COLUMN", func(c *Config, v string) error { c.Comparison.KeyColumn = v; return nil }},
	{"AMOUNT_COLUMN", func(c *Config, v string) error { c.Comparison.AmountColumn = v; return nil }},
	{"STATUS_COLUMN", func(c *Config, v string) error { c.Comparison.StatusColumn = v; return nil }},
	{"HEADER_ROWS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Comparison.HeaderRows = &n
		return nil
	}},
	{"ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"MAX_UPLOAD_BYTES", func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Server.MaxUploadBytes = n
		return nil
	}},
	{"PREVIEW_ROWS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Server.PreviewRows = n
		return nil
	}},
	{"REQUEST_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Server.RequestTimeout = d
		return nil
	}},
	{"OUTPUT_DIR", func(c *Config, v string) error { c.Output.Dir = v; return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Logging.Format = v; return nil }},
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any GRNCOMPARE_* variables that are set and
// validates the result.
func ApplyEnv(cfg *Config) error {
	for _, b := range envBindings {
		name := EnvPrefix + b.name
		value, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := b.apply(cfg, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if err := validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
