package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Invoice No", cfg.Comparison.KeyColumn)
	assert.Equal(t, "total", cfg.Comparison.AmountColumn)
	assert.Equal(t, 5, cfg.Comparison.SkipRows())
	assert.Equal(t, "GRN Status", cfg.Comparison.StatusColumn)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 500, cfg.Server.PreviewRows)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "./output", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
comparison:
  key_column: "GRN No"
  amount_column: "Net Amount"
  header_rows: 0
server:
  addr: "127.0.0.1:9090"
  request_timeout: 5s
output:
  dir: /tmp/reports
  dated_subdirs: true
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, "GRN No", cfg.Comparison.KeyColumn)
	assert.Equal(t, "Net Amount", cfg.Comparison.AmountColumn)
	assert.Equal(t, 0, cfg.Comparison.SkipRows(), "explicit zero is kept")
	assert.Equal(t, "GRN Status", cfg.Comparison.StatusColumn)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
	assert.True(t, cfg.Output.DatedSubdirs)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad yaml", yaml: "comparison: ["},
		{name: "negative header rows", yaml: "comparison:\n  header_rows: -1\n"},
		{name: "same key and amount", yaml: "comparison:\n  key_column: total\n"},
		{name: "status replaces key", yaml: "comparison:\n  status_column: Invoice No\n"},
		{name: "unknown log format", yaml: "logging:\n  format: xml\n"},
		{name: "negative preview", yaml: "server:\n  preview_rows: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  preview_rows: 25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Server.PreviewRows)
}
