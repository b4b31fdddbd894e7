package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("GRNCOMPARE_KEY_COLUMN", " GRN No ")
	t.Setenv("GRNCOMPARE_HEADER_ROWS", "0")
	t.Setenv("GRNCOMPARE_PREVIEW_ROWS", "25")
	t.Setenv("GRNCOMPARE_REQUEST_TIMEOUT", "5s")
	t.Setenv("GRNCOMPARE_LOG_FORMAT", "json")
	t.Setenv("GRNCOMPARE_OUTPUT_DIR", "")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "GRN No", cfg.Comparison.KeyColumn)
	assert.Equal(t, 0, cfg.Comparison.SkipRows())
	assert.Equal(t, 25, cfg.Server.PreviewRows)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "./output", cfg.Output.Dir, "blank values are ignored")
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("GRNCOMPARE_HEADER_ROWS", "five")
	err := ApplyEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRNCOMPARE_HEADER_ROWS")
}

func TestApplyEnv_Validates(t *testing.T) {
	t.Setenv("GRNCOMPARE_AMOUNT_COLUMN", "Invoice No")
	assert.Error(t, ApplyEnv(Default()))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")), "missing file is fine")

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GRNCOMPARE_ADDR=127.0.0.1:9999\n"), 0o644))

	t.Setenv("GRNCOMPARE_ADDR", "")
	require.NoError(t, os.Unsetenv("GRNCOMPARE_ADDR"))
	require.NoError(t, LoadDotEnv(path))

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
}
