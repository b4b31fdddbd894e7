package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preamble = "ACME Trading Ltd\nGRN Register\n\nPrinted on,2024-03-01\n\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSelectedKinds(t *testing.T) {
	kinds, err := selectedKinds("ALL")
	require.NoError(t, err)
	assert.Equal(t, []reporter.Kind{reporter.KindNewOnly, reporter.KindStatus, reporter.KindAmount}, kinds)

	kinds, err = selectedKinds("status")
	require.NoError(t, err)
	assert.Equal(t, []reporter.Kind{reporter.KindStatus}, kinds)

	_, err = selectedKinds("totals")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	oldFile := writeFile(t, dir, "old.csv", preamble+"Invoice No,total\nA1,100\nB2,50\n")
	newFile := writeFile(t, dir, "new.csv", preamble+"Invoice No,total\nA1,100\nB2,75\nC3,20\n")
	outDir := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{
		"compare",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--old", oldFile,
		"--new", newFile,
		"--out", outDir,
		"--summary",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	// An explicitly named config file must exist.
	require.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{
		"compare",
		"--config", writeFile(t, dir, "config.yaml", "logging:\n  level: error\n"),
		"--old", oldFile,
		"--new", newFile,
		"--out", outDir,
		"--summary",
	})
	stdout.Reset()
	require.NoError(t, rootCmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "Found 1 new GRNs.")
	assert.Contains(t, out, "Generated the full report with status: 3 rows.")
	assert.Contains(t, out, "Found 1 GRNs with changed amounts.")
	assert.Contains(t, out, "No warnings.")

	for _, name := range []string{"New_GRN_Report.xlsx", "Full_Report_with_Status.xlsx", "Amount_Difference_Report.xlsx"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "comparison_summary_*.txt"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCompareCommand_ActionErrorPrintedOnce(t *testing.T) {
	dir := t.TempDir()
	oldFile := writeFile(t, dir, "old.csv", preamble+"Invoice No,total\nA1,100\n")
	newFile := writeFile(t, dir, "new.csv", preamble+"Invoice No,amount\nA1,100\n")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{
		"compare",
		"--config", writeFile(t, dir, "config.yaml", "logging:\n  level: error\n"),
		"--old", oldFile,
		"--new", newFile,
		"--report", "amount",
		"--dry-run",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)

	var missing *types.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "total", missing.Column)

	assert.Equal(t, reporter.Describe(err)+"\n", stderr.String(), "only the friendly message is printed")
	assert.Empty(t, exitMessage(err), "Execute adds nothing for a reported error")
}

func TestExitMessage(t *testing.T) {
	assert.Equal(t, "Error: boom", exitMessage(errors.New("boom")))
	assert.Empty(t, exitMessage(&reportedError{err: errors.New("boom")}))
}
