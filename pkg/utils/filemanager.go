// =============================================================================
// GRN Comparison Tool - File Manager Utility
// =============================================================================
//
// This module provides the file handling of the command line interface:
//   - Reading the two input reports
//   - Placing report files in the output directory
//   - Writing the run summary log
//
// OUTPUT LAYOUT:
//   output/New_GRN_Report.xlsx
//   output/2024/01/15/New_GRN_Report.xlsx   (with dated subdirectories)
//
// Files are written through a temporary file in the same directory and then
// renamed, so a reader never sees a half-written workbook.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI.
type FileManager struct {
	// OutputDir is the directory where report files are placed.
	OutputDir string

	// UseTimestampSubdirs creates date-based subdirectories.
	// Example: output/2024/01/15/New_GRN_Report.xlsx
	UseTimestampSubdirs bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager writing into outputDir.
func NewFileManager(outputDir string, useTimestampSubdirs bool) *FileManager {
	return &FileManager{
		OutputDir:           outputDir,
		UseTimestampSubdirs: useTimestampSubdirs,
		now:                 time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// Dir returns the directory files are written to right now.
func (fm *FileManager) Dir() string {
	if !fm.UseTimestampSubdirs {
		return fm.OutputDir
	}

	now := fm.now()
	return filepath.Join(
		fm.OutputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()),
	)
}

// EnsureDirectories creates the current output directory if it doesn't exist.
//
// RETURNS:
//   - The directory, so callers write into exactly the one that was created.
func (fm *FileManager) EnsureDirectories() (string, error) {
	dir := fm.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// =============================================================================
// INPUT AND OUTPUT
// =============================================================================

// ReadInput reads one input report.
//
// RETURNS:
//   - The base name of the file, used to pick the loader and in messages.
//   - The file content.
func ReadInput(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}

// WriteOutput writes data under name in the output directory, replacing any
// existing file.
//
// RETURNS:
//   - The path of the written file.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	dir, err := fm.EnsureDirectories()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	return path, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one compare run.
type RunSummary struct {
	StartTime time.Time
	EndTime   time.Time
	OldFile   string
	NewFile   string
	Reports   []ReportInfo
	Warnings  []string
}

// ReportInfo describes one generated report.
type ReportInfo struct {
	Name       string
	OutputFile string
	Count      int
	Rows       int
	ActionID   string
}

// WriteSummaryLog writes a run summary into the output directory.
//
// RETURNS:
//   - The path to the summary file.
func (fm *FileManager) WriteSummaryLog(summary RunSummary) (string, error) {
	dir, err := fm.EnsureDirectories()
	if err != nil {
		return "", err
	}

	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(dir, fmt.Sprintf("comparison_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "GRN Comparison Tool - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Old Report:     %s\n"+
		"  New Report:     %s\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.OldFile,
		summary.NewFile)

	if len(summary.Reports) > 0 {
		fmt.Fprintln(writer, "Reports:")
		fmt.Fprintln(writer, "--------------------------------------------------------------------------------")
		for _, r := range summary.Reports {
			output := r.OutputFile
			if output == "" {
				output = "(none)"
			}
			fmt.Fprintf(writer, "  Report:    %s\n", r.Name)
			fmt.Fprintf(writer, "  Count:     %d\n", r.Count)
			fmt.Fprintf(writer, "  Rows:      %d\n", r.Rows)
			fmt.Fprintf(writer, "  Output:    %s\n", output)
			fmt.Fprintf(writer, "  Action ID: %s\n\n", r.ActionID)
		}
	}

	if len(summary.Warnings) > 0 {
		fmt.Fprintln(writer, "Warnings:")
		fmt.Fprintln(writer, "--------------------------------------------------------------------------------")
		for _, w := range summary.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprint(writer, "================================================================================\n"+
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
