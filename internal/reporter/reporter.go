// =============================================================================
// GRN Comparison Tool - Reporter
// =============================================================================
//
// This module runs one report action end to end. It is the boundary every
// interface (CLI, HTTP shell, tests) calls, and it holds no state between
// actions: the result is a pure function of the two uploads, the report kind
// and the configured column names.
//
// ACTION PIPELINE:
//   1. Load the old and new uploads (XLSX, or CSV by file extension)
//   2. Reject either input if the key or amount column is missing
//   3. Collect non-fatal warnings (blank keys, duplicates, bad amounts)
//   4. Run the requested comparison
//   5. Export the result to a one-sheet workbook
//
// ERRORS:
//   Every failure leaves as exactly one of
//     *types.MissingColumnError, *types.MalformedInputError, *types.UnexpectedError
//   and an errored action yields no table and no download. A panic inside an
//   action is recovered into an UnexpectedError.
//
// =============================================================================

package reporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/grn-comparison/internal/compare"
	"github.com/ginjaninja78/grn-comparison/internal/config"
	"github.com/ginjaninja78/grn-comparison/internal/csvparser"
	"github.com/ginjaninja78/grn-comparison/internal/logging"
	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/ginjaninja78/grn-comparison/internal/validation"
	"github.com/ginjaninja78/grn-comparison/internal/xlsxparser"
	"github.com/ginjaninja78/grn-comparison/internal/xlsxwriter"
	"github.com/google/uuid"
)

// =============================================================================
// INPUT AND RESULT
// =============================================================================

// Input is one uploaded report.
type Input struct {
	// Name is the upload or file name. Its extension selects the loader.
	Name string

	// Data is the file content.
	Data []byte
}

// Result represents the outcome of one action.
type Result struct {
	// ActionID identifies the action in logs.
	ActionID string

	// Report describes the kind of report produced.
	Report Report

	// Table holds the report rows.
	Table *types.Table

	// Count is the headline number: distinct new keys for the new-only
	// report, rows for the others.
	Count int

	// Data is the exported workbook. It is nil when the report is empty and
	// there is nothing to download.
	Data []byte

	// Warnings lists non-fatal findings about the inputs.
	Warnings []validation.Issue

	// Elapsed is the time taken by the action.
	Elapsed time.Duration
}

// Downloadable reports whether the result carries a workbook.
func (r *Result) Downloadable() bool {
	return len(r.Data) > 0
}

// =============================================================================
// REPORTER
// =============================================================================

// Reporter runs report actions with a fixed comparison configuration.
type Reporter struct {
	cfg        config.ComparisonConfig
	comparator *compare.Comparator
	csv        csvparser.Settings
}

// New creates a Reporter.
func New(cfg config.ComparisonConfig) *Reporter {
	return &Reporter{
		cfg:        cfg,
		comparator: compare.New(cfg.KeyColumn, cfg.AmountColumn, cfg.StatusColumn),
		csv:        csvparser.DefaultSettings(),
	}
}

// Run executes one action.
//
// PARAMETERS:
//   - ctx: Cancels the action between stages.
//   - kind: Which report to produce.
//   - oldInput, newInput: The two uploads.
//
// RETURNS:
//   - The result, or one of the three classified errors.
func (r *Reporter) Run(ctx context.Context, kind Kind, oldInput, newInput Input) (result *Result, err error) {
	start := time.Now()
	actionID := uuid.NewString()
	logger := logging.WithFields(ctx, "action_id", actionID, "report", string(kind))

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = &types.UnexpectedError{Err: fmt.Errorf("internal error: %v", p)}
		}
		if err != nil {
			err = classify(err)
			logger.Warn("report failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		}
	}()

	report, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown report %q", kind)
	}

	logger.Debug("loading inputs", "old", oldInput.Name, "new", newInput.Name)

	oldTable, err := r.load(oldInput, "old")
	if err != nil {
		return nil, err
	}
	newTable, err := r.load(newInput, "new")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result = &Result{
		ActionID: actionID,
		Report:   report,
	}
	result.Warnings = append(
		validation.Inspect(oldTable, "old", r.cfg.KeyColumn, r.cfg.AmountColumn),
		validation.Inspect(newTable, "new", r.cfg.KeyColumn, r.cfg.AmountColumn)...,
	)
	for _, w := range result.Warnings {
		logger.Debug("input warning", "warning", w.String())
	}

	switch kind {
	case KindNewOnly:
		res, err := r.comparator.NewOnly(oldTable, newTable)
		if err != nil {
			return nil, err
		}
		result.Table, result.Count = res.Table, len(res.Keys)
	case KindStatus:
		result.Table, err = r.comparator.WithStatus(oldTable, newTable)
		if err != nil {
			return nil, err
		}
		result.Count = result.Table.Len()
	case KindAmount:
		result.Table, err = r.comparator.AmountDifferences(oldTable, newTable)
		if err != nil {
			return nil, err
		}
		result.Count = result.Table.Len()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if result.Table.Len() > 0 || report.ExportWhenEmpty {
		result.Data, err = xlsxwriter.Export(result.Table, report.SheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to export report: %w", err)
		}
	}

	result.Elapsed = time.Since(start)
	logger.Info("report generated",
		"count", result.Count,
		"rows", result.Table.Len(),
		"warnings", len(result.Warnings),
		"bytes", len(result.Data),
		"duration_ms", result.Elapsed.Milliseconds(),
	)

	return result, nil
}

// load picks the loader by file extension.
func (r *Reporter) load(in Input, role string) (*types.Table, error) {
	opts := types.LoadOptions{
		Role:         role,
		Source:       in.Name,
		HeaderRows:   r.cfg.SkipRows(),
		KeyColumn:    r.cfg.KeyColumn,
		AmountColumn: r.cfg.AmountColumn,
	}

	if len(in.Data) == 0 {
		return nil, &types.MalformedInputError{File: role, Source: in.Name, Err: errors.New("file is empty")}
	}

	if strings.EqualFold(filepath.Ext(in.Name), ".csv") {
		return csvparser.ParseBytes(in.Data, opts, r.csv)
	}
	return xlsxparser.ParseBytes(in.Data, opts)
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// classify maps any error onto the three action error types.
func classify(err error) error {
	var missing *types.MissingColumnError
	var malformed *types.MalformedInputError
	var unexpected *types.UnexpectedError

	switch {
	case errors.As(err, &missing):
		return missing
	case errors.As(err, &malformed):
		return malformed
	case errors.As(err, &unexpected):
		return unexpected
	default:
		return &types.UnexpectedError{Err: err}
	}
}

// Describe renders an action error as the message shown to the user.
func Describe(err error) string {
	var missing *types.MissingColumnError
	var malformed *types.MalformedInputError

	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Error: A required column was not found: %s. Please check your Excel files.", missing.Error())
	case errors.As(err, &malformed):
		return fmt.Sprintf("Error: The %s file could not be read: %v. Please upload an .xlsx export.", malformed.File, malformed.Err)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
