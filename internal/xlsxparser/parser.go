// =============================================================================
// GRN Comparison Tool - XLSX Report Loader
// =============================================================================
//
// This module reads an uploaded GRN register export into a row collection.
//
// EXPECTED LAYOUT (first worksheet):
//
//   | Row 1-5 | export preamble (company name, report title, print date ...) |
//   | Row 6   | column headers: ... | Invoice No | ... | total | ...        |
//   | Row 7+  | one GRN per row                                             |
//
//   The preamble size, key column and amount column come from LoadOptions.
//
// LOAD STEPS:
//   1. Open the workbook from memory
//   2. Read every row of the first sheet, unformatted
//   3. Build the table below the preamble
//   4. Reject the table if the key or amount column is missing
//   5. Trim the key column and coerce it to text
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/ginjaninja78/grn-comparison/internal/validation"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a workbook and returns its first sheet as a table.
//
// PARAMETERS:
//   - r: The workbook bytes.
//   - opts: Preamble size, required columns and names for messages.
//
// RETURNS:
//   - The table, key column normalized.
//   - A *types.MalformedInputError if r is not a readable workbook or the
//     sheet ends before the header row.
//   - A *types.MissingColumnError if the key or amount column is absent.
func Parse(r io.Reader, opts types.LoadOptions) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, malformed(opts, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed(opts, fmt.Errorf("workbook has no sheets"))
	}

	// Raw values keep numbers in their stored form, so "1,234.00" formatting
	// does not leak into amounts.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, malformed(opts, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err))
	}

	return Build(rows, opts)
}

// ParseBytes is Parse over an in-memory upload.
func ParseBytes(data []byte, opts types.LoadOptions) (*types.Table, error) {
	return Parse(bytes.NewReader(data), opts)
}

// Build turns raw sheet rows into a validated table.
// The CSV loader shares it so both formats follow the same rules.
func Build(rows [][]string, opts types.LoadOptions) (*types.Table, error) {
	table, err := types.TableFromRows(opts.Source, rows, opts.HeaderRows)
	if err != nil {
		return nil, malformed(opts, err)
	}

	if err := validation.RequireColumns(table, opts.Role, opts.KeyColumn, opts.AmountColumn); err != nil {
		return nil, err
	}

	table.NormalizeKey(opts.KeyColumn)

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func malformed(opts types.LoadOptions, err error) error {
	return &types.MalformedInputError{
		File:   opts.Role,
		Source: opts.Source,
		Err:    err,
	}
}
