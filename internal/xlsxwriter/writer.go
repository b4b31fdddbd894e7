// =============================================================================
// GRN Comparison Tool - XLSX Report Writer
// =============================================================================
//
// This module serializes a row collection into a single-sheet workbook that
// the user downloads.
//
// WORKBOOK LAYOUT:
//
//   Sheet <sheetName>
//   | Row 1 | column headers, in table order           |
//   | Row 2+| one row per record                        |
//
// CELL MAPPING:
//   - Text   -> string cell
//   - Number -> numeric cell (text when beyond float64 range)
//   - Absent -> no cell
//
//   No styles, widths or number formats are applied. The same table always
//   produces the same cell contents; the zip container itself is not
//   byte-for-byte reproducible (it carries timestamps).
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// maxExactInt bounds the integers written as int64 cells; past 15 digits
// spreadsheet applications lose precision anyway.
var maxExactInt = decimal.New(1, 15)

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Export serializes table into a workbook with one sheet named sheetName.
//
// PARAMETERS:
//   - table: The rows to write. It is not modified.
//   - sheetName: The sheet name (at most 31 characters, no []:*?/\).
//
// RETURNS:
//   - The xlsx bytes.
//   - An error if the sheet name is invalid or the workbook cannot be built.
func Export(table *types.Table, sheetName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, table, sheetName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write is Export to an io.Writer.
func Write(w io.Writer, table *types.Table, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("invalid sheet name %q: %w", sheetName, err)
		}
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", sheetName, err)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rowValues(table.Cells(i))); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %q: %w", sheetName, err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// rowValues maps cells to the values excelize writes.
// Nil values are skipped by the stream writer, leaving the cell empty.
func rowValues(cells []types.Value) []interface{} {
	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = cellValue(v)
	}
	return values
}

func cellValue(v types.Value) interface{} {
	switch v.Kind() {
	case types.KindNumber:
		d, _ := v.Number()
		if d.IsInteger() && d.Abs().LessThan(maxExactInt) {
			return d.IntPart()
		}
		// Infinity is not a valid cell number; keep the exact digits as text.
		f := d.InexactFloat64()
		if math.IsInf(f, 0) {
			return d.String()
		}
		return f
	case types.KindText:
		if v.Text() == "" {
			return nil
		}
		return v.Text()
	default:
		return nil
	}
}
