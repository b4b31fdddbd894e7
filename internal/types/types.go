// =============================================================================
// GRN Comparison Tool - Shared Types
// =============================================================================
//
// This package contains the table model shared by the loaders, the comparator,
// the exporter and the reporter. Keeping it here avoids import cycles between:
//   - xlsxparser / csvparser (produce tables)
//   - compare                (derives tables)
//   - xlsxwriter             (serializes tables)
//
// CELL MODEL:
//   Spreadsheet cells are loosely typed. Every cell is mapped to a tagged
//   Value that is exactly one of Text, Number or Absent. Numbers are exact
//   decimals so that amount differences compare without float rounding.
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL VALUES
// =============================================================================

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindAbsent marks an empty or missing cell.
	KindAbsent Kind = iota

	// KindText marks a cell holding free text.
	KindText

	// KindNumber marks a cell holding a number.
	KindNumber
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "absent"
	}
}

// Value is a single cell: Text, Number or Absent.
// The zero Value is Absent.
type Value struct {
	kind Kind

	// text is the text of a Text cell, or the source spelling of a Number
	// cell so that keys keep the form they had in the file.
	text string

	num decimal.Decimal
}

// Absent is the empty cell.
var Absent = Value{}

// TextValue returns a Text cell.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue returns a Number cell.
func NumberValue(d decimal.Decimal) Value {
	return Value{kind: KindNumber, text: d.String(), num: d}
}

// ParseValue classifies a raw cell string.
//
// RULES:
//   - blank (after trimming)          -> Absent
//   - parses as a decimal (trimmed)   -> Number, keeping the raw spelling
//     (exponents beyond ±308 stay Text)
//   - anything else                   -> Text, untrimmed
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Absent
	}
	if d, ok := parseNumber(trimmed); ok {
		return Value{kind: KindNumber, text: trimmed, num: d}
	}
	return TextValue(raw)
}

// maxExponent bounds the decimal exponent of a Number. Beyond it a cell is not
// an amount any spreadsheet can hold, and arithmetic on it would have to
// expand the coefficient to the exponent's width.
const maxExponent = 308

// parseNumber parses s as a decimal whose exponent is within maxExponent.
func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the empty cell.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Text returns the text form of v. Absent renders as "".
func (v Value) Text() string {
	if v.kind == KindAbsent {
		return ""
	}
	return v.text
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Number coerces v to a decimal.
// Text that spells a number is accepted; everything else reports false.
func (v Value) Number() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		return parseNumber(strings.TrimSpace(v.text))
	default:
		return decimal.Zero, false
	}
}

// =============================================================================
// RECORDS AND TABLES
// =============================================================================

// Record maps a column name to its cell.
// A column missing from the map reads as Absent.
type Record map[string]Value

// Clone returns a copy of r that shares no storage with it.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered row collection with an ordered set of column headers.
type Table struct {
	// Source names where the table came from (an upload or file name).
	// It is only used in messages.
	Source string

	// Headers lists the column names in display order.
	Headers []string

	// Rows holds the records in source order.
	Rows []Record

	// RowNumbers holds the 1-based sheet row of each record, when known.
	// Derived tables leave it nil.
	RowNumbers []int
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table has a header named name.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

func (t *Table) columnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cells returns the values of row i in header order.
func (t *Table) Cells(i int) []Value {
	row := t.Rows[i]
	cells := make([]Value, len(t.Headers))
	for c, h := range t.Headers {
		cells[c] = row[h]
	}
	return cells
}

// RowNumber returns the sheet row of record i, or 0 when unknown.
func (t *Table) RowNumber(i int) int {
	if i < len(t.RowNumbers) {
		return t.RowNumbers[i]
	}
	return 0
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		Source:  t.Source,
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	if t.RowNumbers != nil {
		out.RowNumbers = append([]int(nil), t.RowNumbers...)
	}
	return out
}

// NormalizeKey trims every value of column and coerces it to text.
// Blank keys are kept as "" rather than dropped.
func (t *Table) NormalizeKey(column string) {
	for _, r := range t.Rows {
		r[column] = TextValue(strings.TrimSpace(r[column].Text()))
	}
}

// Key returns the normalized key of r.
func Key(r Record, column string) string {
	return strings.TrimSpace(r[column].Text())
}

// =============================================================================
// BUILDING TABLES FROM RAW ROWS
// =============================================================================

// TableFromRows builds a table from raw sheet rows.
//
// PARAMETERS:
//   - source: Name used in messages.
//   - raw: Every row of the sheet, as strings.
//   - headerIndex: 0-based index of the column header row. Rows above it are
//     the export preamble and are skipped.
//
// RETURNS:
//   - The table. Blank rows below the header are dropped.
//   - ErrNoHeaderRow when the sheet is shorter than headerIndex+1 rows.
func TableFromRows(source string, raw [][]string, headerIndex int) (*Table, error) {
	if headerIndex < 0 {
		return nil, fmt.Errorf("header row index must not be negative, got %d", headerIndex)
	}
	if len(raw) <= headerIndex {
		return nil, fmt.Errorf("%w: expected header on row %d, sheet has %d row(s)",
			ErrNoHeaderRow, headerIndex+1, len(raw))
	}

	width := 0
	for _, row := range raw[headerIndex:] {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := makeHeaders(raw[headerIndex], width)
	table := &Table{
		Source:  source,
		Headers: headers,
	}

	for i := headerIndex + 1; i < len(raw); i++ {
		row := raw[i]
		if isRowEmpty(row) {
			continue
		}
		record := make(Record, len(headers))
		for c, h := range headers {
			if c < len(row) {
				record[h] = ParseValue(row[c])
			} else {
				record[h] = Absent
			}
		}
		table.Rows = append(table.Rows, record)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table, nil
}

// makeHeaders names every column of the header row.
// Blank names become "Unnamed: <index>" and repeats get a ".N" suffix.
func makeHeaders(row []string, width int) []string {
	headers := make([]string, width)
	used := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = row[i]
		}
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		base := name
		for n := 1; used[name]; n++ {
			name = base + "." + strconv.Itoa(n)
		}
		used[name] = true
		headers[i] = name
	}

	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// LOAD OPTIONS
// =============================================================================

// LoadOptions tells a loader how to read one input report.
type LoadOptions struct {
	// Role is "old" or "new". It names the input in errors.
	Role string

	// Source is the upload or file name, used in messages.
	Source string

	// HeaderRows is the number of preamble rows above the column header row.
	HeaderRows int

	// KeyColumn is normalized after load. It must be present.
	KeyColumn string

	// AmountColumn must be present.
	AmountColumn string
}
