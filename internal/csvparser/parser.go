// =============================================================================
// GRN Comparison Tool - CSV Report Loader
// =============================================================================
//
// This module reads a CSV export of the GRN register. Some accounting systems
// export the same register as CSV instead of XLSX; the layout is identical
// (preamble rows, then the column header row, then one GRN per row), so the
// resulting table follows exactly the same rules as the XLSX loader.
//
// FEATURES:
//   - Comma, semicolon, pipe or tab delimiters
//   - Ragged rows (the preamble rarely has as many fields as the data)
//   - A leading UTF-8 byte order mark is ignored
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/ginjaninja78/grn-comparison/internal/xlsxparser"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings contains settings for parsing CSV files.
type Settings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string
}

// DefaultSettings returns comma-separated settings.
func DefaultSettings() Settings {
	return Settings{Delimiter: ","}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV report and returns it as a table.
//
// PARAMETERS:
//   - r: The CSV bytes.
//   - opts: Preamble size, required columns and names for messages.
//   - settings: The delimiter.
//
// RETURNS:
//   - The table, key column normalized.
//   - A *types.MalformedInputError if the CSV cannot be read.
//   - A *types.MissingColumnError if the key or amount column is absent.
func Parse(r io.Reader, opts types.LoadOptions, settings Settings) (*types.Table, error) {
	reader := bufio.NewReader(r)

	// Excel writes a BOM in front of "CSV UTF-8" exports.
	if bom, err := reader.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = reader.Discard(3)
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := readRows(csvReader)
	if err != nil {
		return nil, &types.MalformedInputError{
			File:   opts.Role,
			Source: opts.Source,
			Err:    fmt.Errorf("failed to read CSV: %w", err),
		}
	}

	return xlsxparser.Build(rows, opts)
}

// readRows reads every record, one row per physical line.
// encoding/csv drops blank lines, but in the export they are preamble rows
// and count towards the header position, so they are put back as empty rows.
func readRows(csvReader *csv.Reader) ([][]string, error) {
	var rows [][]string
	nextLine := 1

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		line, _ := csvReader.FieldPos(0)
		for ; nextLine < line; nextLine++ {
			rows = append(rows, nil)
		}
		rows = append(rows, record)

		last := len(record) - 1
		lastLine, _ := csvReader.FieldPos(last)
		nextLine = lastLine + strings.Count(record[last], "\n") + 1
	}
}

// ParseBytes is Parse over an in-memory upload.
func ParseBytes(data []byte, opts types.LoadOptions, settings Settings) (*types.Table, error) {
	return Parse(bytes.NewReader(data), opts, settings)
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// The preamble rows have fewer fields than the data rows.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
}
