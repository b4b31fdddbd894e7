// =============================================================================
// GRN Comparison Tool - Input Validation
// =============================================================================
//
// This module checks a loaded report before any comparison runs.
//
// FATAL CHECKS:
//   - The key column and the amount column must both be present.
//     A missing column fails the action with a MissingColumnError, at load
//     time rather than at first access.
//
// WARNINGS (never fatal):
//   - Rows with a blank key. They are kept, but never match anything.
//   - Keys that appear on more than one row. Joins fan out over them.
//   - Amounts that are not numbers. They are left out of the amount
//     difference report.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/grn-comparison/internal/types"
)

// =============================================================================
// REQUIRED COLUMNS
// =============================================================================

// RequireColumns fails with a *types.MissingColumnError naming the first
// column of columns that table does not have.
//
// PARAMETERS:
//   - table: The loaded report.
//   - role: "old" or "new", used in the error.
//   - columns: The column names that must be present (case- and name-exact).
func RequireColumns(table *types.Table, role string, columns ...string) error {
	for _, col := range columns {
		if !table.HasColumn(col) {
			return &types.MissingColumnError{
				Column: col,
				File:   role,
				Source: table.Source,
			}
		}
	}
	return nil
}

// =============================================================================
// WARNINGS
// =============================================================================

// Issue is a non-fatal finding about one input.
type Issue struct {
	// File is the role of the input ("old" or "new").
	File string

	// Column is the column the issue concerns.
	Column string

	// Rows lists the 1-based sheet rows involved, when known.
	Rows []int

	// Message is a human-readable description.
	Message string
}

// String formats the issue for logs and the CLI.
func (i Issue) String() string {
	if len(i.Rows) == 0 {
		return fmt.Sprintf("%s file, column %q: %s", i.File, i.Column, i.Message)
	}
	return fmt.Sprintf("%s file, column %q: %s (rows %s)", i.File, i.Column, i.Message, formatRows(i.Rows))
}

// Inspect reports the non-fatal issues of one input.
//
// PARAMETERS:
//   - table: The loaded report, key column already normalized.
//   - role: "old" or "new".
//   - keyColumn: The key column name.
//   - amountColumn: The amount column name.
//
// RETURNS:
//   - The issues found, in a stable order: blank keys, duplicate keys,
//     non-numeric amounts.
func Inspect(table *types.Table, role, keyColumn, amountColumn string) []Issue {
	var issues []Issue

	var blank []int
	var badAmount []int
	firstSeen := make(map[string]int)
	dupRows := make(map[string][]int)
	var dupOrder []string

	for i, row := range table.Rows {
		line := table.RowNumber(i)

		key := types.Key(row, keyColumn)
		if key == "" {
			blank = append(blank, line)
		} else if first, ok := firstSeen[key]; ok {
			if _, listed := dupRows[key]; !listed {
				dupOrder = append(dupOrder, key)
				dupRows[key] = []int{first}
			}
			dupRows[key] = append(dupRows[key], line)
		} else {
			firstSeen[key] = line
		}

		amount := row[amountColumn]
		if _, ok := amount.Number(); !ok && !amount.IsAbsent() {
			badAmount = append(badAmount, line)
		}
	}

	if len(blank) > 0 {
		issues = append(issues, Issue{
			File:    role,
			Column:  keyColumn,
			Rows:    blank,
			Message: fmt.Sprintf("%d row(s) with a blank key never match", len(blank)),
		})
	}

	for _, key := range dupOrder {
		issues = append(issues, Issue{
			File:    role,
			Column:  keyColumn,
			Rows:    dupRows[key],
			Message: fmt.Sprintf("key %q appears on %d rows", key, len(dupRows[key])),
		})
	}

	if len(badAmount) > 0 {
		issues = append(issues, Issue{
			File:    role,
			Column:  amountColumn,
			Rows:    badAmount,
			Message: fmt.Sprintf("%d non-numeric amount(s) are left out of amount comparison", len(badAmount)),
		})
	}

	return issues
}

// FormatIssues formats issues for display.
func FormatIssues(issues []Issue) string {
	if len(issues) == 0 {
		return "No warnings."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d warning(s):\n", len(issues)))
	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.String()))
	}
	return builder.String()
}

// formatRows lists row numbers, eliding long lists.
func formatRows(rows []int) string {
	const limit = 10

	parts := make([]string, 0, limit+1)
	for i, r := range rows {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(rows)-limit))
			break
		}
		if r == 0 {
			parts = append(parts, "?")
			continue
		}
		parts = append(parts, fmt.Sprint(r))
	}
	return strings.Join(parts, ", ")
}
