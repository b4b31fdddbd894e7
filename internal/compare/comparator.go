// =============================================================================
// GRN Comparison Tool - Comparator
// =============================================================================
//
// This module derives the three reports from an old and a new GRN register.
// Every operation is a pure function of its two input tables and the column
// names: inputs are never mutated and nothing is remembered between calls.
//
// KEYS:
//   A record's key is the trimmed text of its key column. A blank key never
//   matches anything, not even another blank key.
//
// REPORTS:
//   1. NewOnly           : rows of new whose key is absent from old
//   2. WithStatus        : every row of new, tagged "Old" or "New"
//   3. AmountDifferences : inner join on key, rows whose amount changed
//
// =============================================================================

package compare

import (
	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/ginjaninja78/grn-comparison/internal/validation"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT COLUMNS
// =============================================================================

const (
	// StatusOld tags a new row whose key is also in the old report.
	StatusOld = "Old"

	// StatusNew tags a new row whose key is not in the old report.
	StatusNew = "New"

	// Columns of the amount difference report, in order.
	ColumnGRN        = "GRN"
	ColumnOldAmount  = "Old Amount"
	ColumnNewAmount  = "New Amount"
	ColumnDifference = "Difference"
)

// =============================================================================
// COMPARATOR
// =============================================================================

// Comparator compares two GRN registers on a key column.
type Comparator struct {
	// KeyColumn identifies a record. Default "Invoice No".
	KeyColumn string

	// AmountColumn holds the monetary value. Default "total".
	AmountColumn string

	// StatusColumn is appended by WithStatus. Default "GRN Status".
	StatusColumn string
}

// New creates a Comparator for the given columns.
func New(keyColumn, amountColumn, statusColumn string) *Comparator {
	return &Comparator{
		KeyColumn:    keyColumn,
		AmountColumn: amountColumn,
		StatusColumn: statusColumn,
	}
}

// NewOnlyResult is the outcome of NewOnly.
type NewOnlyResult struct {
	// Table holds every row of new whose key is new, in new's order.
	Table *types.Table

	// Keys lists the distinct new keys in order of first appearance.
	// len(Keys) is the reported count; it can be smaller than Table.Len()
	// when a new key appears on several rows.
	Keys []string
}

// NewOnly returns the rows of newTable whose non-blank key does not occur in
// oldTable.
func (c *Comparator) NewOnly(oldTable, newTable *types.Table) (*NewOnlyResult, error) {
	if err := c.require(oldTable, newTable, c.KeyColumn); err != nil {
		return nil, err
	}

	oldKeys := keySet(oldTable, c.KeyColumn)

	result := &NewOnlyResult{Table: derived(newTable, newTable.Headers)}
	seen := make(map[string]bool)

	for i, row := range newTable.Rows {
		key := types.Key(row, c.KeyColumn)
		if key == "" {
			continue
		}
		if _, ok := oldKeys[key]; ok {
			continue
		}
		if !seen[key] {
			seen[key] = true
			result.Keys = append(result.Keys, key)
		}
		result.Table.Rows = append(result.Table.Rows, row.Clone())
		result.Table.RowNumbers = append(result.Table.RowNumbers, newTable.RowNumber(i))
	}

	return result, nil
}

// WithStatus returns a copy of newTable with the status column set on every
// row: "Old" when the row's key occurs in oldTable, otherwise "New".
// Blank keys are always "New". If newTable already has the status column it
// is overwritten in place.
func (c *Comparator) WithStatus(oldTable, newTable *types.Table) (*types.Table, error) {
	if err := c.require(oldTable, newTable, c.KeyColumn); err != nil {
		return nil, err
	}

	oldKeys := keySet(oldTable, c.KeyColumn)

	out := newTable.Clone()
	if !out.HasColumn(c.StatusColumn) {
		out.Headers = append(out.Headers, c.StatusColumn)
	}

	for _, row := range out.Rows {
		status := StatusNew
		if key := types.Key(row, c.KeyColumn); key != "" {
			if _, ok := oldKeys[key]; ok {
				status = StatusOld
			}
		}
		row[c.StatusColumn] = types.TextValue(status)
	}

	return out, nil
}

// AmountDifferences joins oldTable and newTable on the key column and returns
// the pairs whose amount changed.
//
// JOIN SEMANTICS:
//   - Inner join. A key on m old rows and n new rows yields m*n pairs,
//     ordered old row first, then new row.
//   - A pair with a non-numeric or missing amount on either side has no
//     difference and is dropped.
//   - A pair is kept only when New Amount - Old Amount is not zero.
//
// RETURNS:
//   - A table with columns GRN, Old Amount, New Amount, Difference.
func (c *Comparator) AmountDifferences(oldTable, newTable *types.Table) (*types.Table, error) {
	if err := c.require(oldTable, newTable, c.KeyColumn, c.AmountColumn); err != nil {
		return nil, err
	}

	out := &types.Table{
		Headers: []string{ColumnGRN, ColumnOldAmount, ColumnNewAmount, ColumnDifference},
	}

	newAmounts := make(map[string][]decimal.Decimal)
	for _, row := range newTable.Rows {
		key := types.Key(row, c.KeyColumn)
		if key == "" {
			continue
		}
		if amount, ok := row[c.AmountColumn].Number(); ok {
			newAmounts[key] = append(newAmounts[key], amount)
		}
	}

	for _, row := range oldTable.Rows {
		key := types.Key(row, c.KeyColumn)
		if key == "" {
			continue
		}
		oldAmount, ok := row[c.AmountColumn].Number()
		if !ok {
			continue
		}

		for _, newAmount := range newAmounts[key] {
			diff := newAmount.Sub(oldAmount)
			if diff.IsZero() {
				continue
			}
			out.Rows = append(out.Rows, types.Record{
				ColumnGRN:        types.TextValue(key),
				ColumnOldAmount:  types.NumberValue(oldAmount),
				ColumnNewAmount:  types.NumberValue(newAmount),
				ColumnDifference: types.NumberValue(diff),
			})
		}
	}

	return out, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// require checks that both inputs carry the given columns.
func (c *Comparator) require(oldTable, newTable *types.Table, columns ...string) error {
	if err := validation.RequireColumns(oldTable, "old", columns...); err != nil {
		return err
	}
	return validation.RequireColumns(newTable, "new", columns...)
}

// keySet returns the distinct non-blank keys of t.
func keySet(t *types.Table, column string) map[string]struct{} {
	keys := make(map[string]struct{}, t.Len())
	for _, row := range t.Rows {
		if key := types.Key(row, column); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// derived starts an empty table that reports the same source as t.
func derived(t *types.Table, headers []string) *types.Table {
	return &types.Table{
		Source:  t.Source,
		Headers: append([]string(nil), headers...),
	}
}
