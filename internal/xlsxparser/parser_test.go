package xlsxparser

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx whose first sheet holds rows from A1 down.
func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func withPreamble(rows ...[]interface{}) [][]interface{} {
	out := [][]interface{}{
		{"ACME Trading Ltd"},
		{"GRN Register"},
		{},
		{"Printed on", "2024-03-01"},
		{},
	}
	return append(out, rows...)
}

func opts(role string) types.LoadOptions {
	return types.LoadOptions{
		Role:         role,
		Source:       role + ".xlsx",
		HeaderRows:   5,
		KeyColumn:    "Invoice No",
		AmountColumn: "total",
	}
}

func TestParse(t *testing.T) {
	data := workbook(t, withPreamble(
		[]interface{}{"Invoice No", "Supplier", "total"},
		[]interface{}{"  A1 ", "Acme", 100},
		[]interface{}{12345, "Bolt Co", 99.5},
		[]interface{}{"C3", "Cog Ltd", "N/A"},
	))

	table, err := ParseBytes(data, opts("old"))
	require.NoError(t, err)

	assert.Equal(t, "old.xlsx", table.Source)
	assert.Equal(t, []string{"Invoice No", "Supplier", "total"}, table.Headers)
	require.Equal(t, 3, table.Len())

	keys := []string{"A1", "12345", "C3"}
	for i, want := range keys {
		v := table.Rows[i]["Invoice No"]
		assert.Equal(t, types.KindText, v.Kind(), "keys are text")
		assert.Equal(t, want, v.Text())
	}

	amount, ok := table.Rows[1]["total"].Number()
	require.True(t, ok)
	assert.Equal(t, "99.5", amount.String())

	_, ok = table.Rows[2]["total"].Number()
	assert.False(t, ok, "N/A is not a number")

	assert.Equal(t, []int{7, 8, 9}, table.RowNumbers)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := ParseBytes([]byte("Invoice No,total\nA1,100\n"), opts("new"))
	require.Error(t, err)

	var mal *types.MalformedInputError
	require.True(t, errors.As(err, &mal))
	assert.Equal(t, "new", mal.File)
	assert.Equal(t, "new.xlsx", mal.Source)
}

func TestParse_SheetTooShort(t *testing.T) {
	data := workbook(t, [][]interface{}{{"ACME Trading Ltd"}, {"GRN Register"}})

	_, err := ParseBytes(data, opts("old"))

	var mal *types.MalformedInputError
	require.True(t, errors.As(err, &mal))
	assert.ErrorIs(t, err, types.ErrNoHeaderRow)
}

func TestParse_MissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []interface{}
		want   string
	}{
		{name: "no key", header: []interface{}{"Invoice", "total"}, want: "Invoice No"},
		{name: "no amount", header: []interface{}{"Invoice No", "Total"}, want: "total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := workbook(t, withPreamble(tt.header, []interface{}{"A1", 1}))

			_, err := ParseBytes(data, opts("new"))

			var missing *types.MissingColumnError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.want, missing.Column)
			assert.Equal(t, "new", missing.File)
		})
	}
}

func TestParse_BlankKeyKept(t *testing.T) {
	data := workbook(t, withPreamble(
		[]interface{}{"Invoice No", "total"},
		[]interface{}{"   ", 10},
	))

	table, err := ParseBytes(data, opts("new"))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "", table.Rows[0]["Invoice No"].Text())
	assert.Equal(t, types.KindText, table.Rows[0]["Invoice No"].Kind())
}
