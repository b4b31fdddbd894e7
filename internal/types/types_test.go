package types

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Value Tests
// ============================================================================

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind Kind
		wantText string
	}{
		{name: "empty is absent", raw: "", wantKind: KindAbsent, wantText: ""},
		{name: "whitespace is absent", raw: "   ", wantKind: KindAbsent, wantText: ""},
		{name: "integer", raw: "100", wantKind: KindNumber, wantText: "100"},
		{name: "decimal keeps spelling", raw: "100.50", wantKind: KindNumber, wantText: "100.50"},
		{name: "padded number trimmed", raw: " 42 ", wantKind: KindNumber, wantText: "42"},
		{name: "negative", raw: "-7.25", wantKind: KindNumber, wantText: "-7.25"},
		{name: "text untrimmed", raw: " A1 ", wantKind: KindText, wantText: " A1 "},
		{name: "not a number", raw: "N/A", wantKind: KindText, wantText: "N/A"},
		{name: "thousands separator is text", raw: "1,000", wantKind: KindText, wantText: "1,000"},
		{name: "exponent", raw: "1.5e3", wantKind: KindNumber, wantText: "1.5e3"},
		{name: "huge exponent is text", raw: "1e99999999", wantKind: KindText, wantText: "1e99999999"},
		{name: "tiny exponent is text", raw: "1e-400", wantKind: KindText, wantText: "1e-400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseValue(tt.raw)
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantText, v.Text())
		})
	}
}

func TestValueNumber(t *testing.T) {
	d, ok := NumberValue(decimal.RequireFromString("12.5")).Number()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	d, ok = TextValue(" 150 ").Number()
	require.True(t, ok, "numeric text coerces")
	assert.True(t, d.Equal(decimal.NewFromInt(150)))

	_, ok = TextValue("N/A").Number()
	assert.False(t, ok)

	_, ok = Absent.Number()
	assert.False(t, ok)

	_, ok = TextValue("1e400").Number()
	assert.False(t, ok, "out-of-range exponent is not a number")
}

// ============================================================================
// TableFromRows Tests
// ============================================================================

func preamble() [][]string {
	return [][]string{
		{"Company Ltd"},
		{"GRN Register"},
		{},
		{"Printed", "2024-01-01"},
		{},
	}
}

func TestTableFromRows(t *testing.T) {
	raw := append(preamble(),
		[]string{"Invoice No", "total", "Supplier"},
		[]string{" A1 ", "100", "Acme"},
		[]string{"", "", ""},
		[]string{"B2", "N/A"},
	)

	table, err := TableFromRows("old.xlsx", raw, 5)
	require.NoError(t, err)

	assert.Equal(t, "old.xlsx", table.Source)
	assert.Equal(t, []string{"Invoice No", "total", "Supplier"}, table.Headers)
	require.Equal(t, 2, table.Len(), "blank rows are dropped")
	assert.Equal(t, []int{7, 9}, table.RowNumbers)

	assert.Equal(t, KindNumber, table.Rows[0]["total"].Kind())
	assert.Equal(t, KindText, table.Rows[1]["total"].Kind())
	assert.True(t, table.Rows[1]["Supplier"].IsAbsent(), "short rows pad with absent")
}

func TestTableFromRows_TooShort(t *testing.T) {
	_, err := TableFromRows("x", preamble()[:3], 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHeaderRow))
}

func TestTableFromRows_HeaderNames(t *testing.T) {
	raw := [][]string{
		{"total", "", "total", "total.1", "total"},
		{"1", "2", "3", "4", "5", "6"},
	}

	table, err := TableFromRows("x", raw, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"total", "Unnamed: 1", "total.1", "total.1.1", "total.2", "Unnamed: 5",
	}, table.Headers)
}

// ============================================================================
// Table Tests
// ============================================================================

func TestNormalizeKey(t *testing.T) {
	table := &Table{
		Headers: []string{"Invoice No"},
		Rows: []Record{
			{"Invoice No": ParseValue("  A1\t")},
			{"Invoice No": ParseValue("00123")},
			{"Invoice No": Absent},
			{},
		},
	}

	table.NormalizeKey("Invoice No")

	want := []string{"A1", "00123", "", ""}
	for i, w := range want {
		v := table.Rows[i]["Invoice No"]
		assert.Equal(t, KindText, v.Kind(), "row %d", i)
		assert.Equal(t, w, v.Text(), "row %d", i)
	}
}

func TestClone_Independent(t *testing.T) {
	orig := &Table{
		Headers:    []string{"k"},
		Rows:       []Record{{"k": TextValue("a")}},
		RowNumbers: []int{7},
	}

	cp := orig.Clone()
	cp.Rows[0]["k"] = TextValue("b")
	cp.Headers[0] = "z"
	cp.RowNumbers[0] = 1

	assert.Equal(t, "a", orig.Rows[0]["k"].Text())
	assert.Equal(t, "k", orig.Headers[0])
	assert.Equal(t, 7, orig.RowNumber(0))
}

func TestCells(t *testing.T) {
	table := &Table{
		Headers: []string{"b", "a"},
		Rows:    []Record{{"a": TextValue("x")}},
	}

	cells := table.Cells(0)
	require.Len(t, cells, 2)
	assert.True(t, cells[0].IsAbsent())
	assert.Equal(t, "x", cells[1].Text())
}

func TestErrorMessages(t *testing.T) {
	err := &MissingColumnError{Column: "total", File: "new", Source: "b.xlsx"}
	assert.Equal(t, `required column "total" not found in new file "b.xlsx"`, err.Error())

	cause := errors.New("zip: not a valid zip file")
	mal := &MalformedInputError{File: "old", Err: cause}
	assert.ErrorIs(t, mal, cause)
	assert.Contains(t, mal.Error(), "old file is not a readable spreadsheet")

	unexp := &UnexpectedError{Err: cause}
	assert.Equal(t, cause.Error(), unexp.Error())
}
