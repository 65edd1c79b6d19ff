package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"unique names untouched", []string{"A", "B"}, []string{"A", "B"}},
		{"repeats suffixed", []string{"A", "A", "A"}, []string{"A", "A (2)", "A (3)"}},
		{"blanks become Column", []string{"", " ", "X"}, []string{"Column", "Column (2)", "X"}},
		{"counts per base name", []string{"A", "B", "A", "B"}, []string{"A", "B", "A (2)", "B (2)"}},
		{"suffix collision", []string{"A", "A (2)", "A"}, []string{"A", "A (2)", "A (3)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeNames(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DedupeNames(got), "deduping unique names is idempotent")
		})
	}
}

func TestNormalize_HeaderRow(t *testing.T) {
	grid := [][]Cell{
		{null(), null(), null()},
		{txt("Date"), txt(" Description "), txt("Amount")},
		{day(2024, 1, 5), txt("Coffee"), num(4.5)},
		{day(2024, 1, 6), txt("Lunch"), txt("$12.00")},
	}

	tbl, stats := NormalizeWithStats(grid)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, tbl.ColumnNames())
	require.Equal(t, 2, tbl.NumRows())
	v, ok := tbl.Rows[1][2].Number()
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)
	assert.False(t, stats.HeaderlessFallback)
	assert.False(t, stats.PromotedHeader)
	assert.Equal(t, []string{"Amount"}, stats.CoercedColumns)
}

func TestNormalize_DropsOnlyEmptyRowsAndColumns(t *testing.T) {
	grid := [][]Cell{
		{txt("A"), txt("B"), txt("C")},
		{num(1), null(), txt("x")},
		{null(), null(), null()},
		{num(2), null(), txt("y")},
	}

	tbl, stats := NormalizeWithStats(grid)

	assert.Equal(t, []string{"A", "C"}, tbl.ColumnNames())
	assert.Equal(t, [][]Cell{{num(1), txt("x")}, {num(2), txt("y")}}, tbl.Rows)
	assert.Equal(t, 1, stats.DroppedRows)
	assert.Equal(t, 1, stats.DroppedColumns)
}

func TestNormalize_PromotesHeaderWhenNoRealHeader(t *testing.T) {
	grid := [][]Cell{
		{null(), num(5)},
		{txt(" Label "), null()},
		{txt("x"), num(10)},
	}

	tbl, stats := NormalizeWithStats(grid)

	assert.True(t, stats.PromotedHeader)
	assert.Equal(t, []string{"Label", "Column 2"}, tbl.ColumnNames())
	assert.Equal(t, [][]Cell{{txt("x"), num(10)}}, tbl.Rows)
}

func TestNormalize_NumericRowIsNotPromoted(t *testing.T) {
	grid := [][]Cell{
		{null(), num(1)},
		{num(3), num(4)},
	}

	tbl := Normalize(grid)

	assert.Equal(t, []string{"Unnamed: 0", "1"}, tbl.ColumnNames())
	assert.Equal(t, 1, tbl.NumRows())
}

func TestNormalize_HeaderOnlySheetFallsBackAndPromotes(t *testing.T) {
	grid := [][]Cell{
		{txt("Only"), txt("Header")},
	}

	tbl, stats := NormalizeWithStats(grid)

	assert.True(t, stats.HeaderlessFallback)
	assert.True(t, stats.PromotedHeader)
	assert.Equal(t, []string{"Only", "Header"}, tbl.ColumnNames())
	assert.Equal(t, 0, tbl.NumRows())
}

func TestNormalize_NumericHeadersRenderAsIntegers(t *testing.T) {
	grid := [][]Cell{
		{num(2023), txt("Name")},
		{num(1), txt("a")},
	}

	tbl := Normalize(grid)

	assert.Equal(t, []string{"2023", "Name"}, tbl.ColumnNames())
}

func TestNormalize_CoercionSkipsBecomeEmpty(t *testing.T) {
	grid := [][]Cell{
		{txt("Total Cost"), txt("Note")},
		{txt("$1,200.50"), txt("rent")},
		{txt("n/a"), txt("misc")},
		{txt("(75)"), txt("refund")},
	}

	tbl, stats := NormalizeWithStats(grid)

	assert.Equal(t, KindNumber, tbl.ColumnKind(0))
	assert.Equal(t, []Cell{num(1200.5), null(), num(-75)}, []Cell{tbl.Rows[0][0], tbl.Rows[1][0], tbl.Rows[2][0]})
	assert.Equal(t, 1, stats.SkippedCells)
	assert.Equal(t, KindText, tbl.ColumnKind(1))
}

func TestNormalize_EmptyGrid(t *testing.T) {
	for _, grid := range [][][]Cell{nil, {{null(), null()}}} {
		tbl := Normalize(grid)
		assert.Empty(t, tbl.ColumnNames())
		assert.Equal(t, 0, tbl.NumRows())
		assert.NotNil(t, tbl.Rows)
	}
}

func TestNormalize_PadsShortRows(t *testing.T) {
	grid := [][]Cell{
		{txt("A"), txt("B")},
		{num(1)},
		{num(2), txt("z")},
	}

	tbl := Normalize(grid)

	require.Equal(t, 2, tbl.NumRows())
	for _, row := range tbl.Rows {
		assert.Len(t, row, 2)
	}
	assert.True(t, tbl.Rows[0][1].IsEmpty())
}
