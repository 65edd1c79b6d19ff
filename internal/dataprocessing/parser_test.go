package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cellsense/internal/shared/testutil"
)

func TestLoadTable_XLSX(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{"Date", "Description", "Amount", "Type"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Salary", 3000, "Income"},
		{time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "Groceries", "$120.50", "Expense"},
		{nil, nil, nil, nil},
		{time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), "Rent", -900, "expense"},
	})

	tbl, err := LoadTable(data, "statement.XLSX")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount", "Type"}, tbl.ColumnNames())
	require.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, KindDate, tbl.ColumnKind(0))
	assert.Equal(t, KindNumber, tbl.ColumnKind(2))

	d, ok := tbl.Rows[0][0].Date()
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", d.Format("2006-01-02"))

	v, ok := tbl.Rows[1][2].Number()
	require.True(t, ok)
	assert.Equal(t, 120.5, v)
}

func TestLoadTable_XLSXWithoutHeader(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{nil, 2024},
		{"Item", "Cost"},
		{"Rent", 1200},
	})

	tbl, err := LoadTable(data, "budget.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Item", "Cost"}, tbl.ColumnNames())
	require.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, "Rent", tbl.Rows[0][0].String())
}

func TestLoadTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{"unsupported extension", []byte("a,b\n1,2"), "data.csv", ErrUnsupportedFileType},
		{"corrupt xlsx", []byte("definitely not a zip"), "data.xlsx", ErrUnreadableSpreadsheet},
		{"corrupt xls", []byte("definitely not a workbook"), "data.xls", ErrUnreadableSpreadsheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := LoadTable(tt.data, tt.filename)
			assert.Nil(t, tbl)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("a.xlsx"))
	assert.True(t, IsSupportedFile("B.XLS"))
	assert.False(t, IsSupportedFile("c.csv"))
	assert.False(t, IsSupportedFile("xlsx"))
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name  string
		style excelize.Style
		want  bool
	}{
		{"builtin short date", excelize.Style{NumFmt: 14}, true},
		{"builtin datetime", excelize.Style{NumFmt: 22}, true},
		{"builtin number", excelize.Style{NumFmt: 2}, false},
		{"custom iso date", excelize.Style{CustomNumFmt: custom("yyyy-mm-dd")}, true},
		{"custom currency", excelize.Style{CustomNumFmt: custom(`[$$-409]#,##0.00;[Red]-#,##0.00`)}, false},
		{"quoted literal", excelize.Style{CustomNumFmt: custom(`0.00 "days"`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(&tt.style))
		})
	}
}

func TestLoadTable_SampleLedgerAnalysis(t *testing.T) {
	tbl, err := LoadTable(testutil.WorkbookBytes(t, testutil.SampleLedgerRows()), "ledger.xlsx")
	require.NoError(t, err)

	result := Analyze(tbl, nil)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 3500.0, result.FinancialSummary.TotalIncome)
	assert.Equal(t, 1215.0, result.FinancialSummary.TotalExpenses)
	assert.Len(t, result.Trends.ByMonth, 2)
}

func TestLoadTableWithStats_ReportsPromotion(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{nil, nil},
		{"Item", "Cost"},
		{"Rent", "1,200"},
		{"Snacks", "n/a"},
	})

	tbl, stats, err := LoadTableWithStats(data, "budget.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Item", "Cost"}, tbl.ColumnNames())
	assert.Equal(t, []string{"Cost"}, stats.CoercedColumns)
	assert.Equal(t, 1, stats.SkippedCells)

	_, _, err = LoadTableWithStats([]byte("x"), "budget.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
