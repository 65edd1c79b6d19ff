package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// WorkbookBytes writes rows to the first sheet of a new .xlsx workbook
// starting at A1 and returns the encoded file.
func WorkbookBytes(t testing.TB, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// SampleLedgerRows is a small transaction ledger spanning two months:
// income 3500, expenses 1215.
func SampleLedgerRows() [][]any {
	date := func(m time.Month, d int) time.Time {
		return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
	}
	return [][]any{
		{"Date", "Description", "Category", "Amount", "Type"},
		{date(time.January, 3), "Salary", "Work", 3000, "Income"},
		{date(time.January, 9), "Rent payment", "Housing", -1200, "Expense"},
		{date(time.February, 1), "Netflix", "Leisure", -15, "expense"},
		{date(time.February, 5), "Bonus", "Work", 500, "income"},
	}
}
