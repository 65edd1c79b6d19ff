package exporter

import (
	"cellsense/pkg/contracts/domain"
)

// SummaryHeaders are the columns of a summary export, one row per file.
var SummaryHeaders = []string{
	"file", "rows", "columns", "total_income", "total_expenses", "net_balance",
	"months", "top_category", "keywords", "error",
}

// TrendHeaders are the columns of a trends export, one row per file and month.
var TrendHeaders = []string{"file", "month", "value"}

// FileAnalysis is one analyzed (or failed) spreadsheet.
type FileAnalysis struct {
	File     string
	Rows     int
	Columns  []string
	Analysis *domain.AnalysisResult
	Err      string
}

// SummaryRecords builds one summary row per file. Failed files keep their
// name and error with empty figures.
func SummaryRecords(files []FileAnalysis) [][]string {
	records := make([][]string, 0, len(files))
	for _, f := range files {
		if f.Analysis == nil {
			records = append(records, []string{f.File, "", "", "", "", "", "", "", "", f.Err})
			continue
		}
		fs := f.Analysis.FinancialSummary
		records = append(records, []string{
			f.File,
			formatInt(f.Rows),
			formatInt(len(f.Columns)),
			formatAmount(fs.TotalIncome),
			formatAmount(fs.TotalExpenses),
			formatAmount(fs.NetBalance),
			formatInt(len(f.Analysis.Trends.ByMonth)),
			topCategory(f.Analysis.CategorizedExpenses),
			formatList(f.Analysis.DetectedKeywords),
			f.Err,
		})
	}
	return records
}

// TrendRecords flattens every file's monthly trend.
func TrendRecords(files []FileAnalysis) [][]string {
	var records [][]string
	for _, f := range files {
		if f.Analysis == nil {
			continue
		}
		for _, m := range f.Analysis.Trends.ByMonth {
			records = append(records, []string{f.File, m.Month, formatAmount(m.Value)})
		}
	}
	return records
}

// topCategory is the category with the largest absolute amount; ties keep
// the earlier (alphabetical) category.
func topCategory(categories []domain.CategoryAmount) string {
	best, bestAbs := "", -1.0
	for _, c := range categories {
		abs := c.Amount
		if abs < 0 {
			abs = -abs
		}
		if abs > bestAbs {
			best, bestAbs = c.Category, abs
		}
	}
	return best
}
