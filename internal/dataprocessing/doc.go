// Package dataprocessing turns uploaded spreadsheets into financial analyses.
//
// # Architecture
//
// The package is organized into a loading stage and an analysis stage:
//
// 1. Parser: reads the first worksheet of an .xlsx or .xls workbook into a raw cell grid
// 2. Normalizer: finds the header row, drops empty rows and columns, dedupes names and coerces amounts
// 3. Classifier: assigns income, expense, amount, type and category roles from column names
// 4. Aggregator: totals income and expenses with an ordered list of strategies
// 5. Keywords, trends and statistics: vocabulary scan, monthly buckets and per-column stats
//
// # Usage
//
//	table, err := dataprocessing.LoadTable(data, "statement.xlsx")
//	if err != nil {
//	    return err
//	}
//	result := dataprocessing.Analyze(table, []string{"netflix"})
//
// Services that want logging use an Analyzer:
//
//	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig())
//	result := analyzer.Analyze(ctx, table, keywords)
//
// # Data Flow
//
//	Workbook bytes → Grid → Normalizer → Table → {Classifier → Aggregator, Keywords, Trends, Stats} → AnalysisResult
//
// # Error Handling
//
// Only loading can fail. Unreadable workbooks return ErrUnreadableSpreadsheet and
// unknown extensions return ErrUnsupportedFileType. Cells that cannot be coerced
// become empty; missing columns make a stage return zero values.
package dataprocessing
