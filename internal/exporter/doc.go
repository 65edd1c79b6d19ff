// Package exporter writes analysis results as CSV.
//
// WriteCSV and StreamWriter handle the CSV encoding with an optional UTF-8
// BOM so Excel opens the files with the right encoding. SummaryRecords and
// TrendRecords turn analyzed files into rows:
//
//	records := exporter.SummaryRecords(files)
//	err := exporter.WriteCSV(os.Stdout, exporter.WriteOptions{
//	    Headers:   exporter.SummaryHeaders,
//	    Records:   records,
//	    BOMPrefix: true,
//	})
package exporter
