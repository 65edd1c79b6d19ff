// Command analyze runs the CellSense analysis over spreadsheet files and
// prints the results as JSON or CSV. Directories are expanded to the
// spreadsheets they contain.
//
//	analyze -keywords "netflix,gym" statements/ extra.xlsx
//	analyze -format csv -out summary.csv statements/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"cellsense/internal/config"
	"cellsense/internal/dataprocessing"
	"cellsense/internal/exporter"
	"cellsense/internal/infrastructure"
	"cellsense/internal/validation"
	"cellsense/pkg/contracts/domain"
)

// fileResult is the per-file output. Exactly one of Analysis and Error is set.
type fileResult struct {
	File     string                 `json:"file"`
	Rows     int                    `json:"rows"`
	Columns  []string               `json:"columns"`
	Strategy string                 `json:"strategy,omitempty"`
	Analysis *domain.AnalysisResult `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code: 0 on success, 1 when any file
// failed, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defaults := config.Default()

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	keywords := fs.String("keywords", "", "comma separated custom keywords")
	concurrency := fs.Int("concurrency", runtime.NumCPU(), "files analyzed in parallel")
	maxBytes := fs.Int64("max-bytes", defaults.Server.MaxUploadBytes, "largest accepted file in bytes")
	logLevel := fs.String("log-level", "warn", "log level written to stderr")
	compact := fs.Bool("compact", false, "print compact JSON")
	format := fs.String("format", "json", "output format: json, csv (one summary row per file) or trends (CSV of monthly values)")
	outPath := fs.String("out", "", "write results to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *format != "json" && *format != "csv" && *format != "trends" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: analyze [flags] file.xlsx|dir ...")
		fs.PrintDefaults()
		return 2
	}

	logger := infrastructure.NewLogger(stderr, *logLevel).With(slog.String("component", "analyze_cli"))
	validator := validation.NewFileValidator(*maxBytes, logger)

	paths, err := validator.ExpandInputs(fs.Args())
	if err != nil {
		logger.Error("invalid input", slog.String("error", err.Error()))
		return 2
	}

	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.AnalyzerConfig{
		DefaultKeywords: defaults.Analysis.DefaultKeywords,
		ValueSampleSize: defaults.Analysis.ValueSampleSize,
	})
	custom := splitKeywords(*keywords)

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *concurrency))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(gctx, validator, analyzer, path, custom)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("analysis interrupted", slog.String("error", err.Error()))
		return 1
	}

	if err := writeOutput(stdout, *outPath, *format, *compact, results); err != nil {
		logger.Error("failed to write results", slog.String("error", err.Error()))
		return 1
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	logger.Info("analysis finished", slog.Int("files", len(results)), slog.Int("failed", failed))
	if failed > 0 {
		return 1
	}
	return 0
}

// createOutput opens the -out file. Replaced in tests.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeOutput writes to stdout, or to path when set. A failed close is
// reported since buffered data may not have reached the disk.
func writeOutput(stdout io.Writer, path, format string, compact bool, results []fileResult) (err error) {
	if path == "" {
		return writeResults(stdout, format, compact, results)
	}

	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", path, cerr)
		}
	}()
	return writeResults(f, format, compact, results)
}

func writeResults(w io.Writer, format string, compact bool, results []fileResult) error {
	switch format {
	case "csv":
		return exporter.WriteCSV(w, exporter.WriteOptions{
			Headers:   exporter.SummaryHeaders,
			Records:   exporter.SummaryRecords(toExport(results)),
			BOMPrefix: true,
		})
	case "trends":
		sw, err := exporter.NewStreamWriter(w, exporter.TrendHeaders, true)
		if err != nil {
			return err
		}
		for _, rec := range exporter.TrendRecords(toExport(results)) {
			if err := sw.WriteRecord(rec); err != nil {
				return err
			}
		}
		return sw.Flush()
	default:
		enc := json.NewEncoder(w)
		if !compact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(results)
	}
}

func toExport(results []fileResult) []exporter.FileAnalysis {
	out := make([]exporter.FileAnalysis, len(results))
	for i, r := range results {
		out[i] = exporter.FileAnalysis{
			File:     r.File,
			Rows:     r.Rows,
			Columns:  r.Columns,
			Analysis: r.Analysis,
			Err:      r.Error,
		}
	}
	return out
}

func analyzeFile(ctx context.Context, v *validation.FileValidator, a *dataprocessing.Analyzer, path string, keywords []string) fileResult {
	res := fileResult{File: path, Columns: []string{}}

	if err := v.ValidateFile(path); err != nil {
		res.Error = err.Error()
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	table, _, err := dataprocessing.LoadTableWithStats(data, path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Rows = table.NumRows()
	res.Columns = table.ColumnNames()
	res.Analysis, res.Strategy = a.AnalyzeWithStrategy(ctx, table, keywords)
	return res
}

func splitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
