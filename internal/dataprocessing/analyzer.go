package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"cellsense/pkg/contracts/domain"
)

// AnalyzerConfig holds configuration options for the Analyzer.
type AnalyzerConfig struct {
	DefaultKeywords []string // Added to every request's custom keywords
	ValueSampleSize int      // Distinct text values scanned per column
}

// DefaultAnalyzerConfig returns the configuration used by Analyze.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{ValueSampleSize: DefaultValueSampleSize}
}

// Analyzer runs the analysis pipeline over normalized tables. It holds no
// per-table state and is safe for concurrent use.
type Analyzer struct {
	logger          *slog.Logger
	defaultKeywords []string
	sampleSize      int
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ValueSampleSize <= 0 {
		config.ValueSampleSize = DefaultValueSampleSize
	}
	return &Analyzer{
		logger:          logger.With(slog.String("component", "analyzer")),
		defaultKeywords: append([]string(nil), config.DefaultKeywords...),
		sampleSize:      config.ValueSampleSize,
	}
}

// Analyze computes the analysis of t with the given custom keywords.
// It never fails; tables without usable columns produce zero values.
func Analyze(t *Table, customKeywords []string) *domain.AnalysisResult {
	return analyze(t, customKeywords, DefaultValueSampleSize, nil)
}

// Analyze computes the analysis of t, logging which aggregation strategy
// produced the totals.
func (a *Analyzer) Analyze(ctx context.Context, t *Table, customKeywords []string) *domain.AnalysisResult {
	result, _ := a.AnalyzeWithStrategy(ctx, t, customKeywords)
	return result
}

// AnalyzeWithStrategy is Analyze that also reports the name of the
// aggregation strategy used, or "" when no strategy found a nonzero total.
func (a *Analyzer) AnalyzeWithStrategy(ctx context.Context, t *Table, customKeywords []string) (*domain.AnalysisResult, string) {
	start := time.Now()
	keywords := append(append([]string(nil), a.defaultKeywords...), customKeywords...)

	var strategy string
	result := analyze(t, keywords, a.sampleSize, &strategy)

	a.logger.DebugContext(ctx, "table analyzed",
		slog.Int("rows", result.TotalRows),
		slog.Int("columns", len(result.Columns)),
		slog.String("strategy", strategy),
		slog.Int("keywords_detected", len(result.DetectedKeywords)),
		slog.Duration("duration", time.Since(start)))
	return result, strategy
}

func analyze(t *Table, keywords []string, sampleSize int, strategy *string) *domain.AnalysisResult {
	if t == nil {
		t = &Table{}
	}
	names := t.ColumnNames()
	summary, used := Summarize(t, ClassifyColumns(names))
	if strategy != nil {
		*strategy = used
	}

	return &domain.AnalysisResult{
		TotalRows:           t.NumRows(),
		Columns:             names,
		NumericColumns:      ColumnStatistics(t),
		DetectedKeywords:    NewKeywordDetector(keywords, sampleSize).Detect(t),
		FinancialSummary:    summary,
		Trends:              domain.Trends{ByMonth: MonthlyTrend(t)},
		CategorizedExpenses: CategorizedExpenses(t),
	}
}
