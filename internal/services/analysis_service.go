package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"cellsense/internal/dataprocessing"
	apierrors "cellsense/internal/errors"
	"cellsense/internal/infrastructure"
	"cellsense/internal/store"
	"cellsense/internal/validation"
	"cellsense/pkg/contracts/domain"
)

// UploadInput is one spreadsheet received from a client.
type UploadInput struct {
	Filename string
	Data     []byte
	Keywords []string
}

// AnalysisService turns uploaded spreadsheets into stored, analyzed datasets.
type AnalysisService struct {
	store     store.DatasetStore
	analyzer  *dataprocessing.Analyzer
	validator *validation.FileValidator
	tracer    trace.Tracer
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger

	newID func() string
	now   func() time.Time
}

// NewAnalysisService wires the service. Nil tracer or metrics fall back to no-ops.
func NewAnalysisService(
	st store.DatasetStore,
	analyzer *dataprocessing.Analyzer,
	fileValidator *validation.FileValidator,
	tracer trace.Tracer,
	metrics *infrastructure.BusinessMetrics,
	logger *slog.Logger,
) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	if tracer == nil {
		tracer = noopTracer()
	}
	return &AnalysisService{
		store:     st,
		analyzer:  analyzer,
		validator: fileValidator,
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "analysis_service")),
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// Upload validates, parses, analyzes and stores a spreadsheet.
func (s *AnalysisService) Upload(ctx context.Context, in UploadInput) (ds *store.Dataset, err error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.Upload",
		trace.WithAttributes(
			attribute.String("file.name", in.Filename),
			attribute.Int("file.size", len(in.Data)),
		))
	defer func() {
		outcome := "stored"
		if err != nil {
			outcome = "rejected"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.AnalysisErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", errorType(err))))
		}
		s.metrics.UploadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		span.End()
	}()

	if err := s.validator.ValidateUpload(in.Filename, int64(len(in.Data))); err != nil {
		return nil, err
	}
	s.metrics.UploadBytes.Add(ctx, int64(len(in.Data)))

	table, stats, err := dataprocessing.LoadTableWithStats(in.Data, in.Filename)
	if err != nil {
		s.logger.WarnContext(ctx, "spreadsheet rejected",
			slog.String("filename", in.Filename),
			slog.String("error", err.Error()))
		if errors.Is(err, dataprocessing.ErrUnsupportedFileType) {
			return nil, apierrors.NewUnsupportedError("Only Excel files (.xlsx, .xls) are supported", err).
				WithContext("filename", in.Filename)
		}
		return nil, apierrors.NewParsingError("Spreadsheet could not be read", err).
			WithContext("filename", in.Filename)
	}
	if stats.SkippedCells > 0 {
		s.logger.DebugContext(ctx, "non-numeric cells skipped during coercion",
			slog.Int("skipped_cells", stats.SkippedCells),
			slog.Any("columns", stats.CoercedColumns))
	}

	result := s.runAnalysis(ctx, table, in.Keywords)

	ds = &store.Dataset{
		ID:         s.newID(),
		Filename:   in.Filename,
		Table:      table,
		Analysis:   result,
		Keywords:   in.Keywords,
		SizeBytes:  int64(len(in.Data)),
		UploadedAt: s.now(),
	}
	if err := s.store.Save(ctx, ds); err != nil {
		return nil, apierrors.NewStorageError("failed to store dataset", err)
	}

	s.metrics.DatasetsStored.Add(ctx, 1)
	s.metrics.UploadRows.Record(ctx, int64(table.NumRows()))
	span.SetAttributes(attribute.String("dataset.id", ds.ID), attribute.Int("dataset.rows", table.NumRows()))

	s.logger.InfoContext(ctx, "dataset stored",
		slog.String("data_id", ds.ID),
		slog.String("filename", ds.Filename),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", len(table.Columns)),
		slog.Bool("headerless", stats.HeaderlessFallback),
		slog.Bool("promoted_header", stats.PromotedHeader))

	return ds, nil
}

// GetDataset returns a stored dataset by ID.
func (s *AnalysisService) GetDataset(ctx context.Context, id string) (*store.Dataset, error) {
	ds, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrDatasetNotFound) {
			return nil, apierrors.NewNotFoundError("Data", ErrDatasetNotFound).WithContext("data_id", id)
		}
		return nil, apierrors.NewStorageError("failed to load dataset", err)
	}
	return ds, nil
}

// Analyze re-runs the analysis of a stored dataset with extra keywords.
// The stored upload-time analysis is left unchanged.
func (s *AnalysisService) Analyze(ctx context.Context, id string, keywords []string) (*domain.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.Analyze", trace.WithAttributes(attribute.String("dataset.id", id)))
	defer span.End()

	ds, err := s.GetDataset(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.AnalysisErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", errorType(err))))
		return nil, err
	}

	return s.runAnalysis(ctx, ds.Table, keywords), nil
}

func (s *AnalysisService) runAnalysis(ctx context.Context, table *dataprocessing.Table, keywords []string) *domain.AnalysisResult {
	start := time.Now()
	result, strategy := s.analyzer.AnalyzeWithStrategy(ctx, table, keywords)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("strategy", strategyLabel(strategy)))
	s.metrics.AnalysisRunsTotal.Add(ctx, 1, attrs)
	s.metrics.AnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)

	return result
}

func strategyLabel(strategy string) string {
	if strategy == "" {
		return "none"
	}
	return strategy
}

func errorType(err error) string {
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return "INTERNAL"
}
