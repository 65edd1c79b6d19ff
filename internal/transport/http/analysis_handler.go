package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "cellsense/internal/errors"
	cellmw "cellsense/internal/middleware"
	"cellsense/internal/services"
	"cellsense/internal/store"
	api "cellsense/pkg/contracts/api/v1"
	"cellsense/pkg/contracts/domain"
)

// multipartOverhead is headroom above the file limit for form boundaries
// and the keywords fields.
const multipartOverhead = 1 << 20

// DatasetService is the upload and analysis side of the service layer.
type DatasetService interface {
	Upload(ctx context.Context, in services.UploadInput) (*store.Dataset, error)
	GetDataset(ctx context.Context, id string) (*store.Dataset, error)
	Analyze(ctx context.Context, id string, keywords []string) (*domain.AnalysisResult, error)
}

// Assistant answers questions about datasets.
type Assistant interface {
	Ask(ctx context.Context, dataID, question string) (domain.Answer, error)
}

// AnalysisHandler serves the upload, data, analyze and ask-ai endpoints.
type AnalysisHandler struct {
	datasets       DatasetService
	assistant      Assistant
	validator      *cellmw.Validator
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewAnalysisHandler creates the handler. maxUploadBytes bounds the spreadsheet size.
func NewAnalysisHandler(
	datasets DatasetService,
	assistant Assistant,
	validator *cellmw.Validator,
	errorHandler *apierrors.ErrorHandler,
	maxUploadBytes int64,
	logger *slog.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		datasets:       datasets,
		assistant:      assistant,
		validator:      validator,
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("handler", "analysis")),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers the dataset routes on the /api router.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.With(cellmw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/upload", h.Upload)
		r.Get("/data/{dataID}", h.GetData)

		r.Group(func(r chi.Router) {
			r.Use(cellmw.ContentTypeValidator(h.errorHandler, "application/json"))
			r.Post("/analyze", h.Analyze)
			r.Post("/ask-ai", h.Ask)
		})
	})
}

// Upload handles POST /api/upload
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.NewTooLargeError(
				fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes), err,
			).WithContext("max_bytes", h.maxUploadBytes))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	ds, err := h.datasets.Upload(r.Context(), services.UploadInput{
		Filename: filepath.Base(header.Filename),
		Data:     data,
		Keywords: formKeywords(r.MultipartForm.Value["keywords"]),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "upload accepted",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("data_id", ds.ID),
		slog.String("filename", ds.Filename))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.UploadResponse{
		Message:  "File uploaded successfully",
		DataID:   ds.ID,
		Filename: ds.Filename,
		Columns:  ds.Table.ColumnNames(),
		RowCount: ds.Table.NumRows(),
		Data:     ds.Table.Records(),
		Analysis: ds.Analysis,
	})
}

// GetData handles GET /api/data/{dataID}
func (h *AnalysisHandler) GetData(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.GetDataset(r.Context(), chi.URLParam(r, "dataID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.DataResponse{
		Filename: ds.Filename,
		Columns:  ds.Table.ColumnNames(),
		Data:     ds.Table.Records(),
		Analysis: ds.Analysis,
	})
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.datasets.Analyze(r.Context(), req.DataID, req.CustomKeywords)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.AnalyzeResponse{
		Summary:    result,
		Trends:     result.Trends,
		Categories: result.CategorizedExpenses,
	})
}

// Ask handles POST /api/ask-ai
func (h *AnalysisHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req api.AskRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.DataID, req.Question)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.AskResponse{Answer: answer, DataID: req.DataID})
}

// formKeywords accepts repeated fields and comma separated lists.
func formKeywords(values []string) []string {
	var out []string
	for _, v := range values {
		for _, kw := range strings.Split(v, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				out = append(out, kw)
			}
		}
	}
	return out
}
