package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellsense/internal/shared/testutil"
)

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	sentinel := errors.New("dataset missing")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"deadline", fmt.Errorf("analyze: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, TypeTimeout},
		{"api validation", ErrValidation("data_id", "required"), http.StatusBadRequest, TypeValidation},
		{"api unsupported file", ErrUnsupportedFile, http.StatusBadRequest, TypeUnsupportedFile},
		{"api dataset", ErrDatasetNotFound, http.StatusNotFound, TypeDataNotFound},
		{"app not found", NewNotFoundError("dataset", sentinel), http.StatusNotFound, TypeDataNotFound},
		{"app parsing", NewParsingError("spreadsheet could not be read", nil), http.StatusUnprocessableEntity, TypeSpreadsheetUnreadable},
		{"app unsupported", NewUnsupportedError("only excel", nil), http.StatusBadRequest, TypeUnsupportedFile},
		{"app too large", NewTooLargeError("file too large", nil), http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"wrapped app error", fmt.Errorf("upload: %w", NewAppValidationError("bad", nil)), http.StatusBadRequest, TypeValidation},
		{"app storage", NewStorageError("store failed", nil), http.StatusInternalServerError, TypeInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/data/x", nil)
			problem := h.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/data/x", problem.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	r := httptest.NewRequest(http.MethodGet, "/api/data/abc", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-1"))
	w := httptest.NewRecorder()

	appErr := NewNotFoundError("dataset", nil).WithContext("data_id", "abc")
	h.HandleError(w, r, appErr)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeDataNotFound, body["type"])
	assert.Equal(t, "dataset not found", body["detail"])
	assert.Equal(t, "abc", body["data_id"])
	assert.Equal(t, "req-1", body["trace_id"])

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	h := NewErrorHandler(nil, false)
	w := httptest.NewRecorder()

	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewDatasetNotFoundProblem("42", "/api/data/42").WithExtension("type", "ignored")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeDataNotFound, body["type"], "standard fields win over extensions")
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "42", body["data_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	w := httptest.NewRecorder()

	RecoveryMiddleware(h)(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "kaboom")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorMiddleware_LogsFailedJSONBodies(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"data_id":"","token":"s3cret"}`))
	r.Header.Set("Content-Type", "application/json")

	m.Handler(failing).ServeHTTP(httptest.NewRecorder(), r)

	records := logs.GetRecords()
	require.NotEmpty(t, records)
	last := records[len(records)-1]
	assert.Equal(t, "request failed", last.Message)
	assert.Equal(t, int64(http.StatusBadRequest), last.Attrs["status"])
	assert.Contains(t, last.Attrs["request_body"], "[REDACTED]")
	assert.NotContains(t, last.Attrs["request_body"], "s3cret")
}

func TestErrorMiddleware_SkipsSuccessAndRecovers(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m.Handler(ok).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.False(t, logs.ContainsMessage("request failed"))

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	w := httptest.NewRecorder()
	m.Handler(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
