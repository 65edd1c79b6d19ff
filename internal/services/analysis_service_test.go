package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cellsense/internal/dataprocessing"
	apierrors "cellsense/internal/errors"
	"cellsense/internal/shared/testutil"
	"cellsense/internal/store"
)

func TestAnalysisService_Upload(t *testing.T) {
	st := store.NewMemoryStore(0)
	svc := newTestAnalysisService(t, st)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.newID = func() string { return "11111111-1111-4111-8111-111111111111" }
	svc.now = func() time.Time { return fixed }

	ds, err := svc.Upload(context.Background(), UploadInput{
		Filename: "ledger.xlsx",
		Data:     testutil.WorkbookBytes(t, testutil.SampleLedgerRows()),
		Keywords: []string{"Netflix"},
	})
	require.NoError(t, err)

	assert.Equal(t, "11111111-1111-4111-8111-111111111111", ds.ID)
	assert.Equal(t, "ledger.xlsx", ds.Filename)
	assert.Equal(t, fixed, ds.UploadedAt)
	assert.Equal(t, 4, ds.Table.NumRows())
	require.NotNil(t, ds.Analysis)
	assert.Equal(t, 3500.0, ds.Analysis.FinancialSummary.TotalIncome)
	assert.Equal(t, 1215.0, ds.Analysis.FinancialSummary.TotalExpenses)
	assert.Contains(t, ds.Analysis.DetectedKeywords, "netflix")

	stored, err := st.Get(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Same(t, ds, stored)
}

func TestAnalysisService_UploadRejections(t *testing.T) {
	tests := []struct {
		name     string
		in       UploadInput
		wantType apierrors.ErrorType
		wantErr  error
	}{
		{
			name:     "unsupported extension",
			in:       UploadInput{Filename: "ledger.csv", Data: []byte("a,b\n1,2\n")},
			wantType: apierrors.ErrTypeUnsupported,
			wantErr:  dataprocessing.ErrUnsupportedFileType,
		},
		{
			name:     "empty file",
			in:       UploadInput{Filename: "ledger.xlsx"},
			wantType: apierrors.ErrTypeValidation,
		},
		{
			name:     "too large",
			in:       UploadInput{Filename: "ledger.xlsx", Data: make([]byte, 2<<20)},
			wantType: apierrors.ErrTypeTooLarge,
		},
		{
			name:     "corrupt workbook",
			in:       UploadInput{Filename: "ledger.xlsx", Data: []byte("definitely not a zip archive")},
			wantType: apierrors.ErrTypeParsing,
			wantErr:  dataprocessing.ErrUnreadableSpreadsheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore(0)
			svc := newTestAnalysisService(t, st)

			ds, err := svc.Upload(context.Background(), tt.in)
			require.Error(t, err)
			assert.Nil(t, ds)

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, st.Len())
		})
	}
}

func TestAnalysisService_UploadStorageFailure(t *testing.T) {
	st := new(MockDatasetStore)
	st.On("Save", mock.Anything, mock.AnythingOfType("*store.Dataset")).Return(errors.New("disk full"))
	svc := newTestAnalysisService(t, st)

	_, err := svc.Upload(context.Background(), UploadInput{
		Filename: "ledger.xlsx",
		Data:     testutil.WorkbookBytes(t, testutil.SampleLedgerRows()),
	})

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
	st.AssertExpectations(t)
}

func TestAnalysisService_GetDataset(t *testing.T) {
	svc := newTestAnalysisService(t, store.NewMemoryStore(0))
	ds := uploadLedger(t, svc)

	got, err := svc.GetDataset(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, got.ID)

	_, err = svc.GetDataset(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeNotFound, appErr.Type)
	assert.Equal(t, "missing", appErr.Context["data_id"])
}

func TestAnalysisService_GetDatasetStoreFailure(t *testing.T) {
	st := new(MockDatasetStore)
	st.On("Get", mock.Anything, "abc").Return(nil, context.DeadlineExceeded)
	svc := newTestAnalysisService(t, st)

	_, err := svc.GetDataset(context.Background(), "abc")
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalysisService_AnalyzeKeepsStoredResult(t *testing.T) {
	svc := newTestAnalysisService(t, store.NewMemoryStore(0))
	ds := uploadLedger(t, svc)
	before := ds.Analysis.DetectedKeywords

	result, err := svc.Analyze(context.Background(), ds.ID, []string{"Bonus", "Housing"})
	require.NoError(t, err)
	assert.Contains(t, result.DetectedKeywords, "housing")
	assert.Equal(t, ds.Analysis.FinancialSummary, result.FinancialSummary)

	assert.Equal(t, before, ds.Analysis.DetectedKeywords)
	assert.NotContains(t, ds.Analysis.DetectedKeywords, "housing")
}

func TestAnalysisService_AnalyzeUnknownDataset(t *testing.T) {
	svc := newTestAnalysisService(t, store.NewMemoryStore(0))

	result, err := svc.Analyze(context.Background(), "nope", nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestStrategyLabel(t *testing.T) {
	assert.Equal(t, "none", strategyLabel(""))
	assert.Equal(t, "separate_columns", strategyLabel("separate_columns"))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "INTERNAL", errorType(errors.New("boom")))
	assert.Equal(t, "PARSING", errorType(apierrors.NewParsingError("bad", nil)))
}
