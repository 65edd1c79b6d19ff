package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cellsense/internal/dataprocessing"
	"cellsense/internal/shared/testutil"
	"cellsense/internal/store"
	"cellsense/internal/validation"
)

// MockDatasetStore is a mock for the DatasetStore interface
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Save(ctx context.Context, ds *store.Dataset) error {
	return m.Called(ctx, ds).Error(0)
}

func (m *MockDatasetStore) Get(ctx context.Context, id string) (*store.Dataset, error) {
	args := m.Called(ctx, id)
	ds, _ := args.Get(0).(*store.Dataset)
	return ds, args.Error(1)
}

func (m *MockDatasetStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDatasetStore) List(ctx context.Context) ([]*store.Dataset, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*store.Dataset)
	return list, args.Error(1)
}

func (m *MockDatasetStore) Len() int {
	return m.Called().Int(0)
}

// newTestAnalysisService builds a service over st with a 1 MiB upload limit.
func newTestAnalysisService(t *testing.T, st store.DatasetStore) *AnalysisService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := NewAnalysisService(
		st,
		dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig()),
		validation.NewFileValidator(1<<20, logger),
		nil, nil, logger,
	)
	require.NotNil(t, svc)
	return svc
}

func uploadLedger(t *testing.T, svc *AnalysisService) *store.Dataset {
	t.Helper()
	ds, err := svc.Upload(context.Background(), UploadInput{
		Filename: "ledger.xlsx",
		Data:     testutil.WorkbookBytes(t, testutil.SampleLedgerRows()),
	})
	require.NoError(t, err)
	return ds
}

var ctxMatcher = mock.MatchedBy(func(context.Context) bool { return true })
