// Package store keeps uploaded datasets between requests.
package store

import (
	"context"
	"errors"
	"time"

	"cellsense/internal/dataprocessing"
	"cellsense/pkg/contracts/domain"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrDatasetExists   = errors.New("dataset already exists")
)

// Dataset is one uploaded spreadsheet. Table is never mutated after Save.
type Dataset struct {
	ID         string
	Filename   string
	Table      *dataprocessing.Table
	Analysis   *domain.AnalysisResult
	Keywords   []string
	SizeBytes  int64
	UploadedAt time.Time
}

// DatasetStore persists datasets by ID.
type DatasetStore interface {
	Save(ctx context.Context, ds *Dataset) error
	Get(ctx context.Context, id string) (*Dataset, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Dataset, error)
	Len() int
}
