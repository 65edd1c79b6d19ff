package services

import (
	"errors"

	"cellsense/internal/store"
)

var (
	// ErrDatasetNotFound is returned for unknown or evicted dataset IDs.
	ErrDatasetNotFound = store.ErrDatasetNotFound

	// ErrEmptyQuestion is returned when the assistant receives only whitespace.
	ErrEmptyQuestion = errors.New("question is empty")
)
