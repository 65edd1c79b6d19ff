// Package api contains the request and response contracts of the CellSense HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"cellsense/pkg/contracts/domain"
)

// AnalyzeRequest re-analyzes a stored dataset with extra keywords.
type AnalyzeRequest struct {
	DataID         string   `json:"data_id" validate:"required,uuid"`
	CustomKeywords []string `json:"custom_keywords" validate:"omitempty,max=100,dive,max=64"`
}

// AskRequest is a free-form question, optionally about one dataset.
type AskRequest struct {
	DataID   string `json:"data_id,omitempty" validate:"omitempty,uuid"`
	Question string `json:"question" validate:"required,min=1,max=1000"`
}

// BannerResponse is served at the API root.
type BannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// UploadResponse describes a freshly stored dataset.
type UploadResponse struct {
	Message  string                 `json:"message"`
	DataID   string                 `json:"data_id"`
	Filename string                 `json:"filename"`
	Columns  []string               `json:"columns"`
	RowCount int                    `json:"row_count"`
	Data     any                    `json:"data"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

// DataResponse is a stored dataset and its upload-time analysis.
// Data holds one JSON object per row with keys in column order.
type DataResponse struct {
	Filename string                 `json:"filename"`
	Columns  []string               `json:"columns"`
	Data     any                    `json:"data"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

// AnalyzeResponse is the on-demand analysis of a stored dataset.
type AnalyzeResponse struct {
	Summary    *domain.AnalysisResult  `json:"summary"`
	Trends     domain.Trends           `json:"trends"`
	Categories []domain.CategoryAmount `json:"categories"`
}

// AskResponse wraps an assistant answer.
type AskResponse struct {
	domain.Answer
	DataID string `json:"data_id,omitempty"`
}
