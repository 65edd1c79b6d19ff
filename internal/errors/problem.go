package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions are merged into the top-level JSON object
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON flattens extensions into the problem object
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, len(pd.Extensions)+5)
	for k, v := range pd.Extensions {
		data[k] = v
	}

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// NewUnreadableSpreadsheetProblem reports an upload that is not a workbook.
func NewUnreadableSpreadsheetProblem(filename, instance string) *ProblemDetails {
	return NewProblemDetails(
		http.StatusUnprocessableEntity,
		TypeSpreadsheetUnreadable,
		"Unreadable Spreadsheet",
		"The uploaded file could not be read as an Excel workbook",
		instance,
	).WithExtension("filename", filename)
}

// NewDatasetNotFoundProblem reports an unknown dataset identifier.
func NewDatasetNotFoundProblem(dataID, instance string) *ProblemDetails {
	return NewProblemDetails(
		http.StatusNotFound,
		TypeDataNotFound,
		"Data Not Found",
		"No uploaded data exists for the given identifier",
		instance,
	).WithExtension("data_id", dataID)
}
