package http

import (
	"net/http"

	"github.com/go-chi/render"

	"cellsense/pkg/contracts"
	api "cellsense/pkg/contracts/api/v1"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the exporter's handler. A nil handler means
// metrics are disabled and the endpoint answers 404.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		http.NotFound(w, r)
		return
	}
	h.exposition.ServeHTTP(w, r)
}

// Banner handles GET /
func Banner(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.BannerResponse{
		Message: contracts.ServiceName + " API is running",
		Version: contracts.Version,
	})
}
