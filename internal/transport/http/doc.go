// Package http implements the HTTP handlers of the CellSense API.
// Handlers stay thin: they decode and validate requests, call the service
// layer and render JSON with go-chi/render. Failures go through
// errors.ErrorHandler and are answered as RFC 7807 problem details.
//
// # Endpoints
//
//	GET  /                    service banner
//	POST /api/upload          multipart spreadsheet upload ("file", "keywords")
//	GET  /api/data/{dataID}   stored dataset and its analysis
//	POST /api/analyze         re-analysis with custom keywords
//	POST /api/ask-ai          keyword-routed question answering
//	GET  /api/health          health, readiness, liveness and version
//	GET  /metrics             Prometheus exposition
//
// Handlers depend on small interfaces (DatasetService, Assistant) so tests
// can substitute testify mocks.
package http
