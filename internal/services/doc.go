// Package services implements the business logic layer of CellSense.
// It sits between the HTTP handlers and the dataset store so that upload,
// analysis and question answering rules live in one testable place.
//
// # Services
//
//	- AnalysisService validates uploaded spreadsheets, loads them into
//	  normalized tables, analyzes them and stores the resulting datasets.
//	  It also re-runs analyses on demand with custom keywords.
//	- AssistantService answers questions about a dataset with canned,
//	  keyword-routed responses built from its stored analysis.
//	- HealthService reports liveness, readiness (dataset store) and
//	  version information.
//
// # Errors
//
// Services return *errors.AppError values typed for the HTTP error handler:
// unknown dataset IDs are NOT_FOUND, unreadable workbooks are PARSING,
// non-Excel uploads are UNSUPPORTED. Sentinels such as ErrDatasetNotFound
// stay reachable through errors.Is.
//
// # Observability
//
// Every service receives an injected *slog.Logger and adds a component
// attribute. AnalysisService and AssistantService record OpenTelemetry
// spans and counters through infrastructure.BusinessMetrics; nil tracers
// and metrics fall back to no-ops, which keeps tests free of exporters.
package services
