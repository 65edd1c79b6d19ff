// Package config loads CellSense configuration.
//
// Values are resolved in three layers, later layers winning:
//
//	1. Default()
//	2. a YAML file (CELLSENSE_CONFIG_FILE, or config.yaml / configs/config.yaml)
//	3. CELLSENSE_* environment variables
//
// Nested sections map to underscore-joined names:
//
//	CELLSENSE_SERVER_PORT=8000
//	CELLSENSE_SERVER_MAX_UPLOAD_BYTES=33554432
//	CELLSENSE_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:5173
//	CELLSENSE_LOGGING_LEVEL=debug
//	CELLSENSE_ANALYSIS_DEFAULT_KEYWORDS=rent,netflix
//	CELLSENSE_TELEMETRY_ENABLE_TRACING=true
//
// Load validates the merged result with go-playground/validator tags and
// returns an error rather than silently correcting bad values.
package config
