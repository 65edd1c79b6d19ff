// Package app wires CellSense together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. cmd/server loads configuration and initializes the logger
//	2. NewApplication sets up OpenTelemetry and business metrics
//	3. The in-memory dataset store and the services are created
//	4. The chi router is built with its middleware chain
//	5. The HTTP server is configured from the server section
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests
// within the configured shutdown timeout and flushes telemetry. Stored
// datasets live in memory only and are dropped on exit.
//
// The package never calls os.Exit; errors are returned to main.
package app
