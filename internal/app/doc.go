// Package app provides initialization and lifecycle management for the
// read-only market query server. It wires configuration, logging,
// OpenTelemetry, the DuckDB store and the HTTP transport together.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//  1. Load configuration from environment and files
//  2. Initialize logging and observability
//  3. Open the market store read-only
//  4. Set up HTTP handlers and middleware
//  5. Configure and start the HTTP server
//  6. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure:
//
//   - Active requests are completed
//   - The store connection pool is closed
//   - Final metrics are flushed
//
// # Error Handling
//
// All initialization errors are returned to the caller for proper
// handling. The app does not call os.Exit() directly, allowing
// the main function to control the exit process.
package app
