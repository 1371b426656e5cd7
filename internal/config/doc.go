// Package config provides centralized configuration management for the Atlas
// market-data toolkit. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration files (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ATLAS_* for namespacing:
//
//	ATLAS_SERVER_PORT=8090
//	ATLAS_STORE_PATH=data/db/market.duckdb
//	ATLAS_LOGGING_LEVEL=info
//	ATLAS_PIPELINE_LIMIT_TOLERANCE=0.001
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	daily := paths.GetDailyCSVPath(date)
//	export := paths.GetExportPath("snapshots.csv")
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator
// struct tags, ensuring values are within acceptable ranges before any
// component starts.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
