package config

import "time"

// Application constants for the Atlas market-data toolkit.
const (
	// Application Info
	AppName    = "Atlas"
	AppVersion = "1.4.0"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultDailyDir   = "data/daily"
	DefaultHistoryDir = "data/history"
	DefaultDBDir      = "data/db"
	DefaultExportsDir = "data/exports"
	DefaultLogsDir    = "logs"

	// Store Settings
	DefaultDatabaseFile = "market.duckdb"
	DefaultLoadLimit    = 0 // no cap on files per load

	// Source File Patterns
	DailySnapshotPattern = `^(\d{4}-\d{2}-\d{2})_Astock\.csv$`
	DailySnapshotSuffix  = "_Astock.csv"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultQueryTimeout     = 60 * time.Second
	DefaultLoadTimeout      = 30 * time.Minute
	DefaultOperationTimeout = 2 * time.Hour

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
