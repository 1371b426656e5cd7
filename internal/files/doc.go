// Package files locates raw market-data CSV files on disk.
//
// Discovery finds daily snapshot files and per-instrument history files.
// Snapshot files follow the YYYY-MM-DD_Astock.csv naming convention and sit
// under per-year subdirectories (data/daily/2024/2024-05-17_Astock.csv);
// the trading date is resolved from the filename, never from modification
// time.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//
//	// Latest snapshot by trading date
//	latest, ok, err := discovery.LatestSnapshot("data/daily")
//
//	// Every history CSV, sorted by name
//	histories, err := discovery.FindCSVFiles("data/history")
package files
