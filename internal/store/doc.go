// Package store is the DuckDB persistence adapter for canonical market
// batches.
//
// # Architecture
//
// One Store wraps a database/sql connection pool over the DuckDB driver
// (github.com/marcboeker/go-duckdb/v2). All SQL is derived from the table
// registry in pkg/contracts/schema; this package never spells out column
// names of its own.
//
// # Write semantics
//
// Saves validate through pkg/contracts/validate before touching the
// database. Two write shapes exist:
//
// 1. Upsert: INSERT ... ON CONFLICT (pk) DO UPDATE overwriting every
// non-key column, last write wins
//
// 2. Replace: DELETE the batch's keys first, then plain INSERT
//
// Both run inside a transaction, so a failed save leaves the table
// untouched. LoadFiles stretches one transaction over an ordered list of
// files: any file's failure rolls back every file of that load.
//
// # Usage
//
//	st, err := store.Open(cfg.Store.Path, store.Options{Logger: logger})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	if err := st.InitSchema(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	rows, err := st.SaveSnapshots(ctx, cleanBatch, false)
//
// Failures carry *StoreError with the failing operation; validation
// problems keep their typed contract errors and pass through unwrapped.
package store
