// Package pipeline cleans raw market CSV batches into canonical form.
//
// # Architecture
//
// One Cleaner serves every supported file layout through Source
// descriptors:
//
// 1. SnapshotSource: whole-market daily files with Chinese vendor headers,
// named YYYY-MM-DD_Astock.csv
//
// 2. HistorySource: per-instrument history files with canonical English
// headers (the name column is optional)
//
// # Usage
//
//	cleaner := pipeline.NewCleaner(logger, pipeline.CleanerConfig{})
//	clean, err := cleaner.Clean(ctx, "data/daily/2024/2024-05-17_Astock.csv", pipeline.SnapshotSource())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Data Flow
//
//	CSV file → raw batch → rename → normalize tickers → coerce numerics →
//	parse dates → derive ST and limit flags → sort → schema check
//
// The cleaning order is fixed. A run either produces a batch that passes
// the schema registry's exact column check or a typed error; there is no
// partial output, and the caller's input batch is never mutated.
//
// # Error Handling
//
// Fatal conditions carry typed errors: EmptyBatchError, DateError,
// DuplicateKeyError here, plus MissingColumnsError, ExtraColumnsError and
// IdentifierError from pkg/contracts. Cell-level numeric problems degrade
// to null cells instead of failing the batch.
package pipeline
