// Package exporter renders stored market data to files.
//
// This package contains three main components:
//
// CSVWriter: core CSV writing with headers, streaming, and a UTF-8 BOM so
// Excel recognizes the Chinese instrument names.
//
// XLSXWriter: workbook export via excelize, one sheet per table.
//
// Record builders: SnapshotRecords, PhaseRecords and ExecutionRecords turn
// domain rows into header+records pairs. Headers come from the schema
// registry's declaration order; the exporter never invents column names.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	header, records := exporter.SnapshotRecords(snapshots)
//	err := w.WriteSimpleCSV("snapshots.csv", header, records)
package exporter
