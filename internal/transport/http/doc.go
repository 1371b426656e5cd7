// Package http implements the read-only query API over the market store.
// It provides a thin layer between HTTP transport and the store, keeping
// handlers focused solely on HTTP concerns.
//
// Handlers in this package follow these principles:
//
//  1. Thin handlers - parse the request, call the store, render JSON
//  2. HTTP-only concerns - no canonicalization or load logic
//  3. Error transformation - store and validation errors become RFC 7807
//     problem documents via internal/errors
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Store
//	                                             ↓
//	HTTP Response ← Handler ← Query Result ←─────┘
//
// The API never writes: load and export to disk happen through the CLI
// tools, and the server opens its store read-only. The export endpoint
// streams canonical CSV (UTF-8 with signature) or XLSX straight to the
// response.
package http
