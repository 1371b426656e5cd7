// Package shared provides common utilities and test helpers used across the
// Atlas codebase. It serves as a central location for shared functionality
// that doesn't belong to any specific domain or architectural layer.
//
// # Structure
//
// The package is organized into the following components:
//
// - testutil: Testing utilities including fixtures and log capture helpers
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no business logic of their own
// 3. Common constants or types used across packages
//
// It should NOT contain:
//
// 1. Pipeline, store, or transport logic
// 2. Circular dependencies with other internal packages
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - Market data fixtures (raw CSV files, canonical batches)
//   - A buffered slog handler for asserting on log output
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    // run code under test with logger
//	    if !logs.ContainsMessage("load complete") {
//	        t.Error("expected completion log")
//	    }
//	}
package shared
