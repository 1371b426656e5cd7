package exporter

import (
	"fmt"
	"time"

	"atlascli/pkg/contracts/conventions"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDate formats a date in the canonical YYYY-MM-DD layout
func formatDate(t time.Time) string {
	return t.Format(conventions.DateFormat)
}

// Optional-field variants render nil as the empty cell.

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optInt(i *int64) string {
	if i == nil {
		return ""
	}
	return formatInt(*i)
}

func optBool(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
