package validate

import (
	"fmt"
	"sort"
	"strings"
)

// MissingColumnsError reports required columns absent from a batch.
type MissingColumnsError struct {
	Table   string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return tablePrefix(e.Table) + fmt.Sprintf("missing columns: [%s]", strings.Join(sorted(e.Missing), " "))
}

// ExtraColumnsError reports unexpected columns present in a batch when strict
// checking is requested.
type ExtraColumnsError struct {
	Table string
	Extra []string
}

func (e *ExtraColumnsError) Error() string {
	return tablePrefix(e.Table) + fmt.Sprintf("extra columns: [%s]", strings.Join(sorted(e.Extra), " "))
}

// TypeConversionError reports cells that failed a strict type coercion.
type TypeConversionError struct {
	Table    string
	Column   string
	Type     string
	Failures int
}

func (e *TypeConversionError) Error() string {
	return tablePrefix(e.Table) + fmt.Sprintf("failed to convert column %q to %s: %d errors",
		e.Column, e.Type, e.Failures)
}

func tablePrefix(table string) string {
	if table == "" {
		return ""
	}
	return "[" + table + "] "
}

func sorted(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
