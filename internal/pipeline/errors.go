package pipeline

import (
	"fmt"
	"strings"
)

// Reasons carried by DateError.
const (
	DateReasonParse       = "parse"
	DateReasonConsistency = "consistency"
)

// EmptyBatchError reports a source file or batch with no data rows.
type EmptyBatchError struct {
	Path string
}

func (e *EmptyBatchError) Error() string {
	if e.Path == "" {
		return "batch has no rows"
	}
	return fmt.Sprintf("%s: batch has no rows", e.Path)
}

// DateError reports a fatal trade_date problem. Reason is "parse" when a
// cell cannot be read as a date, "consistency" when a row's date disagrees
// with the date encoded in the filename.
type DateError struct {
	Path   string
	Reason string
	Value  string
	Want   string
}

func (e *DateError) Error() string {
	if e.Reason == DateReasonConsistency {
		return fmt.Sprintf("%s: trade_date %s does not match filename date %s", e.Path, e.Value, e.Want)
	}
	return fmt.Sprintf("%s: cannot parse trade_date %q", e.Path, e.Value)
}

// DuplicateKeyError reports primary-key collisions inside a single batch.
// Colliding rows fail the whole batch; they are never silently
// de-duplicated.
type DuplicateKeyError struct {
	Table string
	Keys  []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicate key rows: %s", e.Table, strings.Join(e.Keys, "; "))
}
