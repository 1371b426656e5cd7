// Package validate performs structural checks and type coercions on record
// batches against the table schema registry. Structural failures are fatal;
// numeric and date coercion failures degrade to nil cells unless a strict
// variant is used, by explicit design choice.
package validate

import (
	"strconv"
	"strings"
	"time"

	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/conventions"
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/schema"
)

// Boolean token vocabulary. Anything outside both sets coerces to nil.
var (
	trueTokens  = map[string]bool{"1": true, "true": true, "True": true, "TRUE": true, "yes": true, "Yes": true, "YES": true, "是": true}
	falseTokens = map[string]bool{"0": true, "false": true, "False": true, "FALSE": true, "no": true, "No": true, "NO": true, "否": true}
)

// CheckMissingColumns fails with a MissingColumnsError when any required
// column is absent from the batch.
func CheckMissingColumns(b *batch.Batch, required []string, table string) error {
	var missing []string
	for _, c := range required {
		if !b.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Table: table, Missing: missing}
	}
	return nil
}

// CheckExtraColumns reports columns outside the expected set. Under strict
// mode the extras become an ExtraColumnsError instead of a return value.
func CheckExtraColumns(b *batch.Batch, expected []string, table string, strict bool) (bool, []string, error) {
	want := make(map[string]bool, len(expected))
	for _, c := range expected {
		want[c] = true
	}
	var extra []string
	for _, c := range b.Columns() {
		if !want[c] {
			extra = append(extra, c)
		}
	}
	if len(extra) == 0 {
		return false, nil, nil
	}
	if strict {
		return true, extra, &ExtraColumnsError{Table: table, Extra: extra}
	}
	return true, extra, nil
}

// ConvertNumeric coerces the given columns (default: every numeric-group
// column present) to float64, keeping int64 cells as-is. Unparsable cells
// become nil.
func ConvertNumeric(b *batch.Batch, columns ...string) {
	for _, col := range numericTargets(b, columns) {
		for row := 0; row < b.Len(); row++ {
			v, ok := toNumeric(b.Cell(row, col))
			if !ok {
				b.SetCell(row, col, nil)
				continue
			}
			b.SetCell(row, col, v)
		}
	}
}

// ConvertNumericStrict coerces like ConvertNumeric but fails with a
// TypeConversionError naming the first offending column when any non-nil cell
// cannot be parsed.
func ConvertNumericStrict(b *batch.Batch, table string, columns ...string) error {
	for _, col := range numericTargets(b, columns) {
		failures := 0
		for row := 0; row < b.Len(); row++ {
			cell := b.Cell(row, col)
			if cell == nil {
				continue
			}
			v, ok := toNumeric(cell)
			if !ok {
				failures++
				continue
			}
			b.SetCell(row, col, v)
		}
		if failures > 0 {
			return &TypeConversionError{Table: table, Column: col, Type: "numeric", Failures: failures}
		}
	}
	return nil
}

// ConvertBoolean coerces the given columns (default: every boolean-group
// column present) through the token vocabulary. Existing bools pass through;
// anything unrecognized becomes nil.
func ConvertBoolean(b *batch.Batch, columns ...string) {
	targets := columns
	if len(targets) == 0 {
		targets = groupColumns(b, fields.Boolean)
	}
	for _, col := range targets {
		if !b.HasColumn(col) {
			continue
		}
		for row := 0; row < b.Len(); row++ {
			b.SetCell(row, col, toBoolean(b.Cell(row, col)))
		}
	}
}

// ConvertDate coerces the given columns (default: every date-group column
// present) to time.Time values. With format empty the canonical candidate
// layouts are tried in order. Unparsable cells become nil.
func ConvertDate(b *batch.Batch, format string, columns ...string) {
	targets := columns
	if len(targets) == 0 {
		targets = groupColumns(b, fields.Date)
	}
	for _, col := range targets {
		if !b.HasColumn(col) {
			continue
		}
		for row := 0; row < b.Len(); row++ {
			b.SetCell(row, col, toDate(b.Cell(row, col), format))
		}
	}
}

// ValidateSchema checks a batch against a registered table: every insertable
// column must be present, and extra columns are rejected unless allowExtra.
// It returns the extra columns found.
func ValidateSchema(b *batch.Batch, tableName string, allowExtra bool) ([]string, error) {
	table, err := schema.Get(tableName)
	if err != nil {
		return nil, err
	}
	required := table.InsertColumns()
	if err := CheckMissingColumns(b, required, tableName); err != nil {
		return nil, err
	}
	_, extra, err := CheckExtraColumns(b, required, tableName, !allowExtra)
	if err != nil {
		return nil, err
	}
	return extra, nil
}

// Options control Canonicalize's column selection.
type Options struct {
	NumericColumns []string
	BooleanColumns []string
	DateColumns    []string
	DateFormat     string
}

// Canonicalize coerces a batch's cell types in the fixed order numeric,
// boolean, date. The order matters: boolean token columns must not be
// consumed by numeric parsing first.
func Canonicalize(b *batch.Batch, opts Options) {
	ConvertNumeric(b, opts.NumericColumns...)
	ConvertBoolean(b, opts.BooleanColumns...)
	ConvertDate(b, opts.DateFormat, opts.DateColumns...)
}

// QuickValidate composes ValidateSchema and Canonicalize: one call takes a
// raw batch to a schema-checked, type-coerced batch.
func QuickValidate(b *batch.Batch, tableName string, allowExtra, autoConvert bool) error {
	if _, err := ValidateSchema(b, tableName, allowExtra); err != nil {
		return err
	}
	if autoConvert {
		Canonicalize(b, Options{})
	}
	return nil
}

func numericTargets(b *batch.Batch, columns []string) []string {
	targets := columns
	if len(targets) == 0 {
		targets = groupColumns(b, fields.Numeric)
	}
	out := make([]string, 0, len(targets))
	for _, c := range targets {
		if b.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func groupColumns(b *batch.Batch, group []string) []string {
	var out []string
	for _, c := range b.Columns() {
		for _, g := range group {
			if c == g {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func toNumeric(cell any) (any, bool) {
	switch v := cell.(type) {
	case nil:
		return nil, true
	case float64:
		return v, true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func toBoolean(cell any) any {
	switch v := cell.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		s := strings.TrimSpace(v)
		if trueTokens[s] {
			return true
		}
		if falseTokens[s] {
			return false
		}
		return nil
	case int64:
		return tokenizedInt(v)
	case int:
		return tokenizedInt(int64(v))
	}
	return nil
}

func tokenizedInt(v int64) any {
	switch v {
	case 1:
		return true
	case 0:
		return false
	}
	return nil
}

func toDate(cell any, format string) any {
	switch v := cell.(type) {
	case nil:
		return nil
	case time.Time:
		return v
	case string:
		t, err := conventions.ParseDate(v, format)
		if err != nil {
			return nil
		}
		return t
	}
	return nil
}
