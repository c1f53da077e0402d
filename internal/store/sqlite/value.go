package sqlite

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Kind is the storage representation chosen for a column value.
type Kind uint8

// Column kinds. SQLite has no boolean or JSON type, so Bool is written as
// 0/1 and JSON as text; Record converts them back on read.
const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindJSON:
		return "json"
	default:
		return "null"
	}
}

// Value is a column value whose representation was resolved by the caller.
// The zero Value is an explicit NULL.
type Value struct {
	kind Kind
	arg  any
}

// Text is a plain text column value.
func Text(s string) Value { return Value{kind: KindText, arg: s} }

// Int is an integer column value.
func Int(n int64) Value { return Value{kind: KindNumber, arg: n} }

// Float is a real column value.
func Float(f float64) Value { return Value{kind: KindNumber, arg: f} }

// Bool is written as 0 or 1.
func Bool(b bool) Value {
	var n int64
	if b {
		n = 1
	}
	return Value{kind: KindBool, arg: n}
}

// Time is written as ISO-8601 text in UTC.
func Time(t time.Time) Value { return Value{kind: KindText, arg: formatTime(t)} }

// Null is an explicit NULL. Columns that should be left alone are simply
// omitted from the Row instead.
func Null() Value { return Value{} }

// JSON serializes v into a single text column.
func JSON(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("encode json column: %w", err)
	}
	return Value{kind: KindJSON, arg: string(data)}, nil
}

// Kind returns the value's representation.
func (v Value) Kind() Kind { return v.kind }

// Arg returns the driver argument for the value.
func (v Value) Arg() any { return v.arg }

// Row is a set of column values to write or filter on.
// A column missing from the Row is not written; it is never turned into NULL.
type Row map[string]Value

// Columns returns the row's column names in sorted order so generated
// statements are deterministic.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Record is one scanned result row keyed by column name.
type Record map[string]any

// Has reports whether the column is present and not NULL.
func (r Record) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// Text returns the column as a string. NULL reads as "".
func (r Record) Text(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Bool coerces a 0/1 column to a boolean.
func (r Record) Bool(col string) bool {
	switch v := r[col].(type) {
	case int64:
		return v != 0
	case float64:
		return v != 0
	case bool:
		return v
	case string:
		return v == "1" || v == "true"
	case []byte:
		s := string(v)
		return s == "1" || s == "true"
	default:
		return false
	}
}

// Float returns a numeric column and whether it was non-NULL.
func (r Record) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Time parses an ISO-8601 column. NULL or empty reads as the zero time.
func (r Record) Time(col string) (time.Time, error) {
	s := r.Text(col)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", col, err)
	}
	return t, nil
}

// JSON decodes a JSON text column into dest. It reports false, and leaves
// dest untouched, when the column is NULL or empty.
func (r Record) JSON(col string, dest any) (bool, error) {
	s := r.Text(col)
	if s == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", col, err)
	}
	return true, nil
}
