// Package mapper maps result rows to typed values.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row gives a row mapper named, typed access to the columns of one result
// row. A Row is only valid during the mapper invocation it is passed to.
type Row interface {
	// Columns returns the column names in result order.
	Columns() []string

	// Value returns the raw driver value of a column.
	Value(name string) (any, bool)

	// IsNull reports whether a column is NULL. Missing columns count as NULL.
	IsNull(name string) bool

	String(name string) (string, error)
	Int64(name string) (int64, error)
	Float64(name string) (float64, error)
	Bool(name string) (bool, error)
	Time(name string) (time.Time, error)
	Bytes(name string) ([]byte, error)
	Decimal(name string) (decimal.Decimal, error)
	UUID(name string) (uuid.UUID, error)
}

// Get returns a column converted to T.
func Get[T any](row Row, name string) (T, error) {
	v, ok := row.Value(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out, err := Convert[T](v)
	if err != nil {
		return out, fmt.Errorf("column %q: %w", name, err)
	}
	return out, nil
}

// Nullable returns a column converted to T, or None when it is NULL.
func Nullable[T any](row Row, name string) (Option[T], error) {
	v, ok := row.Value(name)
	if !ok {
		return None[T](), fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if v == nil {
		return None[T](), nil
	}
	out, err := Convert[T](v)
	if err != nil {
		return None[T](), fmt.Errorf("column %q: %w", name, err)
	}
	return Some(out), nil
}

// columnSet resolves column names to positions. It is built once per cursor
// and shared read-only by its rows.
type columnSet struct {
	names []string
	index map[string]int
}

func newColumnSet(names []string) *columnSet {
	cs := &columnSet{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		// first occurrence wins for duplicated names
		if _, ok := cs.index[n]; !ok {
			cs.index[n] = i
		}
	}
	return cs
}

func (cs *columnSet) lookup(name string) (int, bool) {
	if i, ok := cs.index[name]; ok {
		return i, true
	}
	for i, n := range cs.names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return -1, false
}

// record is the Row implementation over one scanned result row.
type record struct {
	cols   *columnSet
	values []any
}

// NewRow builds a Row from column names and values. It is mainly useful for
// testing row mappers.
func NewRow(columns []string, values []any) Row {
	return &record{cols: newColumnSet(columns), values: values}
}

func (r *record) Columns() []string {
	return append([]string(nil), r.cols.names...)
}

func (r *record) Value(name string) (any, bool) {
	i, ok := r.cols.lookup(name)
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

func (r *record) IsNull(name string) bool {
	v, ok := r.Value(name)
	return !ok || v == nil
}

func (r *record) String(name string) (string, error)   { return Get[string](r, name) }
func (r *record) Int64(name string) (int64, error)     { return Get[int64](r, name) }
func (r *record) Float64(name string) (float64, error) { return Get[float64](r, name) }
func (r *record) Bool(name string) (bool, error)       { return Get[bool](r, name) }
func (r *record) Time(name string) (time.Time, error)  { return Get[time.Time](r, name) }
func (r *record) Bytes(name string) ([]byte, error)    { return Get[[]byte](r, name) }

func (r *record) Decimal(name string) (decimal.Decimal, error) {
	return Get[decimal.Decimal](r, name)
}

func (r *record) UUID(name string) (uuid.UUID, error) {
	return Get[uuid.UUID](r, name)
}
