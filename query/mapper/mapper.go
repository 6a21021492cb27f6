package mapper

import (
	"fmt"
	"reflect"

	"github.com/satishbabariya/badger-go/internal/fields"
)

// Mapper converts one result row into a value. Mappers should be pure and
// must not keep the Row after returning.
type Mapper[T any] func(row Row) (T, error)

// Single maps the first row of rows, or returns None when there are no rows.
// Rows past the first are not read. The cursor is always closed.
func Single[T any](rows Rows, m Mapper[T]) (Option[T], error) {
	defer rows.Close()

	c, err := newCursor(rows)
	if err != nil {
		return None[T](), err
	}
	if !rows.Next() {
		return None[T](), rows.Err()
	}

	row, err := c.scan()
	if err != nil {
		return None[T](), err
	}
	v, err := m(row)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// Scalar converts a scalar driver value to T. NULL is None.
func Scalar[T any](v any) (Option[T], error) {
	if v == nil {
		return None[T](), nil
	}
	out, err := Convert[T](v)
	if err != nil {
		return None[T](), err
	}
	return Some(out), nil
}

// Column returns a mapper that reads a single column as T.
func Column[T any](name string) Mapper[T] {
	return func(row Row) (T, error) {
		return Get[T](row, name)
	}
}

// Struct returns a mapper that fills a struct (or pointer to struct) from the
// columns of a row. Columns are matched to fields by db tag, json tag or
// snake_cased field name; unmatched columns are ignored.
func Struct[T any]() Mapper[T] {
	return func(row Row) (T, error) {
		var out T
		dst := reflect.ValueOf(&out).Elem()

		target := dst
		if dst.Kind() == reflect.Ptr {
			target = reflect.New(dst.Type().Elem()).Elem()
		}

		schema, err := fields.Of(target.Type())
		if err != nil {
			return out, err
		}

		for _, col := range row.Columns() {
			f, ok := schema.Lookup(col)
			if !ok {
				continue
			}
			v, _ := row.Value(col)
			if err := assign(fieldByIndex(target, f.Index), v); err != nil {
				return out, fmt.Errorf("column %q: %w", col, err)
			}
		}

		if dst.Kind() == reflect.Ptr {
			dst.Set(target.Addr())
		}
		return out, nil
	}
}

// fieldByIndex walks index, allocating nil embedded pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
