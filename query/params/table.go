package params

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/satishbabariya/badger-go/internal/fields"
)

// Table is a table-valued parameter: an ordered sequence of rows bound as a
// single value. Rows are snapshotted when the table is created, so later
// changes to the source slice are not observed.
//
// Tables bind as a JSON array of objects whose keys follow column order, for
// use with json_populate_recordset (PostgreSQL), JSON_TABLE (MySQL) or
// json_each (SQLite).
type Table struct {
	columns []string
	rows    [][]any
}

// NewTable creates a table parameter from a slice or array of structs (or
// pointers to structs). Columns follow the struct field order; see
// fields.ColumnName for naming rules.
func NewTable(rows any) (*Table, error) {
	rv := reflect.ValueOf(rows)
	if !rv.IsValid() {
		return nil, newError("", ErrUnsupportedParameterShape, "table rows are nil")
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, newError("", ErrUnsupportedParameterShape, "table rows must be a slice, got %s", rv.Type())
	}

	schema, err := fields.Of(rv.Type().Elem())
	if err != nil {
		if errors.Is(err, fields.ErrNotStruct) || errors.Is(err, fields.ErrNoFields) {
			return nil, newError("", ErrUnsupportedParameterShape, "%v", err)
		}
		return nil, err
	}

	t := &Table{
		columns: schema.Columns(),
		rows:    make([][]any, 0, rv.Len()),
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				return nil, newError("", ErrInvalidConfiguration, "table row %d is nil", i)
			}
			elem = elem.Elem()
		}

		row := make([]any, len(schema.Fields))
		for j, f := range schema.Fields {
			fv, err := elem.FieldByIndexErr(f.Index)
			if err != nil {
				// nil embedded pointer
				row[j] = nil
				continue
			}
			row[j] = fv.Interface()
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the row values in order.
func (t *Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

// Value implements driver.Valuer.
func (t *Table) Value() (driver.Value, error) {
	b, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON encodes the rows as an array of objects with keys in column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(col)
			buf.Write(key)
			buf.WriteByte(':')

			v := row[j]
			if valuer, ok := v.(driver.Valuer); ok {
				dv, err := valuer.Value()
				if err != nil {
					return nil, err
				}
				v = dv
			}
			val, err := json.Marshal(v)
			if err != nil {
				return nil, newError("", ErrUnsupportedParameterShape, "column %q: %v", col, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
