package mapper

// Rows is a forward-only result cursor. *sql.Rows satisfies it.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// cursor reads Rows into records.
type cursor struct {
	rows Rows
	cols *columnSet
}

func newCursor(rows Rows) (*cursor, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &cursor{rows: rows, cols: newColumnSet(names)}, nil
}

// scan reads the current row. Values are scanned into fresh storage so a
// record never aliases driver buffers.
func (c *cursor) scan() (*record, error) {
	values := make([]any, len(c.cols.names))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = append([]byte(nil), b...)
		}
	}
	return &record{cols: c.cols, values: values}, nil
}
