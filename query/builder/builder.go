// Package builder provides the fluent API that produces prepared queries.
//
// Builders are values: every With method returns a modified copy and leaves
// the receiver untouched, so a partially configured builder can be branched.
// The first configuration error is kept and returned by Build.
//
//	q, err := builder.WithSingleMapper(
//		builder.New().
//			WithSql("SELECT id, email FROM users WHERE id = :id").
//			WithParameter("id", 7),
//		mapper.Struct[User](), User{},
//	).Build()
package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/satishbabariya/badger-go/query"
	"github.com/satishbabariya/badger-go/query/params"
)

// QueryBuilder accumulates SQL text, parameters and a timeout.
type QueryBuilder struct {
	sql     string
	params  params.Set
	timeout time.Duration
	err     error
}

// New returns an empty builder.
func New() QueryBuilder {
	return QueryBuilder{}
}

// WithSql sets or replaces the SQL text. Parameters are referenced as :name.
func (b QueryBuilder) WithSql(sql string) QueryBuilder {
	b.sql = sql
	return b
}

// WithParameter binds value to name. Binding a name again replaces the
// earlier value. params.String and *params.Table values keep their kind.
func (b QueryBuilder) WithParameter(name string, value any) QueryBuilder {
	if b.err != nil {
		return b
	}
	p, err := params.New(name, value)
	if err != nil {
		b.err = err
		return b
	}
	b.params = b.params.With(p)
	return b
}

// WithStringParameter binds a string with an explicit maximum length in
// characters. The value is never truncated; a longer value is an error.
func (b QueryBuilder) WithStringParameter(name, value string, length int) QueryBuilder {
	if b.err != nil {
		return b
	}
	s, err := params.NewString(value, length)
	if err != nil {
		b.err = fmt.Errorf("parameter %q: %w", name, err)
		return b
	}
	return b.WithParameter(name, s)
}

// WithTableParameter binds a slice of structs as a single table-valued
// parameter. Columns follow the struct fields in declaration order.
func (b QueryBuilder) WithTableParameter(name string, rows any) QueryBuilder {
	if b.err != nil {
		return b
	}
	t, err := params.NewTable(rows)
	if err != nil {
		b.err = fmt.Errorf("parameter %q: %w", name, err)
		return b
	}
	return b.WithParameter(name, t)
}

// WithTimeout sets the execution deadline. Without one the engine default
// applies.
func (b QueryBuilder) WithTimeout(timeout time.Duration) QueryBuilder {
	if b.err != nil {
		return b
	}
	if timeout <= 0 {
		b.err = fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfiguration, timeout)
		return b
	}
	b.timeout = timeout
	return b
}

// Err returns the first configuration error, if any.
func (b QueryBuilder) Err() error {
	if b.err != nil {
		return b.err
	}
	if strings.TrimSpace(b.sql) == "" {
		return fmt.Errorf("%w: sql is empty", ErrInvalidConfiguration)
	}
	return nil
}

// Build freezes the builder into a command that reports affected rows.
func (b QueryBuilder) Build() (query.PreparedQuery[int64], error) {
	d, err := b.descriptor(query.ModeCommand)
	if err != nil {
		return nil, err
	}
	return query.Command(d), nil
}

func (b QueryBuilder) descriptor(mode query.Mode) (query.Descriptor, error) {
	if err := b.Err(); err != nil {
		return query.Descriptor{}, err
	}
	return query.NewDescriptor(b.sql, b.params, b.timeout, mode), nil
}
