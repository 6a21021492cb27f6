package builder

import (
	"time"

	"github.com/satishbabariya/badger-go/query"
)

// ScalarBuilder builds a query returning a single value, falling back to a
// default when the result is NULL or there is no row.
type ScalarBuilder[T any] struct {
	base QueryBuilder
	def  T
}

// WithScalar turns b into a scalar builder with default def.
func WithScalar[T any](b QueryBuilder, def T) ScalarBuilder[T] {
	return ScalarBuilder[T]{base: b, def: def}
}

// NewScalar returns an empty scalar builder whose default is the zero value.
func NewScalar[T any]() ScalarBuilder[T] {
	return ScalarBuilder[T]{}
}

// WithSql sets or replaces the SQL text.
func (b ScalarBuilder[T]) WithSql(sql string) ScalarBuilder[T] {
	b.base = b.base.WithSql(sql)
	return b
}

// WithParameter binds value to name; see QueryBuilder.WithParameter.
func (b ScalarBuilder[T]) WithParameter(name string, value any) ScalarBuilder[T] {
	b.base = b.base.WithParameter(name, value)
	return b
}

// WithStringParameter binds a string with a maximum length in characters.
func (b ScalarBuilder[T]) WithStringParameter(name, value string, length int) ScalarBuilder[T] {
	b.base = b.base.WithStringParameter(name, value, length)
	return b
}

// WithTableParameter binds a slice of structs as one table-valued parameter.
func (b ScalarBuilder[T]) WithTableParameter(name string, rows any) ScalarBuilder[T] {
	b.base = b.base.WithTableParameter(name, rows)
	return b
}

// WithDefault sets the value returned for a NULL or missing result.
func (b ScalarBuilder[T]) WithDefault(def T) ScalarBuilder[T] {
	b.def = def
	return b
}

// WithTimeout sets the execution deadline.
func (b ScalarBuilder[T]) WithTimeout(timeout time.Duration) ScalarBuilder[T] {
	b.base = b.base.WithTimeout(timeout)
	return b
}

// Build freezes the builder.
func (b ScalarBuilder[T]) Build() (query.PreparedQuery[T], error) {
	d, err := b.base.descriptor(query.ModeScalar)
	if err != nil {
		return nil, err
	}
	return query.Scalar(d, b.def), nil
}
