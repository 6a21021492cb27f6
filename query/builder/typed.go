package builder

import (
	"fmt"

	"github.com/satishbabariya/badger-go/query"
	"github.com/satishbabariya/badger-go/query/mapper"
)

// MappedBuilder builds a query that maps every row.
type MappedBuilder[T any] struct {
	base   QueryBuilder
	mapper mapper.Mapper[T]
}

// WithMapper turns b into a multi-row builder. Executing the built query
// yields a lazy sequence with one fn(row) per row, in row order.
func WithMapper[T any](b QueryBuilder, fn mapper.Mapper[T]) MappedBuilder[T] {
	return MappedBuilder[T]{base: b, mapper: fn}
}

// Build freezes the builder.
func (b MappedBuilder[T]) Build() (query.PreparedQuery[*mapper.Sequence[T]], error) {
	d, err := b.base.descriptor(query.ModeRows)
	if err != nil {
		return nil, err
	}
	if b.mapper == nil {
		return nil, fmt.Errorf("%w: mapper is nil", ErrInvalidConfiguration)
	}
	return query.Rows(d, b.mapper), nil
}

// SingleBuilder builds a query that maps the first row.
type SingleBuilder[T any] struct {
	base   QueryBuilder
	mapper mapper.Mapper[T]
	def    T
}

// WithSingleMapper turns b into a single-row builder. The built query
// returns fn applied to the first row, or def when there are no rows. Rows
// after the first are ignored.
func WithSingleMapper[T any](b QueryBuilder, fn mapper.Mapper[T], def T) SingleBuilder[T] {
	return SingleBuilder[T]{base: b, mapper: fn, def: def}
}

// Build freezes the builder.
func (b SingleBuilder[T]) Build() (query.PreparedQuery[T], error) {
	d, err := b.base.descriptor(query.ModeSingle)
	if err != nil {
		return nil, err
	}
	if b.mapper == nil {
		return nil, fmt.Errorf("%w: mapper is nil", ErrInvalidConfiguration)
	}
	return query.Single(d, b.mapper, b.def), nil
}
