package mapper

import (
	"iter"
	"sync/atomic"
)

// Sequence is a lazy, finite, forward-only sequence of mapped rows. Rows are
// read and mapped one at a time as the caller consumes them; it can be
// iterated once.
type Sequence[T any] struct {
	rows   Rows
	mapper Mapper[T]
	used   atomic.Bool
}

// NewSequence wraps rows so that each row is passed through m.
func NewSequence[T any](rows Rows, m Mapper[T]) *Sequence[T] {
	return &Sequence[T]{rows: rows, mapper: m}
}

// All yields mapped values in the order rows arrive. Iteration ends at the
// first error, which is yielded with a zero value; driver and mapper errors
// are yielded unchanged. Breaking out early closes the cursor. A second call
// yields ErrSequenceConsumed.
func (s *Sequence[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if !s.used.CompareAndSwap(false, true) {
			yield(zero, ErrSequenceConsumed)
			return
		}
		defer s.rows.Close()

		c, err := newCursor(s.rows)
		if err != nil {
			yield(zero, err)
			return
		}

		for s.rows.Next() {
			row, err := c.scan()
			if err != nil {
				yield(zero, err)
				return
			}
			v, err := s.mapper(row)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}

		if err := s.rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// Collect consumes the whole sequence into a slice.
func (s *Sequence[T]) Collect() ([]T, error) {
	var out []T
	for v, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Close releases the cursor without iterating. It is safe to call after
// iteration.
func (s *Sequence[T]) Close() error {
	if s.used.CompareAndSwap(false, true) {
		return s.rows.Close()
	}
	return nil
}
