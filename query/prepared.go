package query

import (
	"context"

	"github.com/satishbabariya/badger-go/query/mapper"
)

// PreparedQuery is an immutable, executable query. It is safe to execute
// concurrently; every execution is independent.
type PreparedQuery[T any] interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, e Engine) (T, error)
}

// Rows returns a prepared query that maps every row with m. The result is
// a lazy sequence that owns the cursor until it is drained or closed.
func Rows[T any](d Descriptor, m mapper.Mapper[T]) PreparedQuery[*mapper.Sequence[T]] {
	d.mode = ModeRows
	return rowsQuery[T]{desc: d, mapper: m}
}

// Single returns a prepared query that maps the first row with m, or yields
// def when there are no rows.
func Single[T any](d Descriptor, m mapper.Mapper[T], def T) PreparedQuery[T] {
	d.mode = ModeSingle
	return singleQuery[T]{desc: d, mapper: m, def: def}
}

// Scalar returns a prepared query that converts the scalar result to T, or
// yields def when it is NULL or absent.
func Scalar[T any](d Descriptor, def T) PreparedQuery[T] {
	d.mode = ModeScalar
	return scalarQuery[T]{desc: d, def: def}
}

// Command returns a prepared query that reports affected rows.
func Command(d Descriptor) PreparedQuery[int64] {
	d.mode = ModeCommand
	return commandQuery{desc: d}
}

type rowsQuery[T any] struct {
	desc   Descriptor
	mapper mapper.Mapper[T]
}

func (q rowsQuery[T]) Descriptor() Descriptor { return q.desc }

func (q rowsQuery[T]) Execute(ctx context.Context, e Engine) (*mapper.Sequence[T], error) {
	rows, err := e.QueryRows(ctx, q.desc)
	if err != nil {
		return nil, err
	}
	return mapper.NewSequence(rows, q.mapper), nil
}

type singleQuery[T any] struct {
	desc   Descriptor
	mapper mapper.Mapper[T]
	def    T
}

func (q singleQuery[T]) Descriptor() Descriptor { return q.desc }

func (q singleQuery[T]) Execute(ctx context.Context, e Engine) (T, error) {
	var zero T
	rows, err := e.QueryRows(ctx, q.desc)
	if err != nil {
		return zero, err
	}
	v, err := mapper.Single(rows, q.mapper)
	if err != nil {
		return zero, err
	}
	return v.OrElse(q.def), nil
}

type scalarQuery[T any] struct {
	desc Descriptor
	def  T
}

func (q scalarQuery[T]) Descriptor() Descriptor { return q.desc }

func (q scalarQuery[T]) Execute(ctx context.Context, e Engine) (T, error) {
	var zero T
	raw, err := e.QueryScalar(ctx, q.desc)
	if err != nil {
		return zero, err
	}
	v, err := mapper.Scalar[T](raw)
	if err != nil {
		return zero, err
	}
	return v.OrElse(q.def), nil
}

type commandQuery struct {
	desc Descriptor
}

func (q commandQuery) Descriptor() Descriptor { return q.desc }

func (q commandQuery) Execute(ctx context.Context, e Engine) (int64, error) {
	return e.Exec(ctx, q.desc)
}
