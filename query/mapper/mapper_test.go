package mapper

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows is an in-memory Rows that records how far it was read.
type fakeRows struct {
	columns []string
	data    [][]any
	pos     int
	read    int
	closed  int
	err     error
}

func newFakeRows(columns []string, data ...[]any) *fakeRows {
	return &fakeRows{columns: columns, data: data, pos: -1}
}

func (f *fakeRows) Columns() ([]string, error) { return f.columns, nil }

func (f *fakeRows) Next() bool {
	if f.closed > 0 || f.pos+1 >= len(f.data) {
		return false
	}
	f.pos++
	f.read++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func (f *fakeRows) Close() error {
	f.closed++
	return nil
}

func TestSequence_MapsInOrder(t *testing.T) {
	rows := newFakeRows([]string{"id"}, []any{int64(1)}, []any{int64(2)}, []any{int64(3)})
	seq := NewSequence(rows, Column[int64]("id"))

	got, err := seq.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.Equal(t, 1, rows.closed)
}

func TestSequence_EarlyStop(t *testing.T) {
	rows := newFakeRows([]string{"id"}, []any{int64(1)}, []any{int64(2)}, []any{int64(3)}, []any{int64(4)})
	seq := NewSequence(rows, Column[int64]("id"))

	var got []int64
	for v, err := range seq.All() {
		require.NoError(t, err)
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []int64{1, 2}, got)
	assert.Equal(t, 2, rows.read, "rows past the stop point are not read")
	assert.Equal(t, 1, rows.closed)
}

func TestSequence_NotRestartable(t *testing.T) {
	rows := newFakeRows([]string{"id"}, []any{int64(1)})
	seq := NewSequence(rows, Column[int64]("id"))

	_, err := seq.Collect()
	require.NoError(t, err)

	_, err = seq.Collect()
	assert.ErrorIs(t, err, ErrSequenceConsumed)
}

func TestSequence_MapperErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	rows := newFakeRows([]string{"id"}, []any{int64(1)}, []any{int64(2)})
	seq := NewSequence(rows, func(Row) (int, error) { return 0, boom })

	_, err := seq.Collect()
	assert.Same(t, boom, err)
	assert.Equal(t, 1, rows.closed)
}

func TestSequence_DriverErrorPassesThrough(t *testing.T) {
	driverErr := errors.New("connection reset")
	rows := newFakeRows([]string{"id"}, []any{int64(1)})
	rows.err = driverErr

	got, err := NewSequence(rows, Column[int64]("id")).Collect()
	assert.Same(t, driverErr, err)
	assert.Equal(t, []int64{1}, got)
}

func TestSequence_CloseWithoutIterating(t *testing.T) {
	rows := newFakeRows([]string{"id"}, []any{int64(1)})
	seq := NewSequence(rows, Column[int64]("id"))

	require.NoError(t, seq.Close())
	assert.Equal(t, 1, rows.closed)
	assert.Equal(t, 0, rows.read)

	_, err := seq.Collect()
	assert.ErrorIs(t, err, ErrSequenceConsumed)
}

func TestSingle(t *testing.T) {
	id := Column[int64]("id")

	t.Run("no rows", func(t *testing.T) {
		rows := newFakeRows([]string{"id"})
		got, err := Single(rows, id)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.OrElse(42))
		assert.Equal(t, 1, rows.closed)
	})

	t.Run("first of many", func(t *testing.T) {
		rows := newFakeRows([]string{"id"}, []any{int64(7)}, []any{int64(8)})
		got, err := Single(rows, id)
		require.NoError(t, err)
		v, ok := got.Get()
		assert.True(t, ok)
		assert.Equal(t, int64(7), v)
		assert.Equal(t, 1, rows.read)
	})

	t.Run("mapper error", func(t *testing.T) {
		boom := errors.New("boom")
		rows := newFakeRows([]string{"id"}, []any{int64(7)})
		_, err := Single(rows, func(Row) (int, error) { return 0, boom })
		assert.Same(t, boom, err)
	})
}

func TestScalar(t *testing.T) {
	got, err := Scalar[string](nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got.OrElse("x"))

	n, err := Scalar[int](int64(5))
	require.NoError(t, err)
	assert.Equal(t, 5, n.OrElse(0))

	_, err = Scalar[int]("five")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestRowAccessors(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	row := NewRow(
		[]string{"Name", "age", "score", "active", "created_at", "blob", "price", "uid", "note"},
		[]any{[]byte("ann"), int64(33), "9.5", int64(1), at, []byte{1, 2}, "19.99", id.String(), nil},
	)

	name, err := row.String("name")
	require.NoError(t, err)
	assert.Equal(t, "ann", name)

	age, err := row.Int64("age")
	require.NoError(t, err)
	assert.Equal(t, int64(33), age)

	score, err := row.Float64("score")
	require.NoError(t, err)
	assert.Equal(t, 9.5, score)

	active, err := row.Bool("active")
	require.NoError(t, err)
	assert.True(t, active)

	created, err := row.Time("created_at")
	require.NoError(t, err)
	assert.True(t, at.Equal(created))

	blob, err := row.Bytes("blob")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, blob)

	price, err := row.Decimal("price")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(price))

	uid, err := row.UUID("uid")
	require.NoError(t, err)
	assert.Equal(t, id, uid)

	assert.True(t, row.IsNull("note"))
	assert.True(t, row.IsNull("missing"))
	assert.False(t, row.IsNull("age"))

	_, err = row.String("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = row.Int64("name")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestNullable(t *testing.T) {
	row := NewRow([]string{"a", "b"}, []any{nil, int64(3)})

	a, err := Nullable[int](row, "a")
	require.NoError(t, err)
	assert.False(t, a.IsSome())

	b, err := Nullable[int](row, "b")
	require.NoError(t, err)
	assert.Equal(t, 3, b.OrElse(0))
}

func TestConvert(t *testing.T) {
	type status string

	s, err := Convert[status]([]byte("open"))
	require.NoError(t, err)
	assert.Equal(t, status("open"), s)

	ptr, err := Convert[*string](nil)
	require.NoError(t, err)
	assert.Nil(t, ptr)

	ptr, err = Convert[*string]("x")
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.Equal(t, "x", *ptr)

	ns, err := Convert[sql.NullString]("y")
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "y", Valid: true}, ns)

	_, err = Convert[int8](int64(300))
	assert.ErrorIs(t, err, ErrConversion)

	_, err = Convert[int32](float64(3.9))
	assert.ErrorIs(t, err, ErrConversion)

	raw, err := Convert[any](int64(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), raw)
}

func TestConvert_Integers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{name: "leading zero text", in: "010", want: 10},
		{name: "leading zero bytes", in: []byte("010"), want: 10},
		{name: "eight and nine", in: "08", want: 8},
		{name: "padded", in: " 42 ", want: 42},
		{name: "negative", in: []byte("-7"), want: -7},
		{name: "whole float", in: 3.0, want: 3},
		{name: "whole float text", in: "12.0", want: 12},
		{name: "int32", in: int32(5), want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert[int64](tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []any{3.9, "3.9", []byte("1e400"), "0x10", "abc"} {
		_, err := Convert[int64](in)
		assert.ErrorIs(t, err, ErrConversion, "%v", in)
	}

	u, err := Convert[uint16]([]byte("0080"))
	require.NoError(t, err)
	assert.Equal(t, uint16(80), u)

	_, err = Convert[uint64]("-1")
	assert.ErrorIs(t, err, ErrConversion)

	row := NewRow([]string{"zip"}, []any{[]byte("010")})
	zip, err := row.Int64("zip")
	require.NoError(t, err)
	assert.Equal(t, int64(10), zip)
}

type stamp struct {
	Version int64 `db:"version"`
}

type document struct {
	ID int64 `db:"id"`
	*stamp
	*Profile
}

func TestStruct_EmbeddedPointers(t *testing.T) {
	row := NewRow([]string{"id", "version", "display_name"}, []any{int64(4), int64(2), "Ann"})

	d, err := Struct[document]()(row)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.ID)
	assert.Nil(t, d.stamp)
	require.NotNil(t, d.Profile)
	assert.Equal(t, "Ann", d.DisplayName)
}

type account struct {
	ID      int64  `db:"id"`
	Email   string `db:"email"`
	Balance decimal.Decimal
	Nick    *string
	Profile
}

type Profile struct {
	DisplayName string
}

func TestStruct(t *testing.T) {
	row := NewRow(
		[]string{"id", "email", "balance", "nick", "display_name", "extra"},
		[]any{int64(1), []byte("a@b.c"), "10.50", nil, "Ann", "ignored"},
	)

	acc, err := Struct[account]()(row)
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.ID)
	assert.Equal(t, "a@b.c", acc.Email)
	assert.Equal(t, "10.5", acc.Balance.String())
	assert.Nil(t, acc.Nick)
	assert.Equal(t, "Ann", acc.DisplayName)

	ptr, err := Struct[*account]()(row)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.Equal(t, int64(1), ptr.ID)
}

func TestStruct_ConversionError(t *testing.T) {
	row := NewRow([]string{"id"}, []any{"not a number"})
	_, err := Struct[account]()(row)
	assert.ErrorIs(t, err, ErrConversion)
}
