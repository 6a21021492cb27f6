package mapper

// Option is an explicit present-or-absent value. Single-row and scalar
// results resolve to their default through OrElse.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// OrElse returns the value if present, def otherwise.
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
