package mapper

import "errors"

var (
	// ErrSequenceConsumed is yielded when a Sequence is iterated a second time.
	ErrSequenceConsumed = errors.New("sequence already consumed")

	// ErrColumnNotFound is returned when a row has no column with the requested name.
	ErrColumnNotFound = errors.New("column not found")

	// ErrConversion is returned when a column value cannot be converted to the requested type.
	ErrConversion = errors.New("cannot convert value")
)
