package params

import (
	"errors"
	"fmt"
)

// Sentinel errors for parameter configuration and binding.
var (
	// ErrInvalidConfiguration indicates malformed builder or parameter state.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrParameterTooLong indicates a value exceeding its declared capacity.
	ErrParameterTooLong = errors.New("parameter too long")

	// ErrUnsupportedParameterShape indicates a table parameter whose element
	// type cannot be reflected into named fields.
	ErrUnsupportedParameterShape = errors.New("unsupported parameter shape")
)

// Error is a parameter error carrying the offending parameter name.
type Error struct {
	// Parameter is the parameter name, empty when not tied to one.
	Parameter string
	// Kind is one of the sentinel errors above.
	Kind error
	// Detail is a human readable description.
	Detail string
}

func newError(name string, kind error, format string, args ...any) *Error {
	return &Error{Parameter: name, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("parameter %q: %v: %s", e.Parameter, e.Kind, e.Detail)
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Is reports a too-long value as a configuration error as well.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidConfiguration && e.Kind == ErrParameterTooLong
}
