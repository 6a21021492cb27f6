package params

import (
	"database/sql/driver"
	"unicode/utf8"
)

// String is text bound with an explicit maximum length, counted in runes.
type String struct {
	text   string
	length int
}

// NewString creates a length-bounded string. It fails with
// ErrInvalidConfiguration when length <= 0 and with ErrParameterTooLong when
// the text does not fit.
func NewString(text string, length int) (String, error) {
	s := String{text: text, length: length}
	if err := s.validate(""); err != nil {
		return String{}, err
	}
	return s, nil
}

// Text returns the string value.
func (s String) Text() string {
	return s.text
}

// Length returns the declared maximum length.
func (s String) Length() int {
	return s.length
}

// Value implements driver.Valuer. Values are never truncated.
func (s String) Value() (driver.Value, error) {
	if err := s.validate(""); err != nil {
		return nil, err
	}
	return s.text, nil
}

func (s String) validate(name string) error {
	if s.length <= 0 {
		return newError(name, ErrInvalidConfiguration, "length must be positive, got %d", s.length)
	}
	if n := utf8.RuneCountInString(s.text); n > s.length {
		return newError(name, ErrParameterTooLong, "value has %d characters, capacity is %d", n, s.length)
	}
	return nil
}
