// Package params binds named query parameters to driver arguments.
package params

import (
	"reflect"
	"strings"
)

// Kind describes how a parameter is bound.
type Kind int

const (
	// KindScalar binds by the value's runtime type.
	KindScalar Kind = iota
	// KindString binds text with an explicit maximum length.
	KindString
	// KindTable binds an ordered sequence of rows as one value.
	KindTable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Parameter is a single named binding.
type Parameter struct {
	Name  string
	Value any
	Kind  Kind
}

// New creates a parameter, inferring its kind from the value.
// A leading ':' or '@' on the name is ignored.
func New(name string, value any) (Parameter, error) {
	name = normalizeName(name)
	if !validName(name) {
		return Parameter{}, newError(name, ErrInvalidConfiguration, "invalid parameter name")
	}

	p := Parameter{Name: name, Value: value, Kind: KindScalar}
	switch v := value.(type) {
	case String:
		p.Kind = KindString
	case *String:
		if v == nil {
			return Parameter{}, newError(name, ErrInvalidConfiguration, "string parameter is nil")
		}
		p.Value = *v
		p.Kind = KindString
	case *Table:
		if v == nil {
			return Parameter{}, newError(name, ErrInvalidConfiguration, "table parameter is nil")
		}
		p.Kind = KindTable
	default:
		p.Value = snapshot(value)
	}

	if p.Kind == KindString {
		if err := p.Value.(String).validate(name); err != nil {
			return Parameter{}, err
		}
	}
	return p, nil
}

// snapshot copies slice values so later writes by the caller do not reach
// a built query.
func snapshot(value any) any {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.IsNil() {
		return value
	}
	cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(cp, rv)
	return cp.Interface()
}

func normalizeName(name string) string {
	if strings.HasPrefix(name, ":") || strings.HasPrefix(name, "@") {
		return name[1:]
	}
	return name
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if i == 0 && !isIdentStart(c) {
			return false
		}
		if !isIdentPart(c) {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Set is an ordered collection of uniquely named parameters.
// It is copy-on-write: With never mutates the receiver, so a Set can be
// shared freely once built. The zero value is an empty set.
type Set struct {
	params []Parameter
	index  map[string]int
}

// With returns a new set containing p. A parameter with the same name is
// replaced in place, keeping its original position.
func (s Set) With(p Parameter) Set {
	next := Set{
		params: make([]Parameter, len(s.params), len(s.params)+1),
		index:  make(map[string]int, len(s.params)+1),
	}
	copy(next.params, s.params)
	for k, v := range s.index {
		next.index[k] = v
	}

	if i, ok := next.index[p.Name]; ok {
		next.params[i] = p
		return next
	}
	next.index[p.Name] = len(next.params)
	next.params = append(next.params, p)
	return next
}

// Get returns the parameter bound to name.
func (s Set) Get(name string) (Parameter, bool) {
	i, ok := s.index[normalizeName(name)]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// Len returns the number of parameters.
func (s Set) Len() int {
	return len(s.params)
}

// All returns the parameters in binding order.
func (s Set) All() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Names returns the parameter names in binding order.
func (s Set) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}
