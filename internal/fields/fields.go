// Package fields reflects struct types into ordered, named column sets.
package fields

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// ErrNotStruct is returned when a type cannot be reflected into fields.
var ErrNotStruct = errors.New("type is not a struct")

// ErrNoFields is returned for structs without any mappable field.
var ErrNoFields = errors.New("struct has no mappable fields")

// Field is a single column backed by a struct field.
type Field struct {
	// Column is the column name the field maps to.
	Column string
	// Index is the field index path, usable with reflect.Value.FieldByIndex.
	Index []int
	// Type is the field type.
	Type reflect.Type
}

// Schema is the ordered column set of a struct type.
type Schema struct {
	Type   reflect.Type
	Fields []Field

	byColumn map[string]int
}

var schemas sync.Map // map[reflect.Type]*Schema

// Of returns the schema of t. Pointer types are dereferenced.
// Results are cached per type.
func Of(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	if cached, ok := schemas.Load(t); ok {
		return cached.(*Schema), nil
	}

	s := &Schema{Type: t, byColumn: make(map[string]int)}
	collect(t, nil, s)
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoFields, t)
	}

	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

// Columns returns the column names in field order.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Lookup finds a field by column name, exact match first, then case-insensitive.
func (s *Schema) Lookup(column string) (Field, bool) {
	if i, ok := s.byColumn[column]; ok {
		return s.Fields[i], true
	}
	for _, f := range s.Fields {
		if strings.EqualFold(f.Column, column) {
			return f, true
		}
	}
	return Field{}, false
}

func collect(t reflect.Type, parent []int, s *Schema) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		column, tagged := ColumnName(sf)
		if column == "" {
			continue
		}

		// Untagged embedded structs contribute their own fields
		if sf.Anonymous && !tagged {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				// a nil unexported pointer cannot be allocated through reflect
				if !sf.IsExported() {
					continue
				}
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collect(ft, index, s)
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}
		if _, dup := s.byColumn[column]; dup {
			continue
		}

		s.byColumn[column] = len(s.Fields)
		s.Fields = append(s.Fields, Field{Column: column, Index: index, Type: sf.Type})
	}
}

// ColumnName returns the column name for a struct field and whether it came
// from a tag. The db tag wins over the json tag; untagged fields use the
// snake_cased field name. An empty name means the field is skipped.
func ColumnName(field reflect.StructField) (string, bool) {
	for _, key := range []string{"db", "json"} {
		tag, ok := field.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, true
		}
	}
	return SnakeCase(field.Name), false
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms together
// (UserID -> user_id, HTTPServer -> http_server).
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
