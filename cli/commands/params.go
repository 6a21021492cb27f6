package commands

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/satishbabariya/badger-go/query/builder"
	"github.com/satishbabariya/badger-go/query/mapper"
	"github.com/satishbabariya/badger-go/query/params"
)

// paramHead is the part of a -p flag before '=': name, optional type and
// optional length, e.g. "code:str(8)".
type paramHead struct {
	Sigil string     `parser:"@(\":\" | \"@\")?"`
	Name  string     `parser:"@Ident"`
	Type  *paramType `parser:"( \":\" @@ )?"`
}

type paramType struct {
	Name   string `parser:"@Ident"`
	Length *int   `parser:"( \"(\" @Int \")\" )?"`
}

var paramLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[:@()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var paramParser = participle.MustBuild[paramHead](
	participle.Lexer(paramLexer),
	participle.Elide("Whitespace"),
)

// parseParam turns "name[:type]=value" into a parameter name and value.
func parseParam(raw string) (string, any, error) {
	head, value, ok := strings.Cut(raw, "=")
	if !ok {
		return "", nil, fmt.Errorf("parameter %q: expected name[:type]=value", raw)
	}

	h, err := paramParser.ParseString("", head)
	if err != nil {
		return "", nil, fmt.Errorf("parameter %q: %w", raw, err)
	}

	typ := ""
	var length *int
	if h.Type != nil {
		typ = strings.ToLower(h.Type.Name)
		length = h.Type.Length
	}

	v, err := convertParam(typ, length, value)
	if err != nil {
		return "", nil, fmt.Errorf("parameter %q: %w", h.Name, err)
	}
	return h.Name, v, nil
}

func convertParam(typ string, length *int, value string) (any, error) {
	if length != nil && typ != "str" && typ != "string" {
		return nil, fmt.Errorf("a length only applies to str, not %q", typ)
	}

	switch typ {
	case "", "str", "string":
		if length != nil {
			return params.NewString(value, *length)
		}
		return value, nil
	case "int":
		return mapper.Convert[int64](value)
	case "float":
		return cast.ToFloat64E(value)
	case "bool":
		return cast.ToBoolE(value)
	case "time":
		return cast.ToTimeE(value)
	case "decimal":
		return decimal.NewFromString(value)
	case "uuid":
		return uuid.Parse(value)
	case "null":
		return nil, nil
	case "ints":
		return splitList(value, mapper.Convert[int64])
	case "strs", "strings":
		return splitList(value, cast.ToStringE)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}

func splitList[T any](value string, conv func(any) (T, error)) ([]T, error) {
	if value == "" {
		return []T{}, nil
	}
	parts := strings.Split(value, ",")
	out := make([]T, len(parts))
	for i, p := range parts {
		v, err := conv(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// applyParams binds every -p flag on b.
func applyParams(b builder.QueryBuilder, raws []string) (builder.QueryBuilder, error) {
	for _, raw := range raws {
		name, value, err := parseParam(raw)
		if err != nil {
			return b, err
		}
		b = b.WithParameter(name, value)
	}
	return b, nil
}
