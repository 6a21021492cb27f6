package params

import (
	"database/sql/driver"
	"reflect"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/badger-go/query/cache"
)

// Statement is SQL text split around its :name placeholders.
// len(parts) is always len(names)+1.
type Statement struct {
	parts []string
	names []string
}

// Names returns placeholder names in order of appearance. A name used twice
// appears twice.
func (s Statement) Names() []string {
	return append([]string(nil), s.names...)
}

// Compile splits sql around :name placeholders. Quoted strings, quoted
// identifiers, dollar-quoted bodies, comments and :: casts are left untouched.
func Compile(sql string) Statement {
	return compile(sql, false)
}

// compile is Compile with optional backslash escapes in quoted strings.
func compile(sql string, backslash bool) Statement {
	var (
		stmt Statement
		buf  strings.Builder
	)

	n := len(sql)
	for i := 0; i < n; {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(sql, i, c, backslash && c != '`')
			buf.WriteString(sql[i:end])
			i = end

		case c == '-' && i+1 < n && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			buf.WriteString(sql[i:end])
			i = end

		case c == '/' && i+1 < n && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			buf.WriteString(sql[i:end])
			i = end

		case c == '$':
			end := skipDollarQuoted(sql, i)
			buf.WriteString(sql[i:end])
			i = end

		case c == ':' && i+1 < n && sql[i+1] == ':':
			buf.WriteString("::")
			i += 2

		case c == ':' && i+1 < n && isIdentStart(sql[i+1]):
			j := i + 2
			for j < n && isIdentPart(sql[j]) {
				j++
			}
			stmt.parts = append(stmt.parts, buf.String())
			stmt.names = append(stmt.names, sql[i+1:j])
			buf.Reset()
			i = j

		default:
			buf.WriteByte(c)
			i++
		}
	}
	stmt.parts = append(stmt.parts, buf.String())

	return stmt
}

// skipQuoted returns the index just past the quoted run starting at i.
// A doubled quote character is an escaped quote, and with backslash set so
// is any byte following a backslash.
func skipQuoted(sql string, i int, quote byte, backslash bool) int {
	for j := i + 1; j < len(sql); j++ {
		if backslash && sql[j] == '\\' {
			j++
			continue
		}
		if sql[j] != quote {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(sql)
}

// skipDollarQuoted handles PostgreSQL $tag$...$tag$ bodies. A '$' that does
// not open a dollar quote ($1 and friends) is returned as a single byte.
func skipDollarQuoted(sql string, i int) int {
	j := i + 1
	for j < len(sql) && sql[j] != '$' {
		if !isIdentPart(sql[j]) || (j == i+1 && !isIdentStart(sql[j])) {
			return i + 1
		}
		j++
	}
	if j >= len(sql) {
		return i + 1
	}

	tag := sql[i : j+1]
	end := strings.Index(sql[j+1:], tag)
	if end < 0 {
		return len(sql)
	}
	return j + 1 + end + len(tag)
}

// Compiler binds parameter sets against SQL text for one bindvar style.
// Compiled statements are cached by SQL text. A Compiler is safe for
// concurrent use.
type Compiler struct {
	bindType  int
	backslash bool
	cache     *cache.LRUCache[string, Statement]
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithBackslashEscapes makes a backslash inside quoted strings escape the
// next byte, as MySQL does unless NO_BACKSLASH_ESCAPES is set.
func WithBackslashEscapes() CompilerOption {
	return func(c *Compiler) {
		c.backslash = true
	}
}

// DefaultCacheSize is the number of compiled statements a Compiler keeps.
const DefaultCacheSize = 512

// NewCompiler creates a compiler for a sqlx bind type (sqlx.QUESTION,
// sqlx.DOLLAR, sqlx.NAMED or sqlx.AT). A cacheSize <= 0 uses DefaultCacheSize.
func NewCompiler(bindType int, cacheSize int, opts ...CompilerOption) *Compiler {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c := &Compiler{
		bindType: bindType,
		cache:    cache.NewLRUCache[string, Statement](cacheSize, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BindType returns the sqlx bind type this compiler renders.
func (c *Compiler) BindType() int {
	return c.bindType
}

// CacheStats returns statistics of the compiled statement cache.
func (c *Compiler) CacheStats() cache.Stats {
	return c.cache.GetStats()
}

// Bind renders sql with driver bindvars and returns the ordered arguments.
// Slice values (other than []byte and driver.Valuer implementations) expand
// into comma separated bindvars for IN lists.
func (c *Compiler) Bind(sql string, set Set) (string, []any, error) {
	stmt, ok := c.cache.Get(sql)
	if !ok {
		stmt = compile(sql, c.backslash)
		c.cache.Set(sql, stmt)
	}

	var (
		out  strings.Builder
		args = make([]any, 0, len(stmt.names))
	)
	out.Grow(len(sql) + 8)
	out.WriteString(stmt.parts[0])

	for i, name := range stmt.names {
		p, ok := set.Get(name)
		if !ok {
			return "", nil, newError(name, ErrInvalidConfiguration, "no value bound for placeholder")
		}

		if p.Kind == KindString {
			if err := p.Value.(String).validate(name); err != nil {
				return "", nil, err
			}
		}

		if elems, ok := expand(p.Value); ok {
			if len(elems) == 0 {
				return "", nil, newError(name, ErrInvalidConfiguration, "empty list cannot be bound")
			}
			for j, e := range elems {
				if j > 0 {
					out.WriteString(", ")
				}
				args = append(args, e)
				out.WriteString(c.bindvar(len(args)))
			}
		} else {
			args = append(args, p.Value)
			out.WriteString(c.bindvar(len(args)))
		}

		out.WriteString(stmt.parts[i+1])
	}

	return out.String(), args, nil
}

func (c *Compiler) bindvar(position int) string {
	switch c.bindType {
	case sqlx.DOLLAR:
		return "$" + strconv.Itoa(position)
	case sqlx.NAMED:
		return ":arg" + strconv.Itoa(position)
	case sqlx.AT:
		return "@p" + strconv.Itoa(position)
	default:
		return "?"
	}
}

var (
	valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	bytesType  = reflect.TypeOf([]byte(nil))
)

// expand returns the elements of list values bound to IN clauses.
func expand(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	t := rv.Type()
	if t.Implements(valuerType) || t.ConvertibleTo(bytesType) {
		return nil, false
	}
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, false
	}

	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}
