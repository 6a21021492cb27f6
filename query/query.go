// Package query defines prepared queries and the engine contract that runs them.
//
// A PreparedQuery is produced by the builder package. It owns an immutable
// Descriptor (SQL text, parameters, timeout, result mode) and, depending on
// the mode, a row mapper and a default value. Executing it hands the
// Descriptor to an Engine and shapes the raw result into T.
package query

import (
	"time"

	"github.com/satishbabariya/badger-go/query/params"
)

// Mode is the result shape a query expects.
type Mode int

const (
	// ModeCommand runs a statement and reports the number of affected rows.
	ModeCommand Mode = iota
	// ModeRows maps every returned row.
	ModeRows
	// ModeSingle maps the first returned row.
	ModeSingle
	// ModeScalar reads the first column of the first row.
	ModeScalar
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "command"
	case ModeRows:
		return "rows"
	case ModeSingle:
		return "single"
	case ModeScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Descriptor is the frozen state of a built query.
type Descriptor struct {
	sql     string
	params  params.Set
	timeout time.Duration
	mode    Mode
}

// NewDescriptor creates a Descriptor. A timeout <= 0 means the engine
// default applies.
func NewDescriptor(sql string, set params.Set, timeout time.Duration, mode Mode) Descriptor {
	if timeout < 0 {
		timeout = 0
	}
	return Descriptor{sql: sql, params: set, timeout: timeout, mode: mode}
}

// SQL returns the query text with its :name placeholders.
func (d Descriptor) SQL() string {
	return d.sql
}

// Parameters returns the bound parameters. Sets are copy-on-write, so the
// result can be extended without affecting d.
func (d Descriptor) Parameters() params.Set {
	return d.params
}

// Parameter returns the value bound to name.
func (d Descriptor) Parameter(name string) (any, bool) {
	p, ok := d.params.Get(name)
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Timeout returns the execution deadline and whether one was set.
func (d Descriptor) Timeout() (time.Duration, bool) {
	return d.timeout, d.timeout > 0
}

// Mode returns the result shape.
func (d Descriptor) Mode() Mode {
	return d.mode
}
