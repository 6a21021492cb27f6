package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWithWriter(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	InitWithWriter(true, &buf)

	assert.True(t, Enabled())
	Debug("query executed", "rows", 3)
	assert.Contains(t, buf.String(), "query executed")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestDisabledLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(true, &buf)
	Init(false)

	assert.False(t, Enabled())
	Error("should not appear")
	assert.Empty(t, buf.String())
}
