package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/badger-go/cli/internal/config"
	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/query/params"
)

// harness isolates config and output for one test.
type harness struct {
	t   *testing.T
	fs  afero.Fs
	out *bytes.Buffer
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	prevFs, prevOut, prevErr := config.AppFs, ui.Out, ui.Err
	h := &harness{
		t:   t,
		fs:  afero.NewMemMapFs(),
		out: &bytes.Buffer{},
		url: "sqlite://" + filepath.Join(t.TempDir(), "shop.db"),
	}
	config.AppFs, ui.Out, ui.Err = h.fs, h.out, h.out
	t.Cleanup(func() { config.AppFs, ui.Out, ui.Err = prevFs, prevOut, prevErr })

	t.Setenv("DATABASE_URL", "")
	t.Setenv("BADGER_DATABASE_URL", "")
	return h
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.out.Reset()

	cmd := NewRootCommand()
	cmd.SetOut(h.out)
	cmd.SetErr(h.out)
	cmd.SetArgs(append(args, "--url", h.url))
	err := cmd.ExecuteContext(context.Background())
	return h.out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func seed(h *harness) {
	h.mustRun("exec", "CREATE TABLE items (id INTEGER PRIMARY KEY, sku TEXT NOT NULL, qty INTEGER NOT NULL)", "--yes")
	for _, sku := range []string{"a-1", "b-2", "c-3"} {
		h.mustRun("exec", "INSERT INTO items (sku, qty) VALUES (:sku, :qty)",
			"-p", "sku:str(8)="+sku, "-p", "qty:int=2", "--yes")
	}
}

func TestExecAndQuery(t *testing.T) {
	h := newHarness(t)
	seed(h)

	out := h.mustRun("exec", "UPDATE items SET qty = qty + 1 WHERE sku IN (:skus)", "-p", "skus:strs=a-1,c-3", "-y")
	assert.Contains(t, out, "2 rows affected")

	out = h.mustRun("query", "SELECT sku, qty FROM items WHERE qty > :min ORDER BY sku", "-p", "min:int=2", "-o", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	assert.Equal(t, []map[string]any{
		{"sku": "a-1", "qty": float64(3)},
		{"sku": "c-3", "qty": float64(3)},
	}, rows)
}

func TestQuery_Limit(t *testing.T) {
	h := newHarness(t)
	seed(h)

	out := h.mustRun("query", "SELECT sku FROM items ORDER BY sku", "--limit", "1", "--format", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	assert.Len(t, rows, 1)
}

func TestQuery_NoRows(t *testing.T) {
	h := newHarness(t)
	seed(h)

	out := h.mustRun("query", "SELECT sku FROM items WHERE qty > 100")
	assert.Contains(t, out, "No rows")
}

func TestQuery_FromFile(t *testing.T) {
	h := newHarness(t)
	seed(h)
	require.NoError(t, afero.WriteFile(h.fs, "report.sql", []byte("SELECT count(*) AS n FROM items"), 0o644))

	out := h.mustRun("query", "@report.sql", "-o", "json")
	assert.JSONEq(t, `[{"n": 3}]`, out)

	out = h.mustRun("scalar", "report.sql")
	assert.Contains(t, out, "3")
}

func TestScalar_Default(t *testing.T) {
	h := newHarness(t)
	seed(h)

	out := h.mustRun("scalar", "SELECT qty FROM items WHERE sku = :sku", "-p", "sku=zzz", "--default", "none")
	assert.Contains(t, out, "none")

	out = h.mustRun("scalar", "SELECT qty FROM items WHERE sku = :sku", "-p", "sku=zzz")
	assert.Contains(t, out, "NULL")
}

func TestParameterTooLong(t *testing.T) {
	h := newHarness(t)
	seed(h)

	_, err := h.run("exec", "INSERT INTO items (sku, qty) VALUES (:sku, 1)", "-p", "sku:str(3)=toolong", "-y")
	assert.ErrorIs(t, err, params.ErrParameterTooLong)
}

func TestMissingDatabase(t *testing.T) {
	h := newHarness(t)
	h.url = ""

	_, err := h.run("query", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestRequiredVersion(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, afero.WriteFile(h.fs, "/cfg.yaml", []byte(`required_version: ">= 99.0"`), 0o644))

	_, err := h.run("version", "--config", "/cfg.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")
}

func TestExec_Confirmation(t *testing.T) {
	h := newHarness(t)
	seed(h)

	prevConfirm, prevInteractive := confirm, interactive
	t.Cleanup(func() { confirm, interactive = prevConfirm, prevInteractive })
	interactive = func() bool { return true }

	asked := 0
	confirm = func(string) (bool, error) { asked++; return false, nil }
	out := h.mustRun("exec", "DELETE FROM items")
	assert.Contains(t, out, "Aborted")
	assert.Equal(t, 1, asked)

	out = h.mustRun("scalar", "SELECT count(*) FROM items")
	assert.Contains(t, out, "3")

	h.mustRun("exec", "DELETE FROM items", "--yes")
	assert.Equal(t, 1, asked)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version", "--short")
	assert.Equal(t, "0.1.0\n", out)
}

func TestParseParam(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		raw   string
		name  string
		value any
	}{
		{raw: "name=ann", name: "name", value: "ann"},
		{raw: ":name=a=b", name: "name", value: "a=b"},
		{raw: "id:int=7", name: "id", value: int64(7)},
		{raw: "zip:int=010", name: "zip", value: int64(10)},
		{raw: "codes:ints=08,010", name: "codes", value: []int64{8, 10}},
		{raw: "ratio:float=0.5", name: "ratio", value: 0.5},
		{raw: "ok:bool=true", name: "ok", value: true},
		{raw: "at:time=2024-01-02T03:04:05Z", name: "at", value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{raw: "price:decimal=9.99", name: "price", value: decimal.RequireFromString("9.99")},
		{raw: "uid:uuid=" + id.String(), name: "uid", value: id},
		{raw: "gone:null=", name: "gone", value: nil},
		{raw: "ids:ints=1, 2,3", name: "ids", value: []int64{1, 2, 3}},
		{raw: "tags:strs=a,b", name: "tags", value: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name, value, err := parseParam(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}

	_, value, err := parseParam("code:str(8)=AB-1")
	require.NoError(t, err)
	s, ok := value.(params.String)
	require.True(t, ok)
	assert.Equal(t, "AB-1", s.Text())
	assert.Equal(t, 8, s.Length())

	for _, raw := range []string{
		"novalue",
		"bad name=1",
		"id:int=seven",
		"id:int(4)=7",
		"qty:int=3.9",
		"x:blob=1",
		"code:str(2)=toolong",
	} {
		_, _, err := parseParam(raw)
		assert.Error(t, err, raw)
	}
}
