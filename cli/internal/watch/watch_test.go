package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1"), 0o644))

	var runs atomic.Int32
	w, err := NewWatcher(file, func() error {
		runs.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sql"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("SELECT 2"), 0o644))

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_ReportsCallbackErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	errs := make(chan error, 1)
	w, err := NewWatcher(file, func() error { return assert.AnError }, func(err error) { errs <- err })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("callback error not reported")
	}
}
