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

func manifestIn(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return filepath.Join(dir, "active_runtime.json")
}

// TestRuntimeWatcherNotifies verifies a write to a candidate manifest is
// reported once after the debounce, and unrelated files are ignored.
func TestRuntimeWatcherNotifies(t *testing.T) {
	root := t.TempDir()
	path := manifestIn(t, filepath.Join(root, "home"))
	missing := filepath.Join(root, "nope", "active_runtime.json")

	changed := make(chan string, 8)
	w, err := NewRuntimeWatcher([]string{path, missing}, func(p string) { changed <- p }, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("{}"), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"runtime":{}}`), 0o644))
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case got := <-changed:
		t.Fatalf("unexpected second notification for %s", got)
	case <-time.After(600 * time.Millisecond):
	}
}

// TestRuntimeWatcherRemove verifies removing the manifest is reported.
func TestRuntimeWatcherRemove(t *testing.T) {
	path := manifestIn(t, t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls atomic.Int32
	w, err := NewRuntimeWatcher([]string{path}, func(string) { calls.Add(1) }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestRuntimeWatcherNoDirs(t *testing.T) {
	w, err := NewRuntimeWatcher([]string{filepath.Join(t.TempDir(), "x", "active_runtime.json")}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Start(context.Background()), ErrNoWatchableDir)
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.Stop())
}

// TestRuntimeWatcherStop verifies Stop and context cancellation end the
// loop.
func TestRuntimeWatcherStop(t *testing.T) {
	path := manifestIn(t, t.TempDir())
	w, err := NewRuntimeWatcher([]string{path}, func(string) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	cancel()
	assert.Eventually(t, func() bool { return !w.IsRunning() }, time.Second, 5*time.Millisecond)
	assert.NoError(t, w.Stop())
}
