package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths []string, opts Options) *FileWatcher {
	t.Helper()
	w, err := New(paths, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
		<-done
	})

	// Give the watch time to register before the test writes.
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.Error(t, err)
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	assert.Equal(t, DefaultOptions(), o)

	custom := Options{DebounceWindow: time.Second}.WithDefaults()
	assert.Equal(t, time.Second, custom.DebounceWindow)
}

func TestFileWatcher_Modify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("eat\n"), 0o644))

	w := startWatcher(t, []string{path}, Options{DebounceWindow: 50 * time.Millisecond})
	assert.Equal(t, "fsnotify", w.Mode())

	require.NoError(t, os.WriteFile(path, []byte("eat\ntea\n"), 0o644))

	batch := recvBatch(t, w.Events(), 3*time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, path, batch[0].Path)
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("eat\n"), 0o644))

	w := startWatcher(t, []string{path}, Options{DebounceWindow: 30 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case batch := <-w.Events():
		t.Fatalf("unexpected batch: %v", batch)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("eat\n"), 0o644))

	w := startWatcher(t, []string{path}, Options{DebounceWindow: 50 * time.Millisecond})

	tmp := filepath.Join(dir, "words.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("tea\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	batch := recvBatch(t, w.Events(), 3*time.Second)
	require.NotEmpty(t, batch)
	assert.Equal(t, path, batch[0].Path)
}

func TestFileWatcher_Polling(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")

	w := startWatcher(t, []string{path}, Options{
		ForcePolling:   true,
		PollInterval:   30 * time.Millisecond,
		DebounceWindow: 30 * time.Millisecond,
	})
	assert.Equal(t, "polling", w.Mode())

	require.NoError(t, os.WriteFile(path, []byte("eat\n"), 0o644))

	batch := recvBatch(t, w.Events(), 3*time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, OpCreate, batch[0].Operation)
}

func TestFileWatcher_StopClosesChannels(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "words.txt")}, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
	_, ok = <-w.Errors()
	assert.False(t, ok)
}
