package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bracket.zy")
	require.NoError(t, os.WriteFile(path, []byte("(+ 1 2)"), 0o600))

	w, err := New(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("(+ 1 3)"), 0o600))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bracket.zy")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	w, err := New(path, 100*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o600))
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
	select {
	case <-changes:
		t.Fatal("burst should produce a single signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestIsRelevantEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bracket.zy")

	w, err := New(path, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.Equal(t, DefaultDebounce, w.debounce)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to script", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"rename onto script", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "other.zy"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, w.isRelevantEvent(tt.event))
		})
	}
}
