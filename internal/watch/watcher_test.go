package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsNamedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{".ainativeignore"})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ainativeignore"), []byte("*.log\n"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, ".ainativeignore", ev.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change event for .ainativeignore")
	}
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := New(t.TempDir(), []string{".aiignore"})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), []string{".aiignore"})
	assert.Error(t, err)
}
