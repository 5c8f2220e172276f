package ignore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/ainativeignore/internal/watch"
)

func TestReloadOnChange(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{SourceAINativeIgnore: "a.txt\n"})
	e := newDiskEngine(t, root, func(c *Config) { c.Watch = true })
	require.True(t, e.Stats().Watching)
	require.True(t, e.ShouldIgnore("a.txt"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reloaded := make(chan watch.Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- e.ReloadOnChange(ctx, func(ev watch.Event, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- ev:
			default:
			}
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(root, SourceAINativeIgnore), []byte("b.txt\n"), 0o644))

	select {
	case ev := <-reloaded:
		assert.Equal(t, SourceAINativeIgnore, ev.Name)
	case <-ctx.Done():
		t.Fatal("no reload after ignore file change")
	}
	// A single write may arrive as several events; wait for the final content.
	assert.Eventually(t, func() bool {
		return !e.ShouldIgnore("a.txt") && e.ShouldIgnore("b.txt")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, e.Dispose())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ReloadOnChange did not return after Dispose")
	}
}

func TestReloadOnChangeWithoutWatch(t *testing.T) {
	e := newDiskEngine(t, t.TempDir(), nil)
	assert.Nil(t, e.Changes())
	assert.Error(t, e.ReloadOnChange(context.Background(), nil))
}

func TestWatchedFilesFollowGitignoreFallback(t *testing.T) {
	on := newDiskEngine(t, t.TempDir(), nil)
	assert.Equal(t, []string{SourceAINativeIgnore, SourceAIIgnore, SourceGitignore}, on.watchedFiles())

	off := newDiskEngine(t, t.TempDir(), func(c *Config) { c.GitignoreFallback = false })
	assert.Equal(t, []string{SourceAINativeIgnore, SourceAIIgnore}, off.watchedFiles())
}
