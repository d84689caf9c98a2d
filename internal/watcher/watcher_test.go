package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	assert.ErrorIs(t, err, os.ErrInvalid)
	assert.Nil(t, w)
}

func TestNewWatcher_RejectsBadPattern(t *testing.T) {
	_, err := NewWatcher(100*time.Millisecond, []string{"[unclosed"}, nil, func([]string) {})
	assert.Error(t, err)
}

func waitForChange(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-ch:
		return paths
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file change event")
		return nil
	}
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))

	changed := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules"}, []string{"*_test.go"}, func(paths []string) {
		changed <- paths
	})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{root}))

	t.Run("Supported file is reported", func(t *testing.T) {
		file := filepath.Join(root, "main.go")
		require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))
		assert.Contains(t, waitForChange(t, changed), file)
	})

	t.Run("Filtered files are not reported", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# x\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "main_test.go"), []byte("package main\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "lib.js"), []byte("x\n"), 0o644))

		select {
		case paths := <-changed:
			t.Fatalf("unexpected change batch %v", paths)
		case <-time.After(500 * time.Millisecond):
		}
	})

	t.Run("New directories are watched", func(t *testing.T) {
		sub := filepath.Join(root, "pkg")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		file := filepath.Join(sub, "app.ts")
		require.NoError(t, os.WriteFile(file, []byte("export const A = 1;\n"), 0o644))

		deadline := time.After(3 * time.Second)
		for {
			select {
			case paths := <-changed:
				for _, p := range paths {
					if p == file {
						return
					}
				}
			case <-deadline:
				t.Fatal("timed out waiting for file in new directory")
			}
		}
	})
}
