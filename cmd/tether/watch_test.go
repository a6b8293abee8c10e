package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSceneWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("title = \"a\"\n"), 0644))
	other := filepath.Join(dir, "other.toml")

	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	w := &sceneWatcher{
		path:     path,
		debounce: 100 * time.Millisecond,
		log:      zaptest.NewLogger(t),
		onChange: func() {
			calls.Add(1)
			changed <- struct{}{}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("title = \"b\"\n"), 0644))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes triggers one change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSceneWatcherMissingDirectory(t *testing.T) {
	w := &sceneWatcher{
		path:     filepath.Join(t.TempDir(), "nope", "scene.toml"),
		log:      zaptest.NewLogger(t),
		onChange: func() {},
	}
	err := w.Run(context.Background())
	assert.ErrorContains(t, err, "failed to watch")
}
