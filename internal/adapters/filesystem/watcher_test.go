package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReportsKnpWrite(t *testing.T) {
	dir := t.TempDir()
	writeSpriteFile(t, dir, "Cat", "motion.move(10)")

	fw, err := NewFileWatcher()
	require.NoError(t, err)
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cat"+spriteExt), []byte("motion.move(20)"), 0o644))

	select {
	case evt := <-events:
		assert.Equal(t, "cat"+spriteExt, evt.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for file change event")
	}
}

func TestFileWatcherIgnoresNonKnpFiles(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher()
	require.NoError(t, err)
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case evt := <-events:
		t.Fatalf("unexpected event for non-.knp file: %+v", evt)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcherIgnoresKatnipcDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".katnipc"), 0o755))

	fw, err := NewFileWatcher()
	require.NoError(t, err)
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".katnipc", "ignored.knp"), []byte("x"), 0o644))

	select {
	case evt := <-events:
		t.Fatalf("unexpected event inside ignored .katnipc dir: %+v", evt)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcherStopClosesChannel(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher()
	require.NoError(t, err)

	events, err := fw.Watch(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, fw.Stop())

	_, ok := <-events
	assert.False(t, ok, "events channel should be closed after Stop")
}
