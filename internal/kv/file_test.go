package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileBackend(t *testing.T) *FileBackend {
	t.Helper()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return b
}

func TestFileBackend_SetGet(t *testing.T) {
	b := newTestFileBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "tasks", `[{"id":"t1"}]`))

	value, ok, err := b.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, value)
}

func TestFileBackend_GetAbsent(t *testing.T) {
	b := newTestFileBackend(t)

	_, ok, err := b.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileBackend_WritesNamedFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), "habits", "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "habits.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileBackend_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Set(ctx, "tasks", "[]"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only tasks.json should remain")
}

func TestFileBackend_Delete(t *testing.T) {
	b := newTestFileBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "books", "{}"))
	require.NoError(t, b.Delete(ctx, "books"))

	_, ok, err := b.Get(ctx, "books")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	assert.NoError(t, b.Delete(ctx, "books"))
}

func TestFileBackend_Keys(t *testing.T) {
	b := newTestFileBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "tasks", "[]"))
	require.NoError(t, b.Set(ctx, "inbox_notes", "[]"))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tasks", "inbox_notes"}, keys)
}

func TestFileBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "fallback")
	_, err := NewFileBackend(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
