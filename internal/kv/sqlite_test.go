package kv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestBackend creates a migrated in-memory SQLite backend.
func openTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	backend, err := NewSQLiteBackend(db)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return backend
}

func TestSQLiteBackend_SetGet(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "tasks", `[{"id":"t1"}]`))

	value, ok, err := b.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, value)
}

func TestSQLiteBackend_GetAbsent(t *testing.T) {
	b := openTestBackend(t)

	value, ok, err := b.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSQLiteBackend_SetOverwrites(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "habits", "[]"))
	require.NoError(t, b.Set(ctx, "habits", `[{"id":"h1"}]`))

	value, ok, err := b.Get(ctx, "habits")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"h1"}]`, value)
}

func TestSQLiteBackend_Delete(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "books", "{}"))
	require.NoError(t, b.Delete(ctx, "books"))

	_, ok, err := b.Get(ctx, "books")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteBackend_DeleteAbsent(t *testing.T) {
	b := openTestBackend(t)
	assert.NoError(t, b.Delete(context.Background(), "never-stored"))
}

func TestSQLiteBackend_Keys(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, b.Set(ctx, "tasks", "[]"))
	require.NoError(t, b.Set(ctx, "finance", "{}"))
	require.NoError(t, b.Set(ctx, "books", "{}"))

	keys, err = b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "finance", "tasks"}, keys)
}

func TestOpenSQLite_CreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daybook.db")

	b, err := OpenSQLite(path)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "tasks", "[]"))

	value, ok, err := b.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}
