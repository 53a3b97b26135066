package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/daybook/internal/model"
)

// Opens the full storage stack, sqlite driver included, against a temp
// data directory. This path is exactly what every command's Execute
// runs, so a wiring regression (an unregistered driver, a bad default
// path) fails here instead of in the shipped binary.
func TestOpenDefaultStore_WiresFullStack(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := fmt.Sprintf("storage:\n  path: %s\n", dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	s, cleanup, err := openDefaultStore(&GlobalFlags{Config: cfgPath})
	require.NoError(t, err)
	defer cleanup()

	require.True(t, s.Ready())
	require.NoError(t, s.AddTask(model.Task{ID: "t1", Title: "persisted"}))
	s.Flush()

	_, statErr := os.Stat(filepath.Join(dir, "daybook.db"))
	assert.NoError(t, statErr, "sqlite database file should exist after opening")

	task, ok := s.TaskByID("t1")
	require.True(t, ok)
	assert.Equal(t, "persisted", task.Title)
}

func TestResolveDate(t *testing.T) {
	got, err := resolveDate("2024-06-20", testNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-20", got)

	got, err = resolveDate("tomorrow", testNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-16", got)

	_, err = resolveDate("gibberish input", testNow)
	assert.Error(t, err)

	got, err = resolveDate("", testNow)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
