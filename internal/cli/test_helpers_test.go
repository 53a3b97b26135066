package cli

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/kv"
	"github.com/runnerr0/daybook/internal/store"
)

// testNow pins the clock for command tests.
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

// newTestStore opens a store over a file backend in a temp directory.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	backend, err := kv.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	quiet := log.New(io.Discard, "", 0)
	s := store.Open(context.Background(), codec.New(backend, quiet), store.Options{
		Logger: quiet,
		Now:    func() time.Time { return testNow },
	})
	t.Cleanup(func() {
		s.Close()
		backend.Close()
	})
	return s
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
