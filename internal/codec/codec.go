// Package codec translates between named collections and the JSON blobs
// stored in the key-value backend. Every collection has a fixed key; a
// load that fails for any reason yields the collection's default value
// rather than an error, so one corrupt or unreachable blob never takes
// the rest of the application down with it.
package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/runnerr0/daybook/internal/kv"
)

// Collection keys. Each entity type is stored whole under exactly one
// key; the registry below is the single source of truth for purge
// enumeration, so a new collection must be added here or it will be
// silently retained by PurgeAll.
const (
	KeyTasks          = "tasks"
	KeyHabits         = "habits"
	KeyFinance        = "finance"
	KeyBooks          = "books"
	KeyInboxNotes     = "inbox_notes"
	KeyYearlyReports  = "yearly_reports"
	KeyTaskCategories = "task_categories"
	KeyTaskTags       = "task_tags"
	KeyOnboarding     = "onboarding"
)

// Keys returns every registered collection key.
func Keys() []string {
	return []string{
		KeyTasks,
		KeyHabits,
		KeyFinance,
		KeyBooks,
		KeyInboxNotes,
		KeyYearlyReports,
		KeyTaskCategories,
		KeyTaskTags,
		KeyOnboarding,
	}
}

// Codec reads and writes collections through a backend.
type Codec struct {
	backend kv.Backend
	logger  *log.Logger
}

// New creates a Codec. If logger is nil, a default logger writing to
// stderr is used.
func New(backend kv.Backend, logger *log.Logger) *Codec {
	if logger == nil {
		logger = log.New(os.Stderr, "[codec] ", log.LstdFlags)
	}
	return &Codec{backend: backend, logger: logger}
}

// Backend exposes the underlying backend (used by purge).
func (c *Codec) Backend() kv.Backend {
	return c.backend
}

// Load fetches and decodes the collection stored under key. An absent
// key, a backend failure, or an unparseable blob all yield def; failures
// are logged, never returned. Load must not be trusted to return the
// same slice it was given as def — callers own the result.
func Load[T any](ctx context.Context, c *Codec, key string, def T) T {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Printf("WARNING: load %s failed, using default: %v", key, err)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		c.logger.Printf("WARNING: %s blob is unparseable, using default: %v", key, err)
		return def
	}
	return v
}

// Save encodes the collection and writes it under key. Backend errors
// return to the caller; the in-memory state the collection came from is
// never rolled back.
func Save[T any](ctx context.Context, c *Codec, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
