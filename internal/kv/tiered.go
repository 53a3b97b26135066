package kv

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"
)

// DefaultReadTimeout bounds each primary-store read. A slow or wedged
// primary falls through to the fallback instead of hanging the caller.
const DefaultReadTimeout = 3 * time.Second

// Tiered composes a primary backend with a local fallback. Reads try the
// primary under a time bound and fall back on failure, timeout, or
// absence. Writes go to the primary and are mirrored to the fallback, so
// the fallback holds a usable copy whenever the primary degrades.
type Tiered struct {
	primary     Backend
	fallback    Backend
	readTimeout time.Duration
	logger      *log.Logger
}

// NewTiered returns a tiered backend. readTimeout <= 0 selects
// DefaultReadTimeout. If logger is nil, a default logger writing to
// stderr is used.
func NewTiered(primary, fallback Backend, readTimeout time.Duration, logger *log.Logger) *Tiered {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[kv] ", log.LstdFlags)
	}
	return &Tiered{
		primary:     primary,
		fallback:    fallback,
		readTimeout: readTimeout,
		logger:      logger,
	}
}

// Get implements Backend.Get. The primary read is individually
// time-bounded; on any primary failure the fallback is consulted and the
// primary error is demoted to a logged warning.
func (t *Tiered) Get(ctx context.Context, key string) (string, bool, error) {
	rctx, cancel := context.WithTimeout(ctx, t.readTimeout)
	defer cancel()

	value, ok, err := t.primary.Get(rctx, key)
	if err == nil {
		if ok {
			return value, true, nil
		}
		// Absent in the primary; a fallback copy may survive from a
		// session where primary writes were failing.
		return t.fallback.Get(ctx, key)
	}

	t.logger.Printf("WARNING: primary get %s failed, using fallback: %v", key, err)
	return t.fallback.Get(ctx, key)
}

// Set implements Backend.Set. The fallback mirror is attempted even when
// the primary write fails; the primary error is reported to the caller.
func (t *Tiered) Set(ctx context.Context, key, value string) error {
	primaryErr := t.primary.Set(ctx, key, value)

	if err := t.fallback.Set(ctx, key, value); err != nil {
		t.logger.Printf("WARNING: fallback set %s failed: %v", key, err)
	}

	if primaryErr != nil {
		return fmt.Errorf("primary set %s: %w", key, primaryErr)
	}
	return nil
}

// Delete implements Backend.Delete. Both stores are addressed; the first
// error wins but both deletes are attempted.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	primaryErr := t.primary.Delete(ctx, key)
	fallbackErr := t.fallback.Delete(ctx, key)

	if primaryErr != nil {
		return fmt.Errorf("primary delete %s: %w", key, primaryErr)
	}
	if fallbackErr != nil {
		return fmt.Errorf("fallback delete %s: %w", key, fallbackErr)
	}
	return nil
}

// Keys implements Backend.Keys, returning the sorted union of both
// stores' keys.
func (t *Tiered) Keys(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}

	primaryKeys, err := t.primary.Keys(ctx)
	if err != nil {
		t.logger.Printf("WARNING: primary keys failed: %v", err)
	}
	for _, k := range primaryKeys {
		seen[k] = true
	}

	fallbackKeys, err := t.fallback.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("fallback keys: %w", err)
	}
	for _, k := range fallbackKeys {
		seen[k] = true
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes both stores.
func (t *Tiered) Close() error {
	primaryErr := t.primary.Close()
	fallbackErr := t.fallback.Close()
	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}
