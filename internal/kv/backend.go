// Package kv provides the opaque key-value persistence backends that
// Daybook collections are stored in: a SQLite-backed primary store, a
// per-key JSON file fallback, and a tiered composite that reads through
// with a time bound and mirrors writes.
package kv

import "context"

// Backend is an opaque string key-value store. Implementations must be
// safe for concurrent use.
type Backend interface {
	// Get returns the value stored under key. ok is false when the key
	// is absent; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)

	Close() error
}
