// Package kv provides the key-value store abstraction backing the job cache:
// flat field-map storage with per-key expiry, set membership for the active
// search index, and prefix key scans for the search/statistics full scans.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the backing store cannot be reached after
// the adapter exhausted its connection retries.
var ErrUnavailable = errors.New("kv store unavailable")

// Store is the backend contract consumed by the cache subsystem. A missing
// key reads as an empty field map, not an error; expiry is enforced by the
// backend and an expired key reads as missing.
type Store interface {
	// SetMap writes all fields of key in a single operation.
	SetMap(ctx context.Context, key string, fields map[string]string) error

	// GetMap reads all fields of key. Missing or expired keys return an
	// empty map and no error.
	GetMap(ctx context.Context, key string) (map[string]string, error)

	// Expire sets the time-to-live for key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes the given keys. Deleting a missing key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// SAdd adds member to the set stored at key.
	SAdd(ctx context.Context, key, member string) error

	// SRem removes member from the set stored at key.
	SRem(ctx context.Context, key, member string) error

	// SMembers returns all members of the set stored at key.
	SMembers(ctx context.Context, key string) ([]string, error)

	// ScanKeys returns all keys starting with prefix.
	ScanKeys(ctx context.Context, prefix string) ([]string, error)

	// StorageBytes reports the approximate size of the stored data.
	StorageBytes(ctx context.Context) (int64, error)

	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
