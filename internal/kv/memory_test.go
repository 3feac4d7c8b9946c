package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	fields := map[string]string{"title": "Engineer", "company": "Acme"}
	require.NoError(t, store.SetMap(ctx, "job-scraping:abc", fields))

	got, err := store.GetMap(ctx, "job-scraping:abc")
	require.NoError(t, err)
	assert.Equal(t, fields, got)

	// Mutating the returned map must not leak into the store.
	got["title"] = "changed"

	again, err := store.GetMap(ctx, "job-scraping:abc")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", again["title"])
}

func TestMemoryStoreMissingKeyReadsEmpty(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.GetMap(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.SetMap(ctx, "key", map[string]string{"a": "1"}))
	require.NoError(t, store.Expire(ctx, "key", time.Hour))

	got, err := store.GetMap(ctx, "key")
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	now = now.Add(2 * time.Hour)

	got, err = store.GetMap(ctx, "key")
	require.NoError(t, err)
	assert.Empty(t, got)

	keys, err := store.ScanKeys(ctx, "key")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SAdd(ctx, "active", "fp1"))
	require.NoError(t, store.SAdd(ctx, "active", "fp2"))
	require.NoError(t, store.SAdd(ctx, "active", "fp1"))

	members, err := store.SMembers(ctx, "active")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fp1", "fp2"}, members)

	require.NoError(t, store.SRem(ctx, "active", "fp1"))

	members, err = store.SMembers(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, []string{"fp2"}, members)
}

func TestMemoryStoreScanKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetMap(ctx, "job-scraping:a", map[string]string{"x": "1"}))
	require.NoError(t, store.SetMap(ctx, "job-scraping:b", map[string]string{"x": "2"}))
	require.NoError(t, store.SetMap(ctx, "search:c", map[string]string{"x": "3"}))

	keys, err := store.ScanKeys(ctx, "job-scraping:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"job-scraping:a", "job-scraping:b"}, keys)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetMap(ctx, "a", map[string]string{"x": "1"}))
	require.NoError(t, store.SAdd(ctx, "b", "m"))

	require.NoError(t, store.Delete(ctx, "a", "b"))

	got, err := store.GetMap(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got)

	members, err := store.SMembers(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, members)
}
