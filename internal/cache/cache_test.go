package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/kv"
)

// testClock drives the cache's expiry decisions so TTL behavior can be
// exercised without sleeping. The store stays on the wall clock, which keeps
// backend-level key expiry out of the picture.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(t *testing.T, opts ...Option) (*Cache, *kv.MemoryStore, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}

	store := kv.NewMemoryStore()

	opts = append([]Option{WithClock(clock.Now)}, opts...)

	return New(store, opts...), store, clock
}

func sampleJobs() []domain.JobRecord {
	return []domain.JobRecord{
		{
			Title:      "Backend Engineer",
			Company:    "Acme",
			Location:   "Remote",
			RemoteWork: domain.RemoteYes,
		},
		{
			Title:    "Data Engineer",
			Company:  "Beta Corp",
			Location: "New York, NY",
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	meta := map[string]string{"keywords": "engineer"}
	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), meta))

	result, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "fp1", result.CacheKey)
	assert.Equal(t, 2, result.JobCount)
	assert.Equal(t, meta, result.Metadata)
	require.Len(t, result.Jobs, 2)

	titles := []string{result.Jobs[0].Title, result.Jobs[1].Title}
	assert.ElementsMatch(t, []string{"Backend Engineer", "Data Engineer"}, titles)

	// Records carry derived IDs after storage.
	for _, job := range result.Jobs {
		assert.NotEmpty(t, job.JobID)
	}
}

func TestGetAbsent(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	result, err := c.Get(ctx, "never-stored")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupStates(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestCache(t, WithTTL(time.Hour))

	state, err := c.Lookup(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)

	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), nil))

	state, err = c.Lookup(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, StateFresh, state)

	clock.Advance(2 * time.Hour)

	state, err = c.Lookup(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, StateStale, state)
}

func TestGetStaleClearsEntry(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestCache(t, WithTTL(time.Hour))

	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), nil))

	clock.Advance(2 * time.Hour)

	result, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Nil(t, result)

	// The stale entry is gone from the active set too.
	members, err := store.SMembers(ctx, "active_searches")
	require.NoError(t, err)
	assert.Empty(t, members)

	state, err := c.Lookup(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)
}

func TestPutSkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	jobs := append(sampleJobs(), domain.JobRecord{Location: "Nowhere"})
	require.NoError(t, c.Put(ctx, "fp1", jobs, nil))

	result, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.JobCount)
}

func TestPutDetectsRemoteWork(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	jobs := []domain.JobRecord{
		{Title: "Engineer", Company: "Acme", Location: "Remote, US"},
	}
	require.NoError(t, c.Put(ctx, "fp1", jobs, nil))

	result, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, domain.RemoteYes, result.Jobs[0].RemoteWork)
}

func TestSharedRecordDeletedWithOtherQuery(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	shared := sampleJobs()

	require.NoError(t, c.Put(ctx, "fp1", shared, nil))
	require.NoError(t, c.Put(ctx, "fp2", shared, nil))

	require.NoError(t, c.ClearSearch(ctx, "fp1"))

	// No reference counting: fp2's entry survives but its records are gone.
	state, err := c.Lookup(ctx, "fp2")
	require.NoError(t, err)
	assert.Equal(t, StateFresh, state)

	result, err := c.Get(ctx, "fp2")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Jobs)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), nil))

	result, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.Len(t, result.Jobs, 2)

	ids := []string{result.Jobs[0].JobID, result.Jobs[1].JobID, "missing-id"}

	updated, err := c.UpdateStatus(ctx, ids, "applied")
	require.NoError(t, err)
	assert.Equal(t, 2, updated, "unknown IDs are skipped, not errors")

	// The status lands next to the record's other fields and nothing else
	// is lost in the rewrite.
	fields, err := store.GetMap(ctx, recordKey(result.Jobs[0].JobID))
	require.NoError(t, err)
	assert.Equal(t, "applied", fields[fieldStatus])
	assert.Equal(t, result.Jobs[0].Title, fields[fieldTitle])

	// The records still decode the same through the normal read path.
	after, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.Len(t, after.Jobs, 2)
	assert.ElementsMatch(t, result.Jobs, after.Jobs)
}

func TestClearExpiredOnly(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestCache(t, WithTTL(time.Hour))

	require.NoError(t, c.Put(ctx, "old", sampleJobs(), nil))

	clock.Advance(2 * time.Hour)

	require.NoError(t, c.Put(ctx, "fresh", []domain.JobRecord{
		{Title: "New Role", Company: "Gamma"},
	}, nil))

	cleared, err := c.Clear(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	state, err := c.Lookup(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, StateFresh, state)

	state, err = c.Lookup(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), nil))
	require.NoError(t, c.Put(ctx, "fp2", []domain.JobRecord{
		{Title: "Another", Company: "Gamma"},
	}, nil))

	cleared, err := c.Clear(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	keys, err := store.ScanKeys(ctx, RecordKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = store.ScanKeys(ctx, SearchKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	members, err := store.SMembers(ctx, "active_searches")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	meta := map[string]string{"keywords": "engineer"}
	require.NoError(t, c.Put(ctx, "fp1", sampleJobs(), meta))

	status, err := c.Status(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, status.TotalSearches)
	assert.Equal(t, 2, status.TotalJobHashes)
	assert.Equal(t, 2, status.TotalJobs)
	assert.Equal(t, c.TTL().String(), status.CacheDuration)
	assert.Positive(t, status.StorageBytes)

	require.Len(t, status.Searches, 1)
	assert.Equal(t, "fp1", status.Searches[0].CacheKey)
	assert.Equal(t, 2, status.Searches[0].JobCount)
	assert.Equal(t, meta, status.Searches[0].Metadata)
}
