// Package cache implements the TTL-based query-result cache for scraped job
// listings: per-record storage keyed by content-derived IDs, a per-query
// index entry mapping a search fingerprint to its record IDs, and a global
// set of active fingerprints for enumeration and expiry sweeps.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/kv"
)

const (
	// RecordKeyPrefix namespaces individual job record hashes.
	RecordKeyPrefix = "job-scraping:"

	// SearchKeyPrefix namespaces per-query index entries.
	SearchKeyPrefix = "search:"

	// activeSearchSet holds all live query fingerprints so sweeps do not
	// need a full key scan.
	activeSearchSet = "active_searches"

	// DefaultTTL matches the scraper's 72-hour cache window.
	DefaultTTL = 72 * time.Hour

	statusSampleLimit = 10
)

// State is the freshness of a query fingerprint in the cache.
type State int

const (
	// StateAbsent means no index entry exists for the fingerprint.
	StateAbsent State = iota

	// StateFresh means the entry exists and has not expired.
	StateFresh

	// StateStale means the entry exists but its expiry has passed.
	StateStale
)

// Result is a cached query result: the index entry metadata plus the decoded
// records it references. CacheWriteFailed is set on freshly scraped results
// whose cache fill did not stick; the jobs are still good but the next
// identical query will scrape again.
type Result struct {
	Timestamp        string             `json:"timestamp"`
	CacheKey         string             `json:"cache_key"`
	Metadata         map[string]string  `json:"metadata"`
	JobCount         int                `json:"job_count"`
	Jobs             []domain.JobRecord `json:"data"`
	CacheWriteFailed bool               `json:"cache_write_failed,omitempty"`
}

// Cache is the query-result cache. It owns the index entries and the active
// search set; record storage is shared between entries and carries no
// reference counts (clearing one query deletes the records it names even if
// another live entry references them).
type Cache struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default cache duration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the clock used for expiry decisions. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a Cache on top of the given store.
func New(store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TTL returns the configured cache duration.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func recordKey(jobID string) string {
	return RecordKeyPrefix + jobID
}

func searchKey(cacheKey string) string {
	return SearchKeyPrefix + cacheKey
}

// Lookup reports the freshness of a fingerprint without loading its records.
// An entry whose expiry field is missing or unparsable counts as stale so
// the next sweep removes it.
func (c *Cache) Lookup(ctx context.Context, cacheKey string) (State, error) {
	entry, err := c.store.GetMap(ctx, searchKey(cacheKey))
	if err != nil {
		return StateAbsent, fmt.Errorf("cache lookup: %w", err)
	}

	if len(entry) == 0 {
		return StateAbsent, nil
	}

	expiresAt, err := time.Parse(time.RFC3339, entry[fieldExpiresAt])
	if err != nil {
		return StateStale, nil
	}

	if c.now().Before(expiresAt) {
		return StateFresh, nil
	}

	return StateStale, nil
}

// Get returns the cached result for a fingerprint, or nil when the entry is
// absent or stale (the caller falls through to scraping). A stale entry is
// cleared eagerly. Records referenced by the entry that no longer resolve
// are skipped, not treated as a cache failure.
func (c *Cache) Get(ctx context.Context, cacheKey string) (*Result, error) {
	state, err := c.Lookup(ctx, cacheKey)
	if err != nil {
		return nil, err
	}

	switch state {
	case StateAbsent:
		return nil, nil
	case StateStale:
		log.Printf("cache: entry expired for key %s", cacheKey)

		if err := c.ClearSearch(ctx, cacheKey); err != nil {
			log.Printf("cache: failed to clear expired entry %s: %v", cacheKey, err)
		}

		return nil, nil
	}

	entry, err := c.store.GetMap(ctx, searchKey(cacheKey))
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var jobIDs []string
	if err := json.Unmarshal([]byte(entry[fieldJobIDs]), &jobIDs); err != nil {
		jobIDs = nil
	}

	jobs := make([]domain.JobRecord, 0, len(jobIDs))

	for _, jobID := range jobIDs {
		fields, err := c.store.GetMap(ctx, recordKey(jobID))
		if err != nil {
			return nil, fmt.Errorf("cache get record %s: %w", jobID, err)
		}

		if len(fields) == 0 {
			continue
		}

		jobs = append(jobs, DecodeRecord(fields))
	}

	log.Printf("cache: loaded %d jobs for key %s", len(jobs), cacheKey)

	return &Result{
		Timestamp: entry[fieldCreatedAt],
		CacheKey:  cacheKey,
		Metadata:  decodeMetadata(entry[fieldMetadata]),
		JobCount:  len(jobs),
		Jobs:      jobs,
	}, nil
}

// Put stores a batch of scraped records under the given fingerprint. Each
// record gets its own key and TTL; the index entry references only the
// records that were written successfully. Invalid records and per-record
// write failures are logged and skipped; an index entry write failure fails
// the whole operation.
func (c *Cache) Put(ctx context.Context, cacheKey string, jobs []domain.JobRecord, metadata map[string]string) error {
	now := c.now()
	expiresAt := now.Add(c.ttl)

	savedIDs := make([]string, 0, len(jobs))

	for i := range jobs {
		job := jobs[i]

		if !job.IsValid() {
			log.Printf("cache: skipping record without title or company (url=%s)", job.JobURL)
			continue
		}

		job.EnsureID()

		if job.RemoteWork == "" {
			job.RemoteWork = domain.DetectRemoteWork(job.Title, job.Location, job.Description)
		}

		key := recordKey(job.JobID)

		if err := c.store.SetMap(ctx, key, EncodeRecord(job, now, expiresAt)); err != nil {
			log.Printf("cache: failed to save record %s: %v", job.JobID, err)
			continue
		}

		if err := c.store.Expire(ctx, key, c.ttl); err != nil {
			log.Printf("cache: failed to set expiry on record %s: %v", job.JobID, err)
		}

		savedIDs = append(savedIDs, job.JobID)
	}

	jobIDs, err := json.Marshal(savedIDs)
	if err != nil {
		return fmt.Errorf("cache put: encode job ids: %w", err)
	}

	entry := map[string]string{
		fieldCacheKey:  cacheKey,
		fieldJobIDs:    string(jobIDs),
		fieldJobCount:  strconv.Itoa(len(savedIDs)),
		fieldMetadata:  encodeMetadata(metadata),
		fieldCreatedAt: now.Format(time.RFC3339),
		fieldExpiresAt: expiresAt.Format(time.RFC3339),
	}

	key := searchKey(cacheKey)

	if err := c.store.SetMap(ctx, key, entry); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	if err := c.store.Expire(ctx, key, c.ttl); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	if err := c.store.SAdd(ctx, activeSearchSet, cacheKey); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	log.Printf("cache: saved %d jobs under key %s", len(savedIDs), cacheKey)

	return nil
}

// UpdateStatus sets the status field on the record hashes of the given job
// IDs and returns how many records were updated. IDs without a stored record
// are skipped. The record's TTL is left untouched; the write is a
// read-modify-write of the whole hash because the file backend replaces the
// stored map on every SetMap.
func (c *Cache) UpdateStatus(ctx context.Context, jobIDs []string, status string) (int, error) {
	updated := 0

	for _, jobID := range jobIDs {
		key := recordKey(jobID)

		fields, err := c.store.GetMap(ctx, key)
		if err != nil {
			return updated, fmt.Errorf("cache update status %s: %w", jobID, err)
		}

		if len(fields) == 0 {
			continue
		}

		fields[fieldStatus] = status

		if err := c.store.SetMap(ctx, key, fields); err != nil {
			return updated, fmt.Errorf("cache update status %s: %w", jobID, err)
		}

		updated++
	}

	log.Printf("cache: set status %q on %d of %d jobs", status, updated, len(jobIDs))

	return updated, nil
}

// ClearSearch removes one query's index entry, the records it references and
// its active-set registration. There is no reference counting: records named
// by other live entries are deleted too.
func (c *Cache) ClearSearch(ctx context.Context, cacheKey string) error {
	entry, err := c.store.GetMap(ctx, searchKey(cacheKey))
	if err != nil {
		return fmt.Errorf("cache clear %s: %w", cacheKey, err)
	}

	var jobIDs []string
	if raw, ok := entry[fieldJobIDs]; ok {
		if err := json.Unmarshal([]byte(raw), &jobIDs); err != nil {
			jobIDs = nil
		}
	}

	keys := make([]string, 0, len(jobIDs)+1)
	for _, jobID := range jobIDs {
		keys = append(keys, recordKey(jobID))
	}

	keys = append(keys, searchKey(cacheKey))

	if err := c.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cache clear %s: %w", cacheKey, err)
	}

	if err := c.store.SRem(ctx, activeSearchSet, cacheKey); err != nil {
		return fmt.Errorf("cache clear %s: %w", cacheKey, err)
	}

	return nil
}

// Clear removes cache entries. With expiredOnly it sweeps the active set and
// removes only entries whose expiry has passed (an entry the backend already
// dropped, or one with an unparsable expiry, counts as expired), then drops
// expired record hashes. Without it, everything reachable is deleted and the
// active set cleared. Returns the number of searches removed.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) (int, error) {
	if expiredOnly {
		return c.clearExpired(ctx)
	}

	return c.clearAll(ctx)
}

func (c *Cache) clearExpired(ctx context.Context) (int, error) {
	active, err := c.store.SMembers(ctx, activeSearchSet)
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}

	now := c.now()
	cleared := 0

	for _, cacheKey := range active {
		state, err := c.Lookup(ctx, cacheKey)
		if err != nil {
			return cleared, err
		}

		if state == StateFresh {
			continue
		}

		if err := c.ClearSearch(ctx, cacheKey); err != nil {
			log.Printf("cache: sweep failed for %s: %v", cacheKey, err)
			continue
		}

		cleared++
	}

	// Records can outlive their index entry when two queries shared them
	// and only one was cleared; drop any whose own expiry has passed.
	recordKeys, err := c.store.ScanKeys(ctx, RecordKeyPrefix)
	if err != nil {
		return cleared, fmt.Errorf("cache sweep: %w", err)
	}

	expiredRecords := 0

	for _, key := range recordKeys {
		fields, err := c.store.GetMap(ctx, key)
		if err != nil {
			return cleared, fmt.Errorf("cache sweep: %w", err)
		}

		expired := len(fields) == 0

		if !expired {
			expiresAt, err := time.Parse(time.RFC3339, fields[fieldExpiresAt])
			expired = err != nil || now.After(expiresAt)
		}

		if expired {
			if err := c.store.Delete(ctx, key); err != nil {
				log.Printf("cache: failed to delete expired record %s: %v", key, err)
				continue
			}

			expiredRecords++
		}
	}

	log.Printf("cache: sweep removed %d searches and %d records", cleared, expiredRecords)

	return cleared, nil
}

func (c *Cache) clearAll(ctx context.Context) (int, error) {
	active, err := c.store.SMembers(ctx, activeSearchSet)
	if err != nil {
		return 0, fmt.Errorf("cache clear all: %w", err)
	}

	for _, cacheKey := range active {
		if err := c.ClearSearch(ctx, cacheKey); err != nil {
			log.Printf("cache: clear failed for %s: %v", cacheKey, err)
		}
	}

	// Remove any strays not registered in the active set.
	for _, prefix := range []string{RecordKeyPrefix, SearchKeyPrefix} {
		keys, err := c.store.ScanKeys(ctx, prefix)
		if err != nil {
			return len(active), fmt.Errorf("cache clear all: %w", err)
		}

		if len(keys) > 0 {
			if err := c.store.Delete(ctx, keys...); err != nil {
				return len(active), fmt.Errorf("cache clear all: %w", err)
			}
		}
	}

	if err := c.store.Delete(ctx, activeSearchSet); err != nil {
		return len(active), fmt.Errorf("cache clear all: %w", err)
	}

	log.Printf("cache: cleared all data (%d searches)", len(active))

	return len(active), nil
}

// Status returns an operational snapshot: live query and record counts,
// approximate storage size, and a capped sample of query metadata.
func (c *Cache) Status(ctx context.Context) (*domain.CacheStatus, error) {
	active, err := c.store.SMembers(ctx, activeSearchSet)
	if err != nil {
		return nil, fmt.Errorf("cache status: %w", err)
	}

	recordKeys, err := c.store.ScanKeys(ctx, RecordKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("cache status: %w", err)
	}

	storageBytes, err := c.store.StorageBytes(ctx)
	if err != nil {
		log.Printf("cache: storage size unavailable: %v", err)
		storageBytes = 0
	}

	status := &domain.CacheStatus{
		TotalSearches:  len(active),
		TotalJobHashes: len(recordKeys),
		CacheDuration:  c.ttl.String(),
		Searches:       []domain.SearchDetail{},
	}

	for _, cacheKey := range active {
		entry, err := c.store.GetMap(ctx, searchKey(cacheKey))
		if err != nil {
			return nil, fmt.Errorf("cache status: %w", err)
		}

		if len(entry) == 0 {
			continue
		}

		jobCount, _ := strconv.Atoi(entry[fieldJobCount])
		status.TotalJobs += jobCount

		if len(status.Searches) < statusSampleLimit {
			status.Searches = append(status.Searches, domain.SearchDetail{
				CacheKey:  cacheKey,
				JobCount:  jobCount,
				CreatedAt: entry[fieldCreatedAt],
				ExpiresAt: entry[fieldExpiresAt],
				Metadata:  decodeMetadata(entry[fieldMetadata]),
			})
		}
	}

	status.StorageBytes = storageBytes

	return status, nil
}
