// Package service coordinates the scraper and the cache behind a single API
// used by the HTTP handlers and the sweep task.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/cache"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/scraper"
	"github.com/sadewadee/linkedin-jobs-scraper/tlmt"
)

// JobService answers job queries cache-first and falls back to a live scrape
// on a miss. Concurrent requests for the same query fingerprint share one
// scrape through the singleflight group.
type JobService struct {
	cache     *cache.Cache
	scraper   scraper.Scraper
	telemetry tlmt.Telemetry
	group     singleflight.Group
	logger    *log.Logger
}

func NewJobService(c *cache.Cache, s scraper.Scraper, telemetry tlmt.Telemetry) *JobService {
	return &JobService{
		cache:     c,
		scraper:   s,
		telemetry: telemetry,
		logger:    log.New(log.Writer(), "[service] ", log.LstdFlags),
	}
}

// GetJobs returns the jobs for a query, from cache when a fresh entry exists,
// otherwise by scraping and caching the result. With forceRefresh the cache
// read is skipped and the scrape always runs.
func (s *JobService) GetJobs(ctx context.Context, query domain.SearchQuery, forceRefresh bool) (*cache.Result, error) {
	query = query.WithDefaults()
	key := cache.BuildKey(query)

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.getJobs(ctx, key, query, forceRefresh)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.Printf("request for key %s shared an in-flight scrape", key)
	}

	return v.(*cache.Result), nil
}

func (s *JobService) getJobs(ctx context.Context, key string, query domain.SearchQuery, forceRefresh bool) (*cache.Result, error) {
	if !forceRefresh {
		result, err := s.cache.Get(ctx, key)
		if err != nil {
			// A broken cache degrades to a live scrape.
			s.logger.Printf("cache read failed for key %s, scraping instead: %v", key, err)
		} else if result != nil {
			_ = s.telemetry.Send(ctx, tlmt.NewEvent("jobs.cache_hit", map[string]any{
				"job_count": result.JobCount,
			}))

			return result, nil
		}
	}

	start := time.Now()

	jobs, err := s.scraper.Scrape(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scrape jobs: %w", err)
	}

	_ = s.telemetry.Send(ctx, tlmt.NewEvent("jobs.scraped", map[string]any{
		"job_count":  len(jobs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}))

	now := time.Now()
	metadata := map[string]string{
		"session_id": uuid.New().String(),
		"keywords":   query.Keywords,
		"location":   query.Location,
		"scraped_at": now.Format(time.RFC3339),
	}

	result := &cache.Result{
		Timestamp: now.Format(time.RFC3339),
		CacheKey:  key,
		Metadata:  metadata,
		JobCount:  len(jobs),
		Jobs:      jobs,
	}

	if err := s.cache.Put(ctx, key, jobs, metadata); err != nil {
		// The scrape succeeded; a cache write failure must not lose it,
		// but the caller has to know the results were not persisted.
		s.logger.Printf("cache write failed for key %s: %v", key, err)
		result.CacheWriteFailed = true
	}

	return result, nil
}

// BulkUpdateStatus marks a batch of cached jobs with a workflow status, for
// example "applied" or "rejected". Unknown job IDs are skipped; the returned
// count covers only the records actually updated.
func (s *JobService) BulkUpdateStatus(ctx context.Context, jobIDs []string, status string) (int, error) {
	updated, err := s.cache.UpdateStatus(ctx, jobIDs, status)
	if err != nil {
		return updated, err
	}

	s.logger.Printf("marked %d of %d jobs as %q", updated, len(jobIDs), status)

	return updated, nil
}

// SearchCached filters already-cached records without touching the scraper.
func (s *JobService) SearchCached(ctx context.Context, crit domain.SearchCriteria) ([]domain.JobRecord, error) {
	return s.cache.Search(ctx, crit)
}

// Statistics aggregates grouped counts over all cached records.
func (s *JobService) Statistics(ctx context.Context) (*domain.JobStatistics, error) {
	return s.cache.Statistics(ctx)
}

// CacheStatus returns the operational snapshot of the cache.
func (s *JobService) CacheStatus(ctx context.Context) (*domain.CacheStatus, error) {
	return s.cache.Status(ctx)
}

// ClearCache removes cached data, expired entries only or everything.
func (s *JobService) ClearCache(ctx context.Context, expiredOnly bool) (int, error) {
	cleared, err := s.cache.Clear(ctx, expiredOnly)
	if err != nil {
		return cleared, err
	}

	_ = s.telemetry.Send(ctx, tlmt.NewEvent("cache.cleared", map[string]any{
		"expired_only": expiredOnly,
		"cleared":      cleared,
	}))

	return cleared, nil
}

// Categories lists the classifier's category names, "All" first.
func (s *JobService) Categories() []string {
	return scraper.Categories()
}

// TrustedCompanies lists the trusted-company allow-list.
func (s *JobService) TrustedCompanies() []string {
	return scraper.TrustedCompanies()
}
