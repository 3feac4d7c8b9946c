// Package scraper provides the job-listing scraper consumed by the cached
// scraper service, plus the trusted-company registry and the keyword-based
// job classifier applied to scraped postings.
package scraper

import (
	"context"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// Scraper fetches job listings for a search query. Implementations may be
// slow (seconds to minutes) and fail on network errors; retrying is their
// own responsibility, the cache layer never retries a scrape.
type Scraper interface {
	Scrape(ctx context.Context, query domain.SearchQuery) ([]domain.JobRecord, error)
}
