package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

const (
	linkedinSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	jobsPerPage       = 25
	maxPages          = 40
	maxFetchAttempts  = 3
	rateLimitDelay    = 10 * time.Second
	retryDelay        = 2 * time.Second
	userAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// LinkedIn scrapes the public guest job-search endpoint. No authentication,
// rate limits apply; a 429 pauses the whole run for rateLimitDelay.
type LinkedIn struct {
	client    *http.Client
	logger    *log.Logger
	searchURL string
}

// NewLinkedIn returns a LinkedIn scraper using the supplied HTTP client, or
// a 30-second-timeout default client when nil.
func NewLinkedIn(client *http.Client) *LinkedIn {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &LinkedIn{
		client:    client,
		logger:    log.New(log.Writer(), "[linkedin] ", log.LstdFlags),
		searchURL: linkedinSearchURL,
	}
}

// Scrape pages through the guest endpoint until it has query.MaxJobs matching
// records or the results run out.
func (l *LinkedIn) Scrape(ctx context.Context, query domain.SearchQuery) ([]domain.JobRecord, error) {
	query = query.WithDefaults()

	records := make([]domain.JobRecord, 0, query.MaxJobs)
	seen := make(map[string]struct{})

	for page := 0; page < maxPages && len(records) < query.MaxJobs; page++ {
		pageRecords, err := l.fetchPage(ctx, query, page*jobsPerPage)
		if err != nil {
			if len(records) > 0 {
				l.logger.Printf("page %d failed, returning %d jobs scraped so far: %v", page, len(records), err)
				break
			}

			return nil, err
		}

		if len(pageRecords) == 0 {
			break
		}

		for _, rec := range pageRecords {
			if len(records) >= query.MaxJobs {
				break
			}

			if _, dup := seen[rec.JobID]; dup {
				continue
			}
			seen[rec.JobID] = struct{}{}

			if !matchesQuery(rec, query) {
				continue
			}

			records = append(records, rec)
		}
	}

	l.logger.Printf("scraped %d jobs for %q in %q", len(records), query.Keywords, query.Location)

	return records, nil
}

func (l *LinkedIn) fetchPage(ctx context.Context, query domain.SearchQuery, start int) ([]domain.JobRecord, error) {
	params := url.Values{}
	params.Set("keywords", query.Keywords)
	params.Set("location", query.Location)
	params.Set("start", fmt.Sprintf("%d", start))

	endpoint := l.searchURL + "?" + params.Encode()

	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := l.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("fetch page at offset %d: %w", start, err)
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			records, err := parseJobCards(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}

			return records, nil
		case http.StatusTooManyRequests:
			resp.Body.Close()
			l.logger.Printf("rate limited at offset %d, backing off %s", start, rateLimitDelay)
			lastErr = fmt.Errorf("rate limited at offset %d", start)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(rateLimitDelay):
			}
		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("fetch page at offset %d: unexpected status %d", start, resp.StatusCode)
		}
	}

	return nil, lastErr
}

// parseJobCards extracts job records from a guest-endpoint HTML fragment.
// Each card is a div.base-card; cards missing a title are skipped.
func parseJobCards(body io.Reader) ([]domain.JobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse job listings: %w", err)
	}

	records := make([]domain.JobRecord, 0, jobsPerPage)

	doc.Find("div.base-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h3.base-search-card__title").Text())
		if title == "" {
			return
		}

		company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").Text())
		location := strings.TrimSpace(card.Find("span.job-search-card__location").Text())
		salary := strings.TrimSpace(card.Find("span.job-search-card__salary-info").Text())
		postedDate, _ := card.Find("time").Attr("datetime")

		jobURL, _ := card.Find("a.base-card__full-link").Attr("href")
		jobURL = strings.TrimSpace(jobURL)

		rec := domain.JobRecord{
			Title:            title,
			Company:          company,
			Location:         location,
			Salary:           normalizeSalary(salary),
			PostedDate:       postedDate,
			JobURL:           jobURL,
			JobType:          ExtractJobType(title),
			ExperienceLevel:  ExtractExperienceLevel(title),
			Category:         Categorize(title, ""),
			Skills:           ExtractSkills(title),
			RemoteWork:       domain.DetectRemoteWork(title, location, ""),
			IsTrustedCompany: IsTrustedCompany(company),
		}
		rec.EnsureID()

		records = append(records, rec)
	})

	return records, nil
}

// normalizeSalary collapses the multi-line whitespace the listing markup
// carries into a single-spaced string.
func normalizeSalary(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func matchesQuery(rec domain.JobRecord, query domain.SearchQuery) bool {
	if query.JobTypeFilter != "" && query.JobTypeFilter != "All" &&
		!strings.EqualFold(rec.JobType, query.JobTypeFilter) {
		return false
	}

	if query.CategoryFilter != "" && query.CategoryFilter != "All" &&
		!strings.EqualFold(rec.Category, query.CategoryFilter) {
		return false
	}

	if query.TrustedOnly && !rec.IsTrustedCompany {
		return false
	}

	return true
}
