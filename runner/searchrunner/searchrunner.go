// Package searchrunner executes one search from the command line and writes
// the results to stdout or a file, without starting the API server.
package searchrunner

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/cache"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/kv"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/scraper"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/service"
	"github.com/sadewadee/linkedin-jobs-scraper/runner"
	"github.com/sadewadee/linkedin-jobs-scraper/tlmt"
)

// SearchRunner performs one cached search and writes the results out
type SearchRunner struct {
	cfg   *runner.Config
	store kv.Store
	svc   *service.JobService
}

// New creates a new SearchRunner
func New(ctx context.Context, cfg *runner.Config) (runner.Runner, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jobCache := cache.New(store, cache.WithTTL(cfg.CacheTTL))
	svc := service.NewJobService(jobCache, scraper.NewLinkedIn(nil), runner.Telemetry())

	return &SearchRunner{
		cfg:   cfg,
		store: store,
		svc:   svc,
	}, nil
}

func newStore(ctx context.Context, cfg *runner.Config) (kv.Store, error) {
	switch cfg.CacheBackend {
	case runner.CacheBackendRedis:
		store, err := kv.NewRedisStore(ctx, kv.RedisConfig{
			URL:      cfg.RedisURL,
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		return store, nil
	case runner.CacheBackendFile:
		return kv.NewFileStore(cfg.CacheDir, cfg.CacheTTL)
	case runner.CacheBackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// Run performs the search and writes the results
func (s *SearchRunner) Run(ctx context.Context) error {
	_ = runner.Telemetry().Send(ctx, tlmt.NewEvent("searchrunner.Run", map[string]any{
		"backend": s.cfg.CacheBackend,
	}))

	query := domain.SearchQuery{
		Keywords: s.cfg.Keywords,
		Location: s.cfg.Location,
		MaxJobs:  s.cfg.MaxJobs,
	}

	result, err := s.svc.GetJobs(ctx, query, false)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out, closeOut, err := s.openOutput()
	if err != nil {
		return err
	}

	if s.cfg.JSONOutput {
		err = writeJSON(out, result)
	} else {
		err = writeCSV(out, result.Jobs)
	}

	if cerr := closeOut(); err == nil {
		err = cerr
	}

	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	log.Printf("wrote %d jobs to %s", result.JobCount, s.cfg.ResultsFile)

	return nil
}

// Close cleans up resources
func (s *SearchRunner) Close(_ context.Context) error {
	s.store.Close()

	return nil
}

func (s *SearchRunner) openOutput() (io.Writer, func() error, error) {
	if s.cfg.ResultsFile == "stdout" || s.cfg.ResultsFile == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(s.cfg.ResultsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create results file: %w", err)
	}

	return f, f.Close, nil
}

var csvHeader = []string{
	"title", "company", "location", "job_type", "experience_level",
	"category", "salary", "skills", "remote", "trusted_company",
	"posted_date", "url",
}

func writeCSV(out io.Writer, jobs []domain.JobRecord) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, job := range jobs {
		row := []string{
			job.Title, job.Company, job.Location, job.JobType,
			job.ExperienceLevel, job.Category, job.Salary,
			strings.Join(job.Skills, "; "), job.RemoteWork,
			strconv.FormatBool(job.IsTrustedCompany),
			job.PostedDate, job.JobURL,
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func writeJSON(out io.Writer, result *cache.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}
