// Package serverrunner runs the HTTP API backed by the cached scraper.
package serverrunner

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/api"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/api/handlers"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/cache"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/kv"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/scraper"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/service"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/tasks"
	"github.com/sadewadee/linkedin-jobs-scraper/runner"
	"github.com/sadewadee/linkedin-jobs-scraper/tlmt"
)

// ServerRunner runs the API server plus the periodic sweep scheduler
type ServerRunner struct {
	cfg   *runner.Config
	store kv.Store
	srv   *http.Server
	queue *tasks.Queue
	svc   *service.JobService
}

// New creates a new ServerRunner
func New(ctx context.Context, cfg *runner.Config) (runner.Runner, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jobCache := cache.New(store, cache.WithTTL(cfg.CacheTTL))
	svc := service.NewJobService(jobCache, scraper.NewLinkedIn(nil), runner.Telemetry())

	jobHandler := handlers.NewJobHandler(svc)
	cacheHandler := handlers.NewCacheHandler(svc)
	statsHandler := handlers.NewStatsHandler(svc)
	exportHandler := handlers.NewExportHandler(svc)
	healthHandler := handlers.NewHealthHandler(store, runner.Version)

	router := api.NewRouter(jobHandler, cacheHandler, statsHandler, exportHandler, healthHandler)
	handler := router.Setup(cfg.APIToken)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s := &ServerRunner{
		cfg:   cfg,
		store: store,
		srv:   srv,
		svc:   svc,
	}

	// Sweeps go through the task queue when Redis is available so a worker
	// fleet shares them; otherwise the server sweeps in-process.
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		queue, err := tasks.NewQueue(&tasks.Config{
			RedisURL:  cfg.RedisURL,
			RedisAddr: cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
		})
		if err != nil {
			store.Close()
			return nil, err
		}

		s.queue = queue
	}

	return s, nil
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

// Run starts the server and the sweep scheduler
func (s *ServerRunner) Run(ctx context.Context) error {
	_ = runner.Telemetry().Send(ctx, tlmt.NewEvent("serverrunner.Run", map[string]any{
		"backend": s.cfg.CacheBackend,
	}))

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return s.startServer(ctx)
	})

	egroup.Go(func() error {
		return s.sweepLoop(ctx)
	})

	return egroup.Wait()
}

// Close cleans up resources
func (s *ServerRunner) Close(_ context.Context) error {
	if s.queue != nil {
		_ = s.queue.Close()
	}

	s.store.Close()

	return nil
}

func (s *ServerRunner) startServer(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down server: %v", err)
		}
	}()

	log.Printf("API server starting on http://localhost%s", s.cfg.Addr)
	log.Printf("cache backend: %s (ttl %s)", s.cfg.CacheBackend, s.cfg.CacheTTL)
	log.Printf("API endpoints available at /api/v1/")

	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *ServerRunner) sweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if s.queue != nil {
			if err := s.queue.EnqueueSweep(ctx); err != nil {
				log.Printf("failed to enqueue sweep: %v", err)
			}

			continue
		}

		if _, err := s.svc.ClearCache(ctx, true); err != nil {
			log.Printf("in-process sweep failed: %v", err)
		}
	}
}
