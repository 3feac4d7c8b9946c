// Package sweeprunner runs cache maintenance: the Asynq worker that
// processes queued sweeps, or a one-shot sweep/clear invocation.
package sweeprunner

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/cache"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/kv"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/tasks"
	"github.com/sadewadee/linkedin-jobs-scraper/runner"
	"github.com/sadewadee/linkedin-jobs-scraper/tlmt"
)

// SweepRunner performs cache sweeps, queued or one-shot
type SweepRunner struct {
	cfg      *runner.Config
	store    kv.Store
	jobCache *cache.Cache
	srv      *asynq.Server
	mux      *asynq.ServeMux
}

type sweeper struct {
	jobCache *cache.Cache
}

func (s *sweeper) ClearCache(ctx context.Context, expiredOnly bool) (int, error) {
	return s.jobCache.Clear(ctx, expiredOnly)
}

// New creates a new SweepRunner
func New(ctx context.Context, cfg *runner.Config) (runner.Runner, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jobCache := cache.New(store, cache.WithTTL(cfg.CacheTTL))

	r := &SweepRunner{
		cfg:      cfg,
		store:    store,
		jobCache: jobCache,
	}

	if cfg.RunMode == runner.RunModeWorker {
		handler := tasks.NewSweepHandler(&sweeper{jobCache: jobCache})

		srv, mux, err := tasks.NewServer(&tasks.Config{
			RedisURL:  cfg.RedisURL,
			RedisAddr: cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
		}, handler)
		if err != nil {
			store.Close()
			return nil, err
		}

		r.srv = srv
		r.mux = mux
	}

	return r, nil
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

// Run executes the configured maintenance mode
func (r *SweepRunner) Run(ctx context.Context) error {
	switch r.cfg.RunMode {
	case runner.RunModeWorker:
		return r.runWorker(ctx)
	case runner.RunModeSweep:
		return r.runOnce(ctx, true)
	case runner.RunModeClear:
		return r.runOnce(ctx, false)
	default:
		return runner.ErrInvalidRunMode
	}
}

// Close cleans up resources
func (r *SweepRunner) Close(_ context.Context) error {
	r.store.Close()

	return nil
}

func (r *SweepRunner) runWorker(ctx context.Context) error {
	_ = runner.Telemetry().Send(ctx, tlmt.NewEvent("sweeprunner.Run", nil))

	go func() {
		<-ctx.Done()

		r.srv.Shutdown()
	}()

	log.Printf("sweep worker starting (interval handled by server scheduler)")

	if err := r.srv.Run(r.mux); err != nil {
		return fmt.Errorf("sweep worker: %w", err)
	}

	return nil
}

func (r *SweepRunner) runOnce(ctx context.Context, expiredOnly bool) error {
	cleared, err := r.jobCache.Clear(ctx, expiredOnly)
	if err != nil {
		return err
	}

	if expiredOnly {
		log.Printf("swept %d expired searches", cleared)
	} else {
		log.Printf("cleared %d searches", cleared)
	}

	return nil
}
