// Package tasks provides the Redis-backed background task queue using Asynq.
// The only task today is the periodic cache sweep that evicts expired
// searches and orphaned record hashes.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeCacheSweep evicts expired cache entries
	TypeCacheSweep = "cache:sweep"

	QueueDefault = "default"
)

// SweepPayload is the payload for a cache sweep task
type SweepPayload struct {
	SweepID   uuid.UUID `json:"sweep_id"`
	Requested time.Time `json:"requested_at"`
}

// Config holds Redis queue configuration
type Config struct {
	RedisURL  string
	RedisAddr string
	Password  string
	DB        int
}

func (cfg *Config) connOpt() (asynq.RedisConnOpt, error) {
	if cfg.RedisURL != "" {
		opt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}

		return opt, nil
	}

	if cfg.RedisAddr != "" {
		return asynq.RedisClientOpt{
			Addr:         cfg.RedisAddr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}, nil
	}

	return nil, fmt.Errorf("redis URL or address is required")
}

// Queue enqueues sweep tasks
type Queue struct {
	client *asynq.Client
}

// NewQueue creates a new Queue
func NewQueue(cfg *Config) (*Queue, error) {
	opt, err := cfg.connOpt()
	if err != nil {
		return nil, err
	}

	return &Queue{client: asynq.NewClient(opt)}, nil
}

// EnqueueSweep schedules a cache sweep
func (q *Queue) EnqueueSweep(ctx context.Context) error {
	payload := SweepPayload{
		SweepID:   uuid.New(),
		Requested: time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeCacheSweep, data)

	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(10 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}

	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue sweep: %w", err)
	}

	log.Printf("tasks: enqueued sweep %s (task_id: %s)", payload.SweepID, info.ID)

	return nil
}

// Close closes the underlying client
func (q *Queue) Close() error {
	return q.client.Close()
}

// Sweeper clears expired cache data
type Sweeper interface {
	ClearCache(ctx context.Context, expiredOnly bool) (int, error)
}

// SweepHandler processes cache sweep tasks
type SweepHandler struct {
	sweeper Sweeper
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(sweeper Sweeper) *SweepHandler {
	return &SweepHandler{sweeper: sweeper}
}

// ProcessTask handles a single sweep task
func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload SweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	cleared, err := h.sweeper.ClearCache(ctx, true)
	if err != nil {
		return fmt.Errorf("sweep %s: %w", payload.SweepID, err)
	}

	log.Printf("tasks: sweep %s cleared %d expired searches", payload.SweepID, cleared)

	return nil
}

// NewServer creates an Asynq worker server bound to the sweep handler
func NewServer(cfg *Config, handler *SweepHandler) (*asynq.Server, *asynq.ServeMux, error) {
	opt, err := cfg.connOpt()
	if err != nil {
		return nil, nil, err
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeCacheSweep, handler)

	return srv, mux, nil
}
