package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Pinger reports backend store reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the health probe
type HealthHandler struct {
	store   Pinger
	version string
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		version: version,
		started: time.Now(),
	}
}

// Get handles GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	storeStatus := "ok"
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		storeStatus = err.Error()
		code = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{
		"status":     statusWord(code),
		"version":    h.version,
		"store":      storeStatus,
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			body["rss_bytes"] = mem.RSS
		}

		if cpu, err := proc.CPUPercent(); err == nil {
			body["cpu_percent"] = cpu
		}
	}

	RenderJSON(w, code, body)
}

func statusWord(code int) string {
	if code == http.StatusOK {
		return "ok"
	}

	return "degraded"
}
