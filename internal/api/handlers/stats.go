package handlers

import "net/http"

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	jobs JobServiceInterface
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(jobs JobServiceInterface) *StatsHandler {
	return &StatsHandler{
		jobs: jobs,
	}
}

// Get handles GET /api/v1/jobs/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.jobs.Statistics(r.Context())
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to get stats: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, stats)
}
