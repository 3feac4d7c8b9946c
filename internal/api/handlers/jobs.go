package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/cache"
	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// JobServiceInterface defines the job service methods the handlers need
type JobServiceInterface interface {
	GetJobs(ctx context.Context, query domain.SearchQuery, forceRefresh bool) (*cache.Result, error)
	SearchCached(ctx context.Context, crit domain.SearchCriteria) ([]domain.JobRecord, error)
	BulkUpdateStatus(ctx context.Context, jobIDs []string, status string) (int, error)
	Statistics(ctx context.Context) (*domain.JobStatistics, error)
	CacheStatus(ctx context.Context) (*domain.CacheStatus, error)
	ClearCache(ctx context.Context, expiredOnly bool) (int, error)
	Categories() []string
	TrustedCompanies() []string
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	jobs JobServiceInterface
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs JobServiceInterface) *JobHandler {
	return &JobHandler{
		jobs: jobs,
	}
}

// Get handles GET /api/v1/jobs
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()

	query := domain.SearchQuery{
		Keywords:       q.Get("keywords"),
		Location:       q.Get("location"),
		JobTypeFilter:  q.Get("job_type"),
		CategoryFilter: q.Get("category"),
		TrustedOnly:    parseBool(q.Get("trusted_only")),
	}

	if raw := q.Get("max_jobs"); raw != "" {
		maxJobs, err := strconv.Atoi(raw)
		if err != nil || maxJobs < 1 {
			RenderError(w, http.StatusBadRequest, "max_jobs must be a positive integer")
			return
		}

		query.MaxJobs = maxJobs
	}

	result, err := h.jobs.GetJobs(r.Context(), query, parseBool(q.Get("force_refresh")))
	if err != nil {
		RenderError(w, http.StatusBadGateway, "Failed to get jobs: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, result)
}

// Search handles GET /api/v1/jobs/search over cached records only
func (h *JobHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()

	crit := domain.SearchCriteria{
		TitleContains:    q.Get("title"),
		CompanyContains:  q.Get("company"),
		LocationContains: q.Get("location"),
		RemoteOnly:       parseBool(q.Get("remote_only")),
		TrustedOnly:      parseBool(q.Get("trusted_only")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			RenderError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		crit.Limit = limit
	}

	jobs, err := h.jobs.SearchCached(r.Context(), crit)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to search jobs: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

// UpdateStatus handles POST /api/v1/jobs/status, marking a batch of cached
// jobs with a workflow status
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var body struct {
		JobIDs []string `json:"job_ids"`
		Status string   `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	if len(body.JobIDs) == 0 {
		RenderError(w, http.StatusBadRequest, "job_ids must not be empty")
		return
	}

	if body.Status == "" {
		RenderError(w, http.StatusBadRequest, "status must not be empty")
		return
	}

	updated, err := h.jobs.BulkUpdateStatus(r.Context(), body.JobIDs, body.Status)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to update status: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"requested": len(body.JobIDs),
		"updated":   updated,
		"status":    body.Status,
	})
}

// Categories handles GET /api/v1/categories
func (h *JobHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.jobs.Categories(),
	})
}

// Companies handles GET /api/v1/companies
func (h *JobHandler) Companies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"trusted_companies": h.jobs.TrustedCompanies(),
	})
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)

	return err == nil && v
}
