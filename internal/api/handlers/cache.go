package handlers

import "net/http"

// CacheHandler handles cache management HTTP requests
type CacheHandler struct {
	jobs JobServiceInterface
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(jobs JobServiceInterface) *CacheHandler {
	return &CacheHandler{
		jobs: jobs,
	}
}

// Status handles GET /api/v1/cache/status
func (h *CacheHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	status, err := h.jobs.CacheStatus(r.Context())
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to get cache status: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, status)
}

// Clear handles POST /api/v1/cache/clear. With expired_only=true only
// expired entries are swept, otherwise the whole cache is dropped.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	expiredOnly := parseBool(r.URL.Query().Get("expired_only"))

	cleared, err := h.jobs.ClearCache(r.Context(), expiredOnly)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to clear cache: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"cleared_searches": cleared,
		"expired_only":     expiredOnly,
	})
}
