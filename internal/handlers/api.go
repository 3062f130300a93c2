package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/common"
)

const serviceName = "finmate"

// APIHandler serves the service-level endpoints: version, health and the
// JSON 404 for unmatched API paths.
type APIHandler struct {
	timezone string
	started  time.Time
	logger   arbor.ILogger
}

// NewAPIHandler creates the service-level handler. timezone is the calendar
// zone the service computes date keys in, surfaced on the health endpoint so
// a misconfigured deployment is visible without reading logs.
func NewAPIHandler(timezone string) *APIHandler {
	return &APIHandler{
		timezone: timezone,
		started:  time.Now(),
		logger:   common.GetLogger(),
	}
}

// VersionHandler returns the build identity set at link time
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"service":    serviceName,
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler reports liveness plus the effective calendar timezone
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  serviceName,
		"timezone": h.timezone,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}

// NotFoundHandler answers unmatched /api/ paths with a JSON error body
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
