package handlers

import (
	"net/http"
	"time"
)

// Index returns the service banner
// @Summary Service information
// @Description Returns the service name, version, and available endpoints
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Service information"
// @Router / [get]
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service":     "edi-bridge",
		"version":     "1.0.0",
		"description": "Flat-file purchase order integration pipeline",
		"endpoints": map[string]string{
			"parse":        "POST /api/parse",
			"parse_upload": "POST /api/parse/upload",
			"transform":    "POST /api/transform",
			"process":      "POST /api/process",
			"orchestrate":  "POST /api/orchestrate",
			"jobs":         "GET /api/jobs/recent",
			"job_search":   "GET /api/jobs/search",
			"job_stats":    "GET /api/jobs/stats",
			"health":       "GET /health",
		},
	}
	h.writeJSON(w, http.StatusOK, info)
}

// HealthCheck returns the health status of the application
// @Summary Health check
// @Description Returns the health status of the application and its dependencies
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Health status"
// @Failure 503 {object} map[string]interface{} "Job storage is unhealthy"
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}

	// Check receiver health if a submitter is wired. An unreachable receiver
	// degrades submission but the service itself stays up.
	if h.submitter != nil {
		if err := h.submitter.Health(r.Context()); err != nil {
			status["erp_status"] = "unhealthy"
			status["erp_error"] = err.Error()
		} else {
			status["erp_status"] = "healthy"
		}
	} else {
		status["erp_status"] = "not_configured"
	}

	code := http.StatusOK
	if h.store != nil {
		if err := h.store.Health(); err != nil {
			status["storage_status"] = "unhealthy"
			status["storage_error"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			status["storage_status"] = "healthy"
		}
	} else {
		status["storage_status"] = "not_configured"
	}

	h.writeJSON(w, code, status)
}
