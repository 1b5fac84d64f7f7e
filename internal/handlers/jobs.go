package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"edi-bridge/internal/storage"
)

type jobListResponse struct {
	Jobs  []*storage.Job `json:"jobs"`
	Count int            `json:"count"`
}

// JobStats returns aggregate statistics over recorded runs
// @Summary Job statistics
// @Description Returns totals, success rate, and average duration across all recorded pipeline runs
// @Tags jobs
// @Produce json
// @Success 200 {object} storage.Stats "Aggregate statistics"
// @Router /api/jobs/stats [get]
func (h *Handlers) JobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// RecentJobs returns the most recently started runs
// @Summary Recent jobs
// @Description Returns recorded runs ordered newest first
// @Tags jobs
// @Produce json
// @Param limit query int false "Maximum jobs to return" default(20)
// @Success 200 {object} jobListResponse "Recent jobs"
// @Router /api/jobs/recent [get]
func (h *Handlers) RecentJobs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	jobs, err := h.store.RecentJobs(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, jobListResponse{Jobs: jobs, Count: len(jobs)})
}

// SearchJobs returns runs matching the query filters
// @Summary Search jobs
// @Description Filters recorded runs by purchase order number, vendor, outcome, and start time
// @Tags jobs
// @Produce json
// @Param po query string false "Purchase order number substring"
// @Param vendor query string false "Vendor name substring"
// @Param success query bool false "Run outcome"
// @Param since query string false "RFC3339 lower bound on start time"
// @Param limit query int false "Maximum jobs to return" default(50)
// @Success 200 {object} jobListResponse "Matching jobs"
// @Failure 400 {object} errorResponse "Unparseable filter value"
// @Router /api/jobs/search [get]
func (h *Handlers) SearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := storage.JobFilters{
		PONumber:   query.Get("po"),
		VendorName: query.Get("vendor"),
	}

	if raw := query.Get("success"); raw != "" {
		success, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "success must be true or false"})
			return
		}
		filters.Success = &success
	}

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "since must be an RFC3339 timestamp"})
			return
		}
		filters.Since = since
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		filters.Limit = limit
	}

	jobs, err := h.store.SearchJobs(filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, jobListResponse{Jobs: jobs, Count: len(jobs)})
}

// GetJob returns one run with its steps and log trail
// @Summary Get a job
// @Description Returns the full record of one pipeline run, including per-stage outcomes and the stored log trail
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job identifier"
// @Success 200 {object} storage.Job "Job record"
// @Failure 404 {object} errorResponse "Unknown job"
// @Router /api/jobs/{jobID} [get]
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobID"]

	job, err := h.store.GetJob(jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, job)
}
