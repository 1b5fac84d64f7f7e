// Package handlers exposes the document pipeline over HTTP: parse,
// transform, and process endpoints for inspecting a document at each stage,
// an orchestrate endpoint that runs the full pipeline, and a job query
// surface over the persisted audit trail.
package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/config"
	"edi-bridge/internal/edi"
	"edi-bridge/internal/erpclient"
	"edi-bridge/internal/pipeline"
	"edi-bridge/internal/storage"
)

type Handlers struct {
	orchestrator *pipeline.Orchestrator
	store        storage.JobStore
	submitter    erpclient.Submitter
	config       *config.Config
	validate     *validator.Validate
	logger       logging.Logger
}

func New(orchestrator *pipeline.Orchestrator, store storage.JobStore, submitter erpclient.Submitter, cfg *config.Config, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		orchestrator: orchestrator,
		store:        store,
		submitter:    submitter,
		config:       cfg,
		validate:     newValidator(),
		logger:       logger,
	}
}

// RegisterRoutes mounts the API surface on the router. Literal job routes
// register before the {jobID} capture so they keep winning the match.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/parse", h.Parse).Methods("POST")
	api.HandleFunc("/parse/upload", h.ParseUpload).Methods("POST")
	api.HandleFunc("/transform", h.Transform).Methods("POST")
	api.HandleFunc("/process", h.Process).Methods("POST")
	api.HandleFunc("/orchestrate", h.Orchestrate).Methods("POST")

	api.HandleFunc("/jobs/stats", h.JobStats).Methods("GET")
	api.HandleFunc("/jobs/recent", h.RecentJobs).Methods("GET")
	api.HandleFunc("/jobs/search", h.SearchJobs).Methods("GET")
	api.HandleFunc("/jobs/{jobID}", h.GetJob).Methods("GET")
}

// newValidator builds a request validator that reports JSON field names
// instead of Go struct field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// delimiters returns the configured document delimiters, falling back to the
// conventional set when no config is wired.
func (h *Handlers) delimiters() edi.Delimiters {
	if h.config == nil {
		return edi.DefaultDelimiters()
	}
	return edi.Delimiters{
		Segment:    h.config.SegmentTerminator,
		Element:    h.config.ElementSeparator,
		SubElement: h.config.SubElementSeparator,
	}
}

// errorResponse is the envelope for every error the API returns.
type errorResponse struct {
	Error   string                 `json:"error"`
	Type    string                 `json:"type,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// statusForError maps the error taxonomy onto HTTP statuses: document and
// rule failures are unprocessable content, missing records are 404, and
// anything else is a server fault.
func statusForError(err error) int {
	switch errors.GetType(err) {
	case errors.ErrTypeMalformedInput,
		errors.ErrTypeMissingSegment,
		errors.ErrTypeStructuralMismatch,
		errors.ErrTypeUnmappedCode,
		errors.ErrTypeMissingParty,
		errors.ErrTypeInvalidDate,
		errors.ErrTypeValidation:
		return http.StatusUnprocessableEntity
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	if appErr, ok := err.(*errors.AppError); ok {
		resp.Type = string(appErr.Type)
		if len(appErr.Context) > 0 {
			resp.Details = appErr.Context
		}
	}
	h.writeJSON(w, statusForError(err), resp)
}

// decodeRequest unmarshals and validates a JSON request body. It writes the
// 400 response itself and returns false when the body is unusable.
func (h *Handlers) decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "request body is not valid JSON",
			Type:  string(errors.ErrTypeValidation),
		})
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		details := map[string]interface{}{}
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				details[fe.Field()] = fieldErrorMessage(fe)
			}
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "request validation failed",
			Type:    string(errors.ErrTypeValidation),
			Details: details,
		})
		return false
	}

	return true
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
