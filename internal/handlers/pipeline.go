package handlers

import (
	"io"
	"net/http"
	"time"

	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/edi"
	"edi-bridge/internal/erp"
	"edi-bridge/internal/pipeline"
	"edi-bridge/internal/rules"
)

// maxUploadBytes bounds document uploads. Interchange files are small; a
// multi-megabyte upload is a mistake, not a purchase order.
const maxUploadBytes = 5 << 20

type documentRequest struct {
	EDIContent string `json:"edi_content" validate:"required"`
}

type orchestrateRequest struct {
	EDIContent        string `json:"edi_content" validate:"required"`
	MaxRetries        *int   `json:"max_retries,omitempty" validate:"omitempty,min=1,max=10"`
	RetryDelaySeconds *int   `json:"retry_delay_seconds,omitempty" validate:"omitempty,min=0,max=60"`
}

type processResponse struct {
	Payload    *erp.PurchaseOrder `json:"payload"`
	Valid      bool               `json:"valid"`
	Violations []string           `json:"violations,omitempty"`
}

// parseDocument runs the parse stage only: tokenize, build, structural check.
func (h *Handlers) parseDocument(content string) (*edi.Document, error) {
	segments, err := edi.Tokenize(content, h.delimiters())
	if err != nil {
		return nil, err
	}
	doc, err := edi.BuildDocument(segments)
	if err != nil {
		return nil, err
	}
	if err := edi.ValidateStructure(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse parses a raw document into its normalized model
// @Summary Parse a purchase order document
// @Description Tokenizes and structurally validates a raw document, returning the parsed model without transforming it
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body documentRequest true "Raw document content"
// @Success 200 {object} edi.Document "Parsed document"
// @Failure 400 {object} errorResponse "Invalid request body"
// @Failure 422 {object} errorResponse "Document failed parsing or structural checks"
// @Router /api/parse [post]
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	doc, err := h.parseDocument(req.EDIContent)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// ParseUpload parses an uploaded document file
// @Summary Parse an uploaded purchase order file
// @Description Accepts a multipart file upload and returns the parsed document model
// @Tags pipeline
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 200 {object} edi.Document "Parsed document"
// @Failure 400 {object} errorResponse "Missing or unreadable file"
// @Failure 422 {object} errorResponse "Document failed parsing or structural checks"
// @Router /api/parse/upload [post]
func (h *Handlers) ParseUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request is not a valid multipart upload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "upload must include a 'file' form field"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read uploaded file"})
		return
	}

	h.logger.Debug("Document file uploaded",
		logging.String("filename", header.Filename),
		logging.Int("bytes", len(content)),
	)

	doc, err := h.parseDocument(string(content))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// Transform parses a document and maps it to the receiving system's payload
// @Summary Transform a document into an ERP payload
// @Description Parses a raw document and returns the transformed payload; business rules are not applied
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body documentRequest true "Raw document content"
// @Success 200 {object} erp.PurchaseOrder "Transformed payload"
// @Failure 400 {object} errorResponse "Invalid request body"
// @Failure 422 {object} errorResponse "Document failed parsing or transformation"
// @Router /api/transform [post]
func (h *Handlers) Transform(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	doc, err := h.parseDocument(req.EDIContent)
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload, err := erp.Transform(doc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload)
}

// Process parses, transforms, and rule-checks a document without submitting it
// @Summary Process a document up to the validation stage
// @Description Runs parse, transform, and the business rule battery, returning the payload with its validation outcome; nothing is submitted
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body documentRequest true "Raw document content"
// @Success 200 {object} processResponse "Payload and validation outcome"
// @Failure 400 {object} errorResponse "Invalid request body"
// @Failure 422 {object} errorResponse "Document failed parsing or transformation"
// @Router /api/process [post]
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	doc, err := h.parseDocument(req.EDIContent)
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload, err := erp.Transform(doc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	violations := rules.Validate(payload)
	h.writeJSON(w, http.StatusOK, processResponse{
		Payload:    payload,
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// Orchestrate runs the full pipeline on a document
// @Summary Run the full pipeline
// @Description Parses, transforms, validates, and submits a document, returning the complete run record including per-stage outcomes; the record reports failure instead of an error status
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body orchestrateRequest true "Raw document content with optional retry overrides"
// @Success 200 {object} pipeline.Result "Run record"
// @Failure 400 {object} errorResponse "Invalid request body"
// @Router /api/orchestrate [post]
func (h *Handlers) Orchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	opts := h.runOptions()
	if req.MaxRetries != nil {
		opts.MaxAttempts = *req.MaxRetries
	}
	if req.RetryDelaySeconds != nil {
		opts.RetryDelay = time.Duration(*req.RetryDelaySeconds) * time.Second
	}

	// The run record carries its own success flag and error; a failed run is
	// still a successfully answered request.
	result, _ := h.orchestrator.RunWithOptions(r.Context(), req.EDIContent, opts)
	h.writeJSON(w, http.StatusOK, result)
}

// runOptions derives pipeline options from config.
func (h *Handlers) runOptions() pipeline.Options {
	opts := pipeline.Options{Delimiters: h.delimiters()}
	if h.config != nil {
		opts.MaxAttempts = h.config.MaxRetries
		opts.RetryDelay = time.Duration(h.config.RetryDelaySeconds) * time.Second
	}
	return opts
}
