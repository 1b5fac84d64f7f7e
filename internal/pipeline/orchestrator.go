// Package pipeline coordinates a purchase order document's journey from raw
// text to acknowledged submission: parse, transform, validate, submit. Every
// run gets a job ID, and each stage outcome is mirrored to the job store so
// a failed document can be diagnosed from its recorded trail alone.
//
// Stage failures end the run; stages never reached stay pending. A business
// rule violation is data, not an error: the run fails, the violations are
// reported, and nothing is submitted. Only the submit stage retries, with a
// fixed delay, and only for transient failures; a receiver rejection is
// terminal on the first refusal.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/edi"
	"edi-bridge/internal/erp"
	"edi-bridge/internal/erpclient"
	"edi-bridge/internal/rules"
	"edi-bridge/internal/storage"
)

// Options control a run. MaxAttempts defaults to 3 when unset. RetryDelay
// is used as given, so zero means retries fire immediately.
type Options struct {
	Delimiters  edi.Delimiters
	MaxAttempts int
	RetryDelay  time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	return o
}

// StepResult is one stage's outcome within a run.
type StepResult struct {
	Name     string      `json:"name"`
	Status   string      `json:"status"`
	Attempts int         `json:"attempts,omitempty"`
	Output   interface{} `json:"output,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Result is the full record of one run.
type Result struct {
	JobID           string              `json:"job_id"`
	Success         bool                `json:"success"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     time.Time           `json:"completed_at"`
	DurationSeconds float64             `json:"duration_seconds"`
	PONumber        string              `json:"po_number,omitempty"`
	VendorName      string              `json:"vendor_name,omitempty"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ERPPOID         string              `json:"erp_po_id,omitempty"`
	Steps           []*StepResult       `json:"steps"`
	Violations      []string            `json:"violations,omitempty"`
	Response        *erpclient.Response `json:"erp_response,omitempty"`
	Error           string              `json:"error,omitempty"`
}

func (r *Result) step(name string) *StepResult {
	for _, s := range r.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Orchestrator runs documents through the pipeline.
type Orchestrator struct {
	submitter erpclient.Submitter
	store     storage.JobStore
	opts      Options
	logger    logging.Logger
}

// New creates an orchestrator. The store may be nil, in which case runs are
// not persisted; store failures never disturb a run either way.
func New(submitter erpclient.Submitter, store storage.JobStore, opts Options, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Orchestrator{
		submitter: submitter,
		store:     store,
		opts:      opts.withDefaults(),
		logger:    logger,
	}
}

// Run processes one document with the orchestrator's default options.
func (o *Orchestrator) Run(ctx context.Context, content string) (*Result, error) {
	return o.RunWithOptions(ctx, content, o.opts)
}

// RunWithOptions processes one document. The returned Result is always
// complete enough to report: on failure it records the failed stage, the
// stages never reached stay pending, and the returned error carries the
// failure's classification.
func (o *Orchestrator) RunWithOptions(ctx context.Context, content string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	run := &runState{
		result: &Result{
			JobID:     uuid.New().String(),
			StartedAt: time.Now().UTC(),
			Steps: []*StepResult{
				{Name: storage.StepParse, Status: storage.StatusPending},
				{Name: storage.StepTransform, Status: storage.StatusPending},
				{Name: storage.StepValidate, Status: storage.StatusPending},
				{Name: storage.StepSubmit, Status: storage.StatusPending},
			},
		},
	}
	run.job = &storage.Job{
		ID:         run.result.JobID,
		StartedAt:  run.result.StartedAt,
		EDIContent: content,
	}

	o.mirror("create job", func() error { return o.store.CreateJob(run.job) })
	for _, step := range run.result.Steps {
		o.mirrorStep(run, step)
	}
	o.logRun(run, "INFO", "", "job started", map[string]interface{}{"bytes": len(content)})

	doc, err := o.runParse(run, content, opts)
	if err != nil {
		return o.finish(run, err)
	}

	payload, err := o.runTransform(run, doc)
	if err != nil {
		return o.finish(run, err)
	}

	if err := o.runValidate(run, payload); err != nil {
		return o.finish(run, err)
	}

	if err := o.runSubmit(ctx, run, payload, opts); err != nil {
		return o.finish(run, err)
	}

	return o.finish(run, nil)
}

// runState bundles the in-flight result with its storage mirror.
type runState struct {
	result *Result
	job    *storage.Job
}

func (o *Orchestrator) runParse(run *runState, content string, opts Options) (*edi.Document, error) {
	step := run.result.step(storage.StepParse)

	segments, err := edi.Tokenize(content, opts.Delimiters)
	if err != nil {
		return nil, o.failStep(run, step, err)
	}

	doc, err := edi.BuildDocument(segments)
	if err != nil {
		return nil, o.failStep(run, step, err)
	}

	if err := edi.ValidateStructure(doc); err != nil {
		return nil, o.failStep(run, step, err)
	}

	step.Status = storage.StatusSuccess
	step.Attempts = 1
	step.Output = doc

	run.result.PONumber = doc.PONumber
	run.job.PONumber = doc.PONumber
	o.mirror("update job", func() error { return o.store.UpdateJob(run.job) })
	o.mirrorStep(run, step)
	o.logRun(run, "INFO", storage.StepParse, "document parsed", map[string]interface{}{
		"po_number":  doc.PONumber,
		"segments":   len(doc.SegmentIDs),
		"line_items": len(doc.LineItems),
	})

	return doc, nil
}

func (o *Orchestrator) runTransform(run *runState, doc *edi.Document) (*erp.PurchaseOrder, error) {
	step := run.result.step(storage.StepTransform)

	payload, err := erp.Transform(doc)
	if err != nil {
		return nil, o.failStep(run, step, err)
	}

	step.Status = storage.StatusSuccess
	step.Attempts = 1
	step.Output = payload

	run.result.VendorName = payload.Vendor.Name
	run.result.TotalAmount = payload.TotalAmount
	run.job.VendorName = payload.Vendor.Name
	run.job.TotalAmount = payload.TotalAmount
	o.mirror("update job", func() error { return o.store.UpdateJob(run.job) })
	o.mirrorStep(run, step)
	o.logRun(run, "INFO", storage.StepTransform, "payload built", map[string]interface{}{
		"vendor":       payload.Vendor.Name,
		"total_amount": payload.TotalAmount.StringFixed(2),
		"total_lines":  payload.TotalLines,
	})

	return payload, nil
}

func (o *Orchestrator) runValidate(run *runState, payload *erp.PurchaseOrder) error {
	step := run.result.step(storage.StepValidate)

	violations := rules.Validate(payload)
	if len(violations) > 0 {
		run.result.Violations = violations
		step.Output = map[string]interface{}{"valid": false, "violations": violations}
		err := errors.ValidationError(fmt.Sprintf("purchase order failed %d business rule(s)", len(violations)))
		return o.failStep(run, step, err)
	}

	step.Status = storage.StatusSuccess
	step.Attempts = 1
	step.Output = map[string]interface{}{"valid": true}
	o.mirrorStep(run, step)
	o.logRun(run, "INFO", storage.StepValidate, "business rules passed", nil)

	return nil
}

func (o *Orchestrator) runSubmit(ctx context.Context, run *runState, payload *erp.PurchaseOrder, opts Options) error {
	step := run.result.step(storage.StepSubmit)

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		response, err := o.submitter.Submit(ctx, payload)
		step.Attempts = attempt
		if err == nil {
			step.Status = storage.StatusSuccess
			step.Output = response

			run.result.Response = response
			run.result.ERPPOID = response.ERPPOID
			run.job.ERPPOID = response.ERPPOID
			o.mirror("update job", func() error { return o.store.UpdateJob(run.job) })
			o.mirrorStep(run, step)
			o.logRun(run, "INFO", storage.StepSubmit, "purchase order accepted", map[string]interface{}{
				"erp_po_id": response.ERPPOID,
				"attempts":  attempt,
			})
			return nil
		}

		lastErr = err
		o.logRun(run, "WARN", storage.StepSubmit, "submission attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if errors.IsType(err, errors.ErrTypeRejected) {
			return o.failStep(run, step, err)
		}
		if !errors.IsType(err, errors.ErrTypeTransient) {
			return o.failStep(run, step, err)
		}
		if attempt == opts.MaxAttempts {
			break
		}

		// Step row reflects the retry in flight.
		step.Error = err.Error()
		o.mirrorStep(run, step)

		select {
		case <-ctx.Done():
			return o.failStep(run, step, ctx.Err())
		case <-time.After(opts.RetryDelay):
		}
	}

	exhausted := errors.TransientError(
		fmt.Sprintf("all %d submission attempts failed, last error: %s", opts.MaxAttempts, lastErr), lastErr)
	return o.failStep(run, step, exhausted)
}

// failStep marks the step failed, mirrors it, and logs the stage failure.
func (o *Orchestrator) failStep(run *runState, step *StepResult, err error) error {
	step.Status = storage.StatusFailed
	step.Error = err.Error()
	if step.Attempts == 0 {
		step.Attempts = 1
	}
	o.mirrorStep(run, step)
	o.logRun(run, "ERROR", step.Name, "stage failed", map[string]interface{}{"error": err.Error()})
	return err
}

// finish closes out the run record and reports the final outcome.
func (o *Orchestrator) finish(run *runState, err error) (*Result, error) {
	result := run.result
	result.CompletedAt = time.Now().UTC()
	elapsed := result.CompletedAt.Sub(result.StartedAt).Seconds()
	result.DurationSeconds = math.Round(elapsed*100) / 100
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
	}

	completedAt := result.CompletedAt
	run.job.CompletedAt = &completedAt
	run.job.DurationSeconds = result.DurationSeconds
	run.job.Success = result.Success
	o.mirror("update job", func() error { return o.store.UpdateJob(run.job) })

	if err != nil {
		o.logRun(run, "ERROR", "", "job failed", map[string]interface{}{"error": err.Error()})
		o.logger.Error("Pipeline run failed", err,
			logging.String("job_id", result.JobID),
			logging.String("po_number", result.PONumber),
			logging.Duration("elapsed", result.CompletedAt.Sub(result.StartedAt)),
		)
		return result, err
	}

	o.logRun(run, "INFO", "", "job completed", map[string]interface{}{
		"duration_seconds": result.DurationSeconds,
	})
	o.logger.Info("Pipeline run completed",
		logging.String("job_id", result.JobID),
		logging.String("po_number", result.PONumber),
		logging.String("erp_po_id", result.ERPPOID),
		logging.Duration("elapsed", result.CompletedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// mirror runs a job store write, swallowing failures. Persistence trouble is
// logged and must never disturb the run itself.
func (o *Orchestrator) mirror(op string, fn func() error) {
	if o.store == nil {
		return
	}
	if err := fn(); err != nil {
		o.logger.Warn("Job store write failed",
			logging.String("op", op),
			logging.Err(err),
		)
	}
}

func (o *Orchestrator) mirrorStep(run *runState, step *StepResult) {
	o.mirror("upsert step "+step.Name, func() error {
		var data json.RawMessage
		if step.Output != nil {
			if encoded, err := json.Marshal(step.Output); err == nil {
				data = encoded
			}
		}
		return o.store.UpsertStep(&storage.JobStep{
			JobID:    run.result.JobID,
			Name:     step.Name,
			Status:   step.Status,
			Attempts: step.Attempts,
			Data:     data,
			Error:    step.Error,
		})
	})
}

// logRun writes one entry to the run's stored log trail and echoes it to the
// process logger at debug level.
func (o *Orchestrator) logRun(run *runState, level, stage, message string, details map[string]interface{}) {
	entry := &storage.JobLog{
		JobID:     run.result.JobID,
		Timestamp: time.Now().UTC(),
		Level:     level,
		Stage:     stage,
		Message:   message,
	}
	if len(details) > 0 {
		if encoded, err := json.Marshal(details); err == nil {
			entry.Details = string(encoded)
		}
	}
	o.mirror("append log", func() error { return o.store.AppendLog(entry) })

	o.logger.Debug(message,
		logging.String("job_id", run.result.JobID),
		logging.String("stage", stage),
		logging.String("level", level),
	)
}
