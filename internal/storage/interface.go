// Package storage persists pipeline run history. Every run is a job with
// one row per pipeline stage and an ordered log trail, so a failed document
// can be diagnosed after the fact. Adapters register themselves with the
// package registry; the rest of the system only sees the JobStore interface.
package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Step names as persisted in job_steps.
const (
	StepParse     = "parse"
	StepTransform = "transform"
	StepValidate  = "validate"
	StepSubmit    = "submit"
)

// Step and job statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// JobStore persists pipeline runs. Implementations must be safe for
// concurrent use.
type JobStore interface {
	// Connection management
	Connect(config StorageConfig) error
	Close() error
	Health() error

	// Run recording
	CreateJob(job *Job) error
	UpdateJob(job *Job) error
	UpsertStep(step *JobStep) error
	AppendLog(entry *JobLog) error

	// Run history
	GetJob(jobID string) (*Job, error)
	RecentJobs(limit int) ([]*Job, error)
	SearchJobs(filters JobFilters) ([]*Job, error)
	Stats() (*Stats, error)
}

// Job is one pipeline run. Identity fields fill in as the run progresses:
// the purchase order number after parsing, the vendor and total after
// transformation, the receiver's identifier after submission.
type Job struct {
	ID              string          `json:"job_id"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
	Success         bool            `json:"success"`
	PONumber        string          `json:"po_number,omitempty"`
	VendorName      string          `json:"vendor_name,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ERPPOID         string          `json:"erp_po_id,omitempty"`
	EDIContent      string          `json:"edi_content,omitempty"`
	Steps           []*JobStep      `json:"steps,omitempty"`
	Logs            []*JobLog       `json:"logs,omitempty"`
}

// JobStep records the outcome of one pipeline stage within a run. A step is
// keyed by (job, name) and upserted as the stage progresses through retries.
type JobStep struct {
	JobID    string          `json:"-"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Attempts int             `json:"attempts"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// JobLog is one entry in a run's log trail.
type JobLog struct {
	JobID     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// JobFilters narrows a job search. Zero values are ignored.
type JobFilters struct {
	PONumber   string
	VendorName string
	Success    *bool
	Since      time.Time
	Limit      int
}

// Stats summarizes recorded runs.
type Stats struct {
	TotalJobs              int        `json:"total_jobs"`
	SuccessfulJobs         int        `json:"successful_jobs"`
	FailedJobs             int        `json:"failed_jobs"`
	SuccessRate            float64    `json:"success_rate"`
	AverageDurationSeconds float64    `json:"average_duration_seconds"`
	LastJobAt              *time.Time `json:"last_job_at,omitempty"`
}

// StorageConfig is the adapter-agnostic configuration contract.
type StorageConfig interface {
	Validate() error
	GetType() string
	GetConnectionString() string
}

// StorageFactory creates a JobStore from its configuration.
type StorageFactory interface {
	Create(config StorageConfig) (JobStore, error)
	GetType() string
}

// GenericConfig is a simple map-based implementation of StorageConfig used
// to pass settings across package boundaries without import cycles.
type GenericConfig map[string]interface{}

func (gc GenericConfig) Validate() error {
	return nil
}

func (gc GenericConfig) GetType() string {
	if t, ok := gc["type"].(string); ok {
		return t
	}
	return "unknown"
}

func (gc GenericConfig) GetConnectionString() string {
	if cs, ok := gc["connection_string"].(string); ok {
		return cs
	}
	return ""
}

// String returns a GenericConfig value as a string, with a default.
func (gc GenericConfig) String(key, fallback string) string {
	if v, ok := gc[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Int returns a GenericConfig value as an int, with a default.
func (gc GenericConfig) Int(key string, fallback int) int {
	switch v := gc[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
