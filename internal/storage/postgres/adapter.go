package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/storage"
)

type Adapter struct {
	db     *sql.DB
	config *Config
}

func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL config: %w", err)
	}

	db, err := sql.Open("pgx", config.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	adapter := &Adapter{
		db:     db,
		config: config,
	}

	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return adapter, nil
}

func (a *Adapter) Connect(config storage.StorageConfig) error {
	pgConfig, ok := config.(*Config)
	if !ok {
		return fmt.Errorf("invalid config type for PostgreSQL job store")
	}

	newAdapter, err := NewAdapter(pgConfig)
	if err != nil {
		return err
	}

	if a.db != nil {
		a.db.Close()
	}

	a.db = newAdapter.db
	a.config = newAdapter.config

	return nil
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Adapter) Health() error {
	return a.db.Ping()
}

func (a *Adapter) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
			success BOOLEAN NOT NULL DEFAULT FALSE,
			po_number TEXT NOT NULL DEFAULT '',
			vendor_name TEXT NOT NULL DEFAULT '',
			total_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
			erp_po_id TEXT NOT NULL DEFAULT '',
			edi_content TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS job_steps (
			id BIGSERIAL PRIMARY KEY,
			job_id TEXT NOT NULL REFERENCES jobs (job_id),
			step_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			attempts INTEGER NOT NULL DEFAULT 0,
			data TEXT,
			error TEXT NOT NULL DEFAULT '',
			UNIQUE (job_id, step_name)
		)`,
		`CREATE TABLE IF NOT EXISTS job_logs (
			id BIGSERIAL PRIMARY KEY,
			job_id TEXT NOT NULL REFERENCES jobs (job_id),
			timestamp TIMESTAMPTZ NOT NULL,
			level TEXT NOT NULL,
			stage TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_po_number ON jobs(po_number)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_success ON jobs(success)`,
		`CREATE INDEX IF NOT EXISTS idx_job_steps_job_id ON job_steps(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_job_logs_job_id ON job_logs(job_id)`,
	}

	for _, query := range queries {
		if _, err := a.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

func (a *Adapter) CreateJob(job *storage.Job) error {
	query := `INSERT INTO jobs (job_id, started_at, po_number, vendor_name, total_amount, erp_po_id, edi_content)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := a.db.Exec(query, job.ID, job.StartedAt, job.PONumber, job.VendorName,
		job.TotalAmount.String(), job.ERPPOID, job.EDIContent)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (a *Adapter) UpdateJob(job *storage.Job) error {
	query := `UPDATE jobs SET completed_at = $1, duration_seconds = $2, success = $3,
			  po_number = $4, vendor_name = $5, total_amount = $6, erp_po_id = $7
			  WHERE job_id = $8`

	_, err := a.db.Exec(query, job.CompletedAt, job.DurationSeconds, job.Success,
		job.PONumber, job.VendorName, job.TotalAmount.String(), job.ERPPOID, job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

func (a *Adapter) UpsertStep(step *storage.JobStep) error {
	query := `INSERT INTO job_steps (job_id, step_name, status, attempts, data, error)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (job_id, step_name) DO UPDATE SET
			  status = excluded.status, attempts = excluded.attempts,
			  data = excluded.data, error = excluded.error`

	var data interface{}
	if len(step.Data) > 0 {
		data = string(step.Data)
	}

	_, err := a.db.Exec(query, step.JobID, step.Name, step.Status, step.Attempts, data, step.Error)
	if err != nil {
		return fmt.Errorf("failed to upsert job step: %w", err)
	}

	return nil
}

func (a *Adapter) AppendLog(entry *storage.JobLog) error {
	query := `INSERT INTO job_logs (job_id, timestamp, level, stage, message, details)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := a.db.Exec(query, entry.JobID, entry.Timestamp, entry.Level, entry.Stage,
		entry.Message, entry.Details)
	if err != nil {
		return fmt.Errorf("failed to append job log: %w", err)
	}

	return nil
}

func (a *Adapter) GetJob(jobID string) (*storage.Job, error) {
	query := `SELECT job_id, started_at, completed_at, duration_seconds, success,
			  po_number, vendor_name, total_amount, erp_po_id, edi_content
			  FROM jobs WHERE job_id = $1`

	job := &storage.Job{}
	var completedAt sql.NullTime
	err := a.db.QueryRow(query, jobID).Scan(&job.ID, &job.StartedAt, &completedAt,
		&job.DurationSeconds, &job.Success, &job.PONumber, &job.VendorName,
		&job.TotalAmount, &job.ERPPOID, &job.EDIContent)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("job")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}

	if job.Steps, err = a.loadSteps(jobID); err != nil {
		return nil, err
	}
	if job.Logs, err = a.loadLogs(jobID); err != nil {
		return nil, err
	}

	return job, nil
}

func (a *Adapter) loadSteps(jobID string) ([]*storage.JobStep, error) {
	query := `SELECT job_id, step_name, status, attempts, data, error
			  FROM job_steps WHERE job_id = $1 ORDER BY id ASC`

	rows, err := a.db.Query(query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job steps: %w", err)
	}
	defer rows.Close()

	var steps []*storage.JobStep
	for rows.Next() {
		step := &storage.JobStep{}
		var data sql.NullString
		if err := rows.Scan(&step.JobID, &step.Name, &step.Status, &step.Attempts,
			&data, &step.Error); err != nil {
			return nil, fmt.Errorf("failed to scan job step: %w", err)
		}
		if data.Valid && data.String != "" {
			step.Data = json.RawMessage(data.String)
		}
		steps = append(steps, step)
	}

	return steps, rows.Err()
}

func (a *Adapter) loadLogs(jobID string) ([]*storage.JobLog, error) {
	query := `SELECT job_id, timestamp, level, stage, message, details
			  FROM job_logs WHERE job_id = $1 ORDER BY id ASC`

	rows, err := a.db.Query(query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job logs: %w", err)
	}
	defer rows.Close()

	var logs []*storage.JobLog
	for rows.Next() {
		entry := &storage.JobLog{}
		if err := rows.Scan(&entry.JobID, &entry.Timestamp, &entry.Level, &entry.Stage,
			&entry.Message, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to scan job log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

func (a *Adapter) RecentJobs(limit int) ([]*storage.Job, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT job_id, started_at, completed_at, duration_seconds, success,
			  po_number, vendor_name, total_amount, erp_po_id
			  FROM jobs ORDER BY started_at DESC LIMIT $1`

	return a.queryJobs(query, limit)
}

func (a *Adapter) SearchJobs(filters storage.JobFilters) ([]*storage.Job, error) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.PONumber != "" {
		conditions = append(conditions, "po_number LIKE "+arg("%"+filters.PONumber+"%"))
	}
	if filters.VendorName != "" {
		conditions = append(conditions, "vendor_name ILIKE "+arg("%"+filters.VendorName+"%"))
	}
	if filters.Success != nil {
		conditions = append(conditions, "success = "+arg(*filters.Success))
	}
	if !filters.Since.IsZero() {
		conditions = append(conditions, "started_at >= "+arg(filters.Since))
	}

	query := `SELECT job_id, started_at, completed_at, duration_seconds, success,
			  po_number, vendor_name, total_amount, erp_po_id FROM jobs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY started_at DESC LIMIT " + arg(limit)

	return a.queryJobs(query, args...)
}

func (a *Adapter) queryJobs(query string, args ...interface{}) ([]*storage.Job, error) {
	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*storage.Job
	for rows.Next() {
		job := &storage.Job{}
		var completedAt sql.NullTime
		if err := rows.Scan(&job.ID, &job.StartedAt, &completedAt, &job.DurationSeconds,
			&job.Success, &job.PONumber, &job.VendorName, &job.TotalAmount,
			&job.ERPPOID); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if completedAt.Valid {
			job.CompletedAt = &completedAt.Time
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (a *Adapter) Stats() (*storage.Stats, error) {
	query := `SELECT COUNT(*),
			  COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			  COALESCE(AVG(CASE WHEN completed_at IS NOT NULL THEN duration_seconds END), 0),
			  MAX(started_at)
			  FROM jobs`

	stats := &storage.Stats{}
	var lastJobAt sql.NullTime
	err := a.db.QueryRow(query).Scan(&stats.TotalJobs, &stats.SuccessfulJobs,
		&stats.AverageDurationSeconds, &lastJobAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.FailedJobs = stats.TotalJobs - stats.SuccessfulJobs
	if stats.TotalJobs > 0 {
		stats.SuccessRate = float64(stats.SuccessfulJobs) / float64(stats.TotalJobs) * 100
	}
	if lastJobAt.Valid {
		stats.LastJobAt = &lastJobAt.Time
	}

	return stats, nil
}
