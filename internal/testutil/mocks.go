package testutil

import (
	"context"
	"sync"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/erp"
	"edi-bridge/internal/erpclient"
	"edi-bridge/internal/storage"
)

// SubmitOutcome is one scripted result for MockSubmitter.
type SubmitOutcome struct {
	Response *erpclient.Response
	Err      error
}

// AcceptedOutcome scripts a successful submission.
func AcceptedOutcome(erpPOID string) SubmitOutcome {
	return SubmitOutcome{
		Response: &erpclient.Response{
			Success:       true,
			TransactionID: "11111111-2222-3333-4444-555555555555",
			Message:       "Purchase order created successfully",
			ERPPOID:       erpPOID,
			Timestamp:     "2024-01-15T12:00:00Z",
		},
	}
}

// RejectedOutcome scripts a terminal refusal by the receiver.
func RejectedOutcome(message string) SubmitOutcome {
	return SubmitOutcome{Err: errors.RejectedError(message)}
}

// TransientOutcome scripts a retryable delivery failure.
func TransientOutcome(message string) SubmitOutcome {
	return SubmitOutcome{Err: errors.TransientError(message, nil)}
}

// MockSubmitter plays back scripted outcomes in order, repeating the last
// one once the script is exhausted.
type MockSubmitter struct {
	mu        sync.Mutex
	script    []SubmitOutcome
	calls     int
	requests  []*erp.PurchaseOrder
	HealthErr error
}

func NewMockSubmitter(outcomes ...SubmitOutcome) *MockSubmitter {
	return &MockSubmitter{script: outcomes}
}

func (m *MockSubmitter) Submit(ctx context.Context, po *erp.PurchaseOrder) (*erpclient.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.requests = append(m.requests, po)

	if len(m.script) == 0 {
		return AcceptedOutcome("ERP-" + po.PONumber + "-0000").Response, nil
	}

	outcome := m.script[0]
	if len(m.script) > 1 {
		m.script = m.script[1:]
	}
	return outcome.Response, outcome.Err
}

func (m *MockSubmitter) Health(ctx context.Context) error {
	return m.HealthErr
}

// Calls reports how many times Submit ran.
func (m *MockSubmitter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recently submitted payload.
func (m *MockSubmitter) LastRequest() *erp.PurchaseOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// RecordingJobStore is an in-memory storage.JobStore that keeps copies of
// everything written to it. Setting WriteErr makes every write fail, which
// tests use to prove that run mirroring never disturbs the pipeline itself.
type RecordingJobStore struct {
	mu       sync.Mutex
	jobs     map[string]*storage.Job
	steps    map[string][]*storage.JobStep
	logs     map[string][]*storage.JobLog
	WriteErr error
}

func NewRecordingJobStore() *RecordingJobStore {
	return &RecordingJobStore{
		jobs:  make(map[string]*storage.Job),
		steps: make(map[string][]*storage.JobStep),
		logs:  make(map[string][]*storage.JobLog),
	}
}

func (s *RecordingJobStore) Connect(config storage.StorageConfig) error { return nil }

func (s *RecordingJobStore) Close() error { return nil }

func (s *RecordingJobStore) Health() error { return nil }

func (s *RecordingJobStore) CreateJob(job *storage.Job) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *RecordingJobStore) UpdateJob(job *storage.Job) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *RecordingJobStore) UpsertStep(step *storage.JobStep) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *step
	for i, existing := range s.steps[step.JobID] {
		if existing.Name == step.Name {
			s.steps[step.JobID][i] = &cp
			return nil
		}
	}
	s.steps[step.JobID] = append(s.steps[step.JobID], &cp)
	return nil
}

func (s *RecordingJobStore) AppendLog(entry *storage.JobLog) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.logs[entry.JobID] = append(s.logs[entry.JobID], &cp)
	return nil
}

func (s *RecordingJobStore) GetJob(jobID string) (*storage.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errors.NotFoundError("job")
	}

	cp := *job
	cp.Steps = append([]*storage.JobStep(nil), s.steps[jobID]...)
	cp.Logs = append([]*storage.JobLog(nil), s.logs[jobID]...)
	return &cp, nil
}

func (s *RecordingJobStore) RecentJobs(limit int) ([]*storage.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []*storage.Job
	for _, job := range s.jobs {
		cp := *job
		jobs = append(jobs, &cp)
		if limit > 0 && len(jobs) == limit {
			break
		}
	}
	return jobs, nil
}

func (s *RecordingJobStore) SearchJobs(filters storage.JobFilters) ([]*storage.Job, error) {
	return s.RecentJobs(filters.Limit)
}

func (s *RecordingJobStore) Stats() (*storage.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &storage.Stats{TotalJobs: len(s.jobs)}
	for _, job := range s.jobs {
		if job.Success {
			stats.SuccessfulJobs++
		}
	}
	stats.FailedJobs = stats.TotalJobs - stats.SuccessfulJobs
	if stats.TotalJobs > 0 {
		stats.SuccessRate = float64(stats.SuccessfulJobs) / float64(stats.TotalJobs) * 100
	}
	return stats, nil
}

// Step returns the recorded step for a job, or nil.
func (s *RecordingJobStore) Step(jobID, name string) *storage.JobStep {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, step := range s.steps[jobID] {
		if step.Name == name {
			cp := *step
			return &cp
		}
	}
	return nil
}

// LogMessages returns the recorded log messages for a job in order.
func (s *RecordingJobStore) LogMessages(jobID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []string
	for _, entry := range s.logs[jobID] {
		messages = append(messages, entry.Message)
	}
	return messages
}
