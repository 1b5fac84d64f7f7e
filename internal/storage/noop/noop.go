// Package noop provides a job store that records nothing. It backs the
// "none" storage type so the pipeline can mirror run state unconditionally
// even when persistence is switched off.
package noop

import (
	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/storage"
)

type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Connect(config storage.StorageConfig) error { return nil }

func (a *Adapter) Close() error { return nil }

func (a *Adapter) Health() error { return nil }

func (a *Adapter) CreateJob(job *storage.Job) error { return nil }

func (a *Adapter) UpdateJob(job *storage.Job) error { return nil }

func (a *Adapter) UpsertStep(step *storage.JobStep) error { return nil }

func (a *Adapter) AppendLog(entry *storage.JobLog) error { return nil }

func (a *Adapter) GetJob(jobID string) (*storage.Job, error) {
	return nil, errors.NotFoundError("job")
}

func (a *Adapter) RecentJobs(limit int) ([]*storage.Job, error) {
	return nil, nil
}

func (a *Adapter) SearchJobs(filters storage.JobFilters) ([]*storage.Job, error) {
	return nil, nil
}

func (a *Adapter) Stats() (*storage.Stats, error) {
	return &storage.Stats{}, nil
}

type Factory struct{}

func (f *Factory) Create(config storage.StorageConfig) (storage.JobStore, error) {
	return NewAdapter(), nil
}

func (f *Factory) GetType() string {
	return "none"
}

func init() {
	storage.Register("none", &Factory{})
}
