package noop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/storage"
)

func TestAdapter_AcceptsWritesSilently(t *testing.T) {
	adapter := NewAdapter()

	assert.NoError(t, adapter.CreateJob(&storage.Job{ID: "job-1", StartedAt: time.Now()}))
	assert.NoError(t, adapter.UpdateJob(&storage.Job{ID: "job-1"}))
	assert.NoError(t, adapter.UpsertStep(&storage.JobStep{JobID: "job-1", Name: storage.StepParse}))
	assert.NoError(t, adapter.AppendLog(&storage.JobLog{JobID: "job-1", Message: "parsed"}))
	assert.NoError(t, adapter.Health())
	assert.NoError(t, adapter.Close())
}

func TestAdapter_ReadsComeBackEmpty(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.GetJob("job-1")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	recent, err := adapter.RecentJobs(10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	found, err := adapter.SearchJobs(storage.JobFilters{PONumber: "PO"})
	require.NoError(t, err)
	assert.Empty(t, found)

	stats, err := adapter.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalJobs)
}

func TestFactory_Registered(t *testing.T) {
	store, err := storage.Create("none", storage.GenericConfig{"type": "none"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
