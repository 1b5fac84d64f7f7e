package inbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/pipeline"
	"edi-bridge/internal/testutil"
)

func newTestPoller(t *testing.T) (*Poller, string, *testutil.RecordingJobStore) {
	t.Helper()
	dir := t.TempDir()
	store := testutil.NewRecordingJobStore()
	orch := pipeline.New(testutil.NewMockSubmitter(), store, pipeline.Options{MaxAttempts: 3}, nil)

	p, err := New(dir, "@every 1h", orch, nil)
	require.NoError(t, err)
	return p, dir, store
}

func TestNew_RequiresDirectory(t *testing.T) {
	_, err := New("", "@every 30s", nil, nil)
	require.Error(t, err)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(t.TempDir(), "not a schedule", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid inbox schedule")
}

func TestNew_CreatesArchiveDirs(t *testing.T) {
	_, dir, _ := newTestPoller(t)

	assert.DirExists(t, filepath.Join(dir, "processed"))
	assert.DirExists(t, filepath.Join(dir, "failed"))
}

func TestScan_ProcessesAndArchives(t *testing.T) {
	p, dir, store := newTestPoller(t)

	good := filepath.Join(dir, "order-one.edi")
	require.NoError(t, os.WriteFile(good, []byte(testutil.SamplePurchaseOrder), 0o644))

	broken := strings.Replace(testutil.SamplePurchaseOrder, "CTT*3*350", "CTT*5*350", 1)
	bad := filepath.Join(dir, "order-two.EDI")
	require.NoError(t, os.WriteFile(bad, []byte(broken), 0o644))

	handled := p.Scan()
	assert.Equal(t, 2, handled)

	assert.FileExists(t, filepath.Join(dir, "processed", "order-one.edi"))
	assert.FileExists(t, filepath.Join(dir, "failed", "order-two.EDI"))
	assert.NoFileExists(t, good)
	assert.NoFileExists(t, bad)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 1, stats.SuccessfulJobs)
}

func TestScan_IgnoresOtherFiles(t *testing.T) {
	p, dir, _ := newTestPoller(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an order"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".partial.edi"), []byte("half written"), 0o644))

	assert.Equal(t, 0, p.Scan())
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, ".partial.edi"))
}

func TestScan_EmptyDirectory(t *testing.T) {
	p, _, _ := newTestPoller(t)
	assert.Equal(t, 0, p.Scan())
}

func TestScan_SkipsWhenScanInProgress(t *testing.T) {
	p, dir, _ := newTestPoller(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.edi"), []byte(testutil.SamplePurchaseOrder), 0o644))

	p.mu.Lock()
	p.scanning = true
	p.mu.Unlock()

	assert.Equal(t, 0, p.Scan())
	assert.FileExists(t, filepath.Join(dir, "order.edi"))
}

func TestStartStop(t *testing.T) {
	p, _, _ := newTestPoller(t)

	p.Start()
	require.NoError(t, p.Stop(context.Background()))
}
