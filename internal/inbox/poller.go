// Package inbox polls a drop directory for purchase order files and feeds
// them through the pipeline. Partners that cannot call the API drop raw
// interchanges as *.edi files; each file becomes one pipeline run and is
// archived under processed/ or failed/ by outcome.
package inbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/pipeline"
)

// Archive subdirectories inside the drop directory.
const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Poller scans a directory on a cron schedule and runs each dropped file
// through the pipeline. Scans never overlap; a scan that fires while the
// previous one is still working is skipped.
type Poller struct {
	dir    string
	orch   *pipeline.Orchestrator
	logger logging.Logger
	cron   *cron.Cron

	mu       sync.Mutex
	scanning bool
}

// New creates a poller for the given directory and cron schedule. The
// archive subdirectories are created up front so a scan never has to.
func New(dir, schedule string, orch *pipeline.Orchestrator, logger logging.Logger) (*Poller, error) {
	if dir == "" {
		return nil, errors.ConfigError("inbox directory is required")
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	for _, sub := range []string{dir, filepath.Join(dir, processedDir), filepath.Join(dir, failedDir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, errors.InternalError("failed to create inbox directory", err)
		}
	}

	p := &Poller{
		dir:    dir,
		orch:   orch,
		logger: logger,
		cron:   cron.New(),
	}

	if _, err := p.cron.AddFunc(schedule, func() { p.Scan() }); err != nil {
		return nil, errors.ConfigError("invalid inbox schedule: " + err.Error())
	}
	return p, nil
}

// Start begins scheduled scanning.
func (p *Poller) Start() {
	p.cron.Start()
	p.logger.Info("Inbox poller started", logging.String("dir", p.dir))
}

// Stop halts the schedule and waits for an in-flight scan to finish, up to
// the context deadline.
func (p *Poller) Stop(ctx context.Context) error {
	select {
	case <-p.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scan processes every *.edi file currently in the drop directory and
// returns how many files it handled. A scan already in progress makes this
// a no-op.
func (p *Poller) Scan() int {
	p.mu.Lock()
	if p.scanning {
		p.mu.Unlock()
		p.logger.Debug("Inbox scan already running, skipping")
		return 0
	}
	p.scanning = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.scanning = false
		p.mu.Unlock()
	}()

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		p.logger.Error("Inbox scan failed", err, logging.String("dir", p.dir))
		return 0
	}

	handled := 0
	for _, entry := range entries {
		name := entry.Name()
		// Dotfiles are commonly partial writes; droppers rename into place.
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".edi") {
			continue
		}
		p.processFile(name)
		handled++
	}

	if handled > 0 {
		p.logger.Debug("Inbox scan complete", logging.Int("files", handled))
	}
	return handled
}

func (p *Poller) processFile(name string) {
	path := filepath.Join(p.dir, name)

	content, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("Failed to read inbox file", logging.String("file", name), logging.Err(err))
		return
	}

	// Runs are not tied to a caller; shutdown waits for the scan instead.
	result, runErr := p.orch.Run(context.Background(), string(content))

	archive := processedDir
	if runErr != nil {
		archive = failedDir
	}
	if err := os.Rename(path, filepath.Join(p.dir, archive, name)); err != nil {
		p.logger.Warn("Failed to archive inbox file",
			logging.String("file", name),
			logging.String("archive", archive),
			logging.Err(err))
	}

	if runErr != nil {
		p.logger.Error("Inbox file failed", runErr,
			logging.String("file", name),
			logging.String("job_id", result.JobID))
		return
	}
	p.logger.Info("Inbox file processed",
		logging.String("file", name),
		logging.String("job_id", result.JobID),
		logging.String("po_number", result.PONumber))
}
