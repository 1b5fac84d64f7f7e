// Package app wires the bridge together: configuration, job store,
// submitter, pipeline, HTTP surface and the inbox poller.
package app

import (
	"context"
	"time"

	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/config"
	"edi-bridge/internal/edi"
	"edi-bridge/internal/erpclient"
	"edi-bridge/internal/inbox"
	"edi-bridge/internal/pipeline"
	"edi-bridge/internal/storage"
)

// App holds all the application dependencies
type App struct {
	Config       *config.Config
	Store        storage.JobStore
	Submitter    erpclient.Submitter
	Orchestrator *pipeline.Orchestrator
	Inbox        *inbox.Poller
	Logger       logging.Logger
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	// Initialize components in order of dependency
	if err := app.initializeStorage(); err != nil {
		return nil, err
	}

	app.initializeSubmitter()
	app.initializePipeline()

	if err := app.initializeInbox(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) initializeSubmitter() {
	app.Submitter = erpclient.NewHTTPSubmitter(erpclient.Config{
		BaseURL: app.Config.ERPURL,
		Timeout: time.Duration(app.Config.ERPTimeoutSeconds) * time.Second,
	}, nil)

	app.Logger.Info("Receiving system configured",
		logging.String("url", app.Config.ERPURL),
		logging.Int("timeout_seconds", app.Config.ERPTimeoutSeconds))
}

func (app *App) initializePipeline() {
	app.Orchestrator = pipeline.New(app.Submitter, app.Store, pipeline.Options{
		Delimiters: edi.Delimiters{
			Segment:    app.Config.SegmentTerminator,
			Element:    app.Config.ElementSeparator,
			SubElement: app.Config.SubElementSeparator,
		},
		MaxAttempts: app.Config.MaxRetries,
		RetryDelay:  time.Duration(app.Config.RetryDelaySeconds) * time.Second,
	}, nil)
}

// initializeInbox sets up the drop-directory poller. An explicitly
// configured intake that cannot start stops the boot.
func (app *App) initializeInbox() error {
	if app.Config.InboxDir == "" {
		return nil
	}

	poller, err := inbox.New(app.Config.InboxDir, app.Config.InboxSchedule, app.Orchestrator, nil)
	if err != nil {
		return err
	}
	app.Inbox = poller

	app.Logger.Info("Inbox configured",
		logging.String("dir", app.Config.InboxDir),
		logging.String("schedule", app.Config.InboxSchedule))
	return nil
}

// Shutdown stops the background components, waiting for in-flight work up
// to the context deadline.
func (app *App) Shutdown(ctx context.Context) error {
	if app.Inbox != nil {
		if err := app.Inbox.Stop(ctx); err != nil {
			app.Logger.Warn("Error stopping inbox poller", logging.Err(err))
		} else {
			app.Logger.Info("Inbox poller stopped")
		}
	}
	return nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			app.Logger.Warn("Error closing job store", logging.Err(err))
		}
	}
}
