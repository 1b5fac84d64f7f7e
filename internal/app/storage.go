package app

import (
	"context"
	"time"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/common/logging"
	"edi-bridge/internal/common/utils"
	"edi-bridge/internal/storage"

	// Adapters register themselves with the storage registry.
	_ "edi-bridge/internal/storage/noop"
	_ "edi-bridge/internal/storage/postgres"
	_ "edi-bridge/internal/storage/sqlite"
)

// initializeStorage creates the job store named by STORAGE_TYPE. Backend
// connection failures are retried; configuration mistakes fail immediately.
func (app *App) initializeStorage() error {
	switch app.Config.StorageType {
	case "postgres", "postgresql":
		app.Logger.Info("Job store: PostgreSQL",
			logging.String("host", app.Config.PostgresHost),
			logging.String("port", app.Config.PostgresPort),
			logging.String("database", app.Config.PostgresDB))
	case "none":
		app.Logger.Info("Job store disabled, runs will not be recorded")
	default:
		app.Logger.Info("Job store: SQLite", logging.String("path", app.Config.SQLitePath))
	}

	var store storage.JobStore
	err := utils.Retry(context.Background(), utils.RetryConfig{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		RetryableErrors: func(err error) bool {
			return !errors.IsType(err, errors.ErrTypeConfig)
		},
	}, func() error {
		var createErr error
		store, createErr = storage.NewJobStore(app.Config)
		if createErr != nil {
			app.Logger.Warn("Job store connection failed", logging.Err(createErr))
		}
		return createErr
	})
	if err != nil {
		return errors.ConnectionError("failed to initialize job store", err)
	}

	app.Store = store
	return nil
}
