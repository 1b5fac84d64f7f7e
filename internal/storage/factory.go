package storage

import (
	"fmt"
	"strconv"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/config"
)

// NewJobStore creates a job store from application configuration. The
// adapter packages register themselves through their init functions, so the
// caller must import the adapters it wants available.
func NewJobStore(cfg *config.Config) (JobStore, error) {
	var storageType string
	var storageConfig StorageConfig

	switch cfg.StorageType {
	case "sqlite":
		storageType = "sqlite"
		storageConfig = GenericConfig{
			"type": "sqlite",
			"path": cfg.SQLitePath,
		}

	case "postgres", "postgresql":
		port, err := strconv.Atoi(cfg.PostgresPort)
		if err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("invalid PostgreSQL port: %s", cfg.PostgresPort))
		}
		storageType = "postgres"
		storageConfig = GenericConfig{
			"type":     "postgres",
			"host":     cfg.PostgresHost,
			"port":     port,
			"database": cfg.PostgresDB,
			"username": cfg.PostgresUser,
			"password": cfg.PostgresPassword,
			"sslmode":  cfg.PostgresSSLMode,
		}

	case "none":
		storageType = "none"
		storageConfig = GenericConfig{"type": "none"}

	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported storage type: %s", cfg.StorageType))
	}

	return Create(storageType, storageConfig)
}
