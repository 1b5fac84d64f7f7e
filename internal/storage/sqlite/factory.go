package sqlite

import (
	"fmt"

	"edi-bridge/internal/storage"
)

type Factory struct{}

func (f *Factory) Create(config storage.StorageConfig) (storage.JobStore, error) {
	switch c := config.(type) {
	case *Config:
		return NewAdapter(c)
	case storage.GenericConfig:
		cfg := DefaultConfig()
		cfg.DatabasePath = c.String("path", cfg.DatabasePath)
		return NewAdapter(cfg)
	default:
		return nil, fmt.Errorf("invalid config type for SQLite job store")
	}
}

func (f *Factory) GetType() string {
	return "sqlite"
}

func init() {
	storage.Register("sqlite", &Factory{})
}
