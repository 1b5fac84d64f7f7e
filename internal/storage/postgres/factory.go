package postgres

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
		cfg.Host = c.String("host", cfg.Host)
		cfg.Port = c.Int("port", cfg.Port)
		cfg.Database = c.String("database", cfg.Database)
		cfg.Username = c.String("username", cfg.Username)
		cfg.Password = c.String("password", cfg.Password)
		cfg.SSLMode = c.String("sslmode", cfg.SSLMode)
		return NewAdapter(cfg)
	default:
		return nil, fmt.Errorf("invalid config type for PostgreSQL job store")
	}
}

func (f *Factory) GetType() string {
	return "postgres"
}

func init() {
	storage.Register("postgres", &Factory{})
}
