package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edi-bridge/internal/common/errors"
	"edi-bridge/internal/config"
)

// stubFactory records the config it was asked to build from.
type stubFactory struct {
	storageType string
	gotConfig   StorageConfig
}

func (f *stubFactory) Create(config StorageConfig) (JobStore, error) {
	f.gotConfig = config
	return nil, nil
}

func (f *stubFactory) GetType() string {
	return f.storageType
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewRegistry()
	factory := &stubFactory{storageType: "memory"}

	registry.Register("memory", factory)

	assert.True(t, registry.IsRegistered("memory"))
	assert.False(t, registry.IsRegistered("sqlite"))

	cfg := GenericConfig{"type": "memory"}
	_, err := registry.Create("memory", cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, factory.gotConfig)
}

func TestRegistry_UnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Create("cassandra", GenericConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_GetAvailableTypes(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a", &stubFactory{storageType: "a"})
	registry.Register("b", &stubFactory{storageType: "b"})

	types := registry.GetAvailableTypes()
	assert.ElementsMatch(t, []string{"a", "b"}, types)
}

func TestGenericConfig(t *testing.T) {
	gc := GenericConfig{
		"type":              "sqlite",
		"connection_string": "./test.db",
		"path":              "./custom.db",
		"port":              5433,
		"float_port":        float64(5434),
	}

	assert.NoError(t, gc.Validate())
	assert.Equal(t, "sqlite", gc.GetType())
	assert.Equal(t, "./test.db", gc.GetConnectionString())

	assert.Equal(t, "./custom.db", gc.String("path", "./default.db"))
	assert.Equal(t, "./default.db", gc.String("missing", "./default.db"))
	assert.Equal(t, 5433, gc.Int("port", 1))
	assert.Equal(t, 5434, gc.Int("float_port", 1))
	assert.Equal(t, 1, gc.Int("missing", 1))

	empty := GenericConfig{}
	assert.Equal(t, "unknown", empty.GetType())
	assert.Equal(t, "", empty.GetConnectionString())
}

func TestNewJobStore_RoutesSQLiteConfig(t *testing.T) {
	factory := &stubFactory{storageType: "sqlite"}
	Register("sqlite", factory)

	_, err := NewJobStore(&config.Config{
		StorageType: "sqlite",
		SQLitePath:  "/tmp/pipeline.db",
	})
	require.NoError(t, err)

	gc, ok := factory.gotConfig.(GenericConfig)
	require.True(t, ok)
	assert.Equal(t, "/tmp/pipeline.db", gc.String("path", ""))
}

func TestNewJobStore_RoutesPostgresConfig(t *testing.T) {
	factory := &stubFactory{storageType: "postgres"}
	Register("postgres", factory)

	_, err := NewJobStore(&config.Config{
		StorageType:      "postgres",
		PostgresHost:     "db.internal",
		PostgresPort:     "5433",
		PostgresDB:       "orders",
		PostgresUser:     "pipeline",
		PostgresPassword: "secret",
		PostgresSSLMode:  "require",
	})
	require.NoError(t, err)

	gc, ok := factory.gotConfig.(GenericConfig)
	require.True(t, ok)
	assert.Equal(t, "db.internal", gc.String("host", ""))
	assert.Equal(t, 5433, gc.Int("port", 0))
	assert.Equal(t, "orders", gc.String("database", ""))
	assert.Equal(t, "pipeline", gc.String("username", ""))
	assert.Equal(t, "secret", gc.String("password", ""))
	assert.Equal(t, "require", gc.String("sslmode", ""))
}

func TestNewJobStore_InvalidPostgresPort(t *testing.T) {
	_, err := NewJobStore(&config.Config{
		StorageType:  "postgres",
		PostgresHost: "localhost",
		PostgresPort: "not-a-port",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestNewJobStore_UnsupportedType(t *testing.T) {
	_, err := NewJobStore(&config.Config{StorageType: "dynamo"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	assert.Contains(t, err.Error(), "unsupported storage type")
}
