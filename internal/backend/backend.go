// Package backend selects and constructs the persistence repository from
// configuration.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/postgres"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a repository.
type Config struct {
	Type         BackendType
	SQLiteDBPath string
	PostgresURL  string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required for postgres backend")
		}
	}
	return nil
}

// CreateRepository builds the repository for the configured backend. The
// memory backend returns nil, the ledger then runs without persistence.
func CreateRepository(ctx context.Context, cfg Config) (services.Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case MemoryBackend:
		return nil, nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		return repo, nil
	case PostgresBackend:
		repo, err := postgres.NewRepository(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize Postgres repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
