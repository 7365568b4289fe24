package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
)

func TestBackendTypeIsValid(t *testing.T) {
	tests := []struct {
		typ  BackendType
		want bool
	}{
		{MemoryBackend, true},
		{SQLiteBackend, true},
		{PostgresBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}
	for _, tt := range tests {
		if got := tt.typ.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "data/fintrack.db",
	}
	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "data/fintrack.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "bogus"}); err == nil {
		t.Error("expected error for unknown backend type")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"postgres with url", Config{Type: PostgresBackend, PostgresURL: "postgres://localhost/db"}, false},
		{"postgres missing url", Config{Type: PostgresBackend}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRepositoryMemory(t *testing.T) {
	repo, err := CreateRepository(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateRepository: %v", err)
	}
	if repo != nil {
		t.Error("expected nil repository for memory backend")
	}
}

func TestCreateRepositorySQLite(t *testing.T) {
	cfg := Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "fintrack.db"),
	}
	repo, err := CreateRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateRepository: %v", err)
	}
	if repo == nil {
		t.Fatal("expected repository")
	}
	repo.Close()
}
