package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"rupeetrack/internal/config"
	"rupeetrack/internal/core"
	"rupeetrack/internal/storage"
)

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		bt   BackendType
		want bool
	}{
		{SQLiteBackend, true},
		{FileBackend, true},
		{MemoryBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.bt.String(), func(t *testing.T) {
			if got := tt.bt.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	_, err := FromAppConfig(&config.Config{DataBackend: "postgres"})
	if err == nil || !strings.Contains(err.Error(), "invalid backend type in config: postgres") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "file", StateFilePath: "/tmp/x.json", SQLiteDBPath: "/tmp/x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != FileBackend || cfg.StateFilePath != "/tmp/x.json" || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"file ok", Config{Type: FileBackend, StateFilePath: "x.json"}, false},
		{"file missing path", Config{Type: FileBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "cloud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "sqlite,file,memory" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestDefaultFactory_CreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name        string
		config      Config
		wantCleanup bool
	}{
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "state.db")}, true},
		{"file", Config{Type: FileBackend, StateFilePath: filepath.Join(dir, "state.json")}, false},
		{"memory", Config{Type: MemoryBackend}, false},
	}

	factory := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := factory.CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer result.Close()

			if (result.Cleanup != nil) != tt.wantCleanup {
				t.Errorf("cleanup registered = %v, want %v", result.Cleanup != nil, tt.wantCleanup)
			}

			state := core.NewState()
			state.Profile.Name = "Ravi"
			if err := result.Persister.Save(ctx, state); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			loaded, err := result.Persister.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.Profile.Name != "Ravi" {
				t.Errorf("profile name = %q, want Ravi", loaded.Profile.Name)
			}
		})
	}
}

func TestDefaultFactory_MemoryBackendType(t *testing.T) {
	result, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := result.Persister.(*storage.MemoryRepository); !ok {
		t.Errorf("expected *storage.MemoryRepository, got %T", result.Persister)
	}
}

func TestDefaultFactory_RejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	if err == nil {
		t.Fatal("expected error for missing sqlite path")
	}
}
