package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rupeetrack/internal/core"
	"rupeetrack/internal/store"
)

const stateFileVersion = 1

type stateEnvelope struct {
	Version int `json:"version"`
	core.State
}

// FileRepository keeps the state record in a single JSON file, replaced
// atomically on every save.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

var _ store.Persister = (*FileRepository)(nil)

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// Load returns store.ErrNoState when the file does not exist yet.
func (r *FileRepository) Load(_ context.Context) (core.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.State{}, store.ErrNoState
	}
	if err != nil {
		return core.State{}, fmt.Errorf("read state file: %w", err)
	}

	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return core.State{}, fmt.Errorf("decode state file: %w", err)
	}
	if env.Version > stateFileVersion {
		return core.State{}, fmt.Errorf("state file version %d is newer than supported %d", env.Version, stateFileVersion)
	}
	return env.State, nil
}

func (r *FileRepository) Save(_ context.Context, s core.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(stateEnvelope{Version: stateFileVersion, State: s}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
