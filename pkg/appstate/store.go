package appstate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// StateFileName is the fixed key the persisted blob lives under, relative
// to the store's directory.
const StateFileName = "tzalign.json"

// Store is one of the two state sinks: the local persisted blob. Load
// returns (nil, nil) when no usable blob exists — absence is not an error,
// it just falls through to the next source at startup.
type Store interface {
	Load() (*State, error)
	Save(State) error
}

// FileStore persists the state as a JSON blob in a directory. Malformed
// content is treated as absent and logged as a warning, never surfaced as
// a hard failure.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// lazily on first save.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (f *FileStore) path() string { return filepath.Join(f.dir, StateFileName) }

// Load reads the persisted blob. Corrupted JSON is logged and treated as
// if no blob existed.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state blob: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		f.logger.Warn("persisted state is malformed, treating as absent", "path", f.path(), "error", err)
		return nil, nil
	}
	return &s, nil
}

// Save writes the blob atomically via a temp file rename. Repeated saves
// of an unchanged state produce an identical blob.
func (f *FileStore) Save(s State) error {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state blob: %w", err)
	}
	tempPath := f.path() + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("writing state blob: %w", err)
	}
	if err := os.Rename(tempPath, f.path()); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replacing state blob: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests, with optional failure
// injection to exercise the degrade-and-continue paths.
type MemStore struct {
	Blob     []byte
	FailLoad error
	FailSave error
	Saves    int
}

// Load decodes the held blob; malformed content is treated as absent,
// matching FileStore.
func (m *MemStore) Load() (*State, error) {
	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	if m.Blob == nil {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(m.Blob, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

// Save encodes the state into the held blob.
func (m *MemStore) Save(s State) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	m.Blob = data
	m.Saves++
	return nil
}
