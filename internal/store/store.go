package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jwhan/tallypad/internal/model"
)

const (
	stateFile      = "presets.json"
	legacySideFile = "counter_data.json"
	historyDirName = "history"
)

// DefaultRetentionDays is how long archives are kept before pruning.
const DefaultRetentionDays = 90

// Manager owns all file I/O for one data directory: the active state file,
// the archive directory, and retention pruning.
//
// Manager performs no locking of its own; the single-instance guard in
// internal/lock keeps two processes out of the same data directory.
type Manager struct {
	dataDir       string
	historyDir    string
	retentionDays int
}

// Option configures a Manager.
type Option func(*Manager)

// WithRetentionDays overrides the archive retention window.
// Values below 1 are ignored.
func WithRetentionDays(days int) Option {
	return func(m *Manager) {
		if days >= 1 {
			m.retentionDays = days
		}
	}
}

// Open prepares a Manager for the given data directory, creating the
// directory and its history subdirectory if needed.
func Open(dataDir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dataDir:       dataDir,
		historyDir:    filepath.Join(dataDir, historyDirName),
		retentionDays: DefaultRetentionDays,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(m.historyDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return m, nil
}

// DataDir returns the managed data directory.
func (m *Manager) DataDir() string {
	return m.dataDir
}

// StatePath returns the path of the active state file.
func (m *Manager) StatePath() string {
	return filepath.Join(m.dataDir, stateFile)
}

// Save writes the active state atomically: marshal, write to a temp file
// in the same directory, rename over the previous file. Earlier releases
// wrote in place with no atomicity guarantee; a crash mid-write could
// destroy the state file.
func (m *Manager) Save(st *model.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return writeFileAtomic(m.StatePath(), data)
}

// writeFileAtomic writes data to a sibling temp file and renames it into
// place. The rename is atomic on every platform we support.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// SchemaError reports stored JSON that could not be recognized as any
// supported schema generation. Callers typically log it once and fall back
// to a default state instead of aborting startup.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error in %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is (or wraps) a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
