// Package jsonstore persists each document as one JSON file in the data
// directory: parameters.json, generic_commands.json and tests.json.
//
// Saves replace the whole file with the temp-file, fsync, rename pattern, so
// a failed save leaves the previous file intact.
package jsonstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// FileExt is the extension of every document file.
const FileExt = ".json"

// Backend implements types.Store on plain JSON files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dir      string
}

// NewBackend returns a detached backend; call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config and creates DataDir if needed.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	dir := config.DataDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	b.dir = dir
	b.attached = true
	return nil
}

// Path returns the file that holds doc.
func (b *Backend) Path(doc types.Document) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return filepath.Join(b.dir, string(doc)+FileExt)
}

// Load reads the document file. Returns ErrNotFound if it does not exist.
func (b *Backend) Load(doc types.Document) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	path := filepath.Join(b.dir, string(doc)+FileExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Save atomically replaces the document file with data.
func (b *Backend) Save(doc types.Document, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	return writeAtomic(filepath.Join(b.dir, string(doc)+FileExt), data)
}

// Detach releases the backend. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".specbook-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
