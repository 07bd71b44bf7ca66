// Package store is the public entry point for opening a specbook document
// store. It picks the backend named by Config.Backend while keeping the
// implementations internal.
package store

import (
	"fmt"

	"github.com/mesh-intelligence/specbook/internal/jsonstore"
	"github.com/mesh-intelligence/specbook/internal/sqlite"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// NewBackend creates a detached backend for name ("json" or "sqlite").
// Returns ErrBackendEmpty or ErrBackendUnknown for anything else.
//
// Example:
//
//	backend, err := store.NewBackend(types.BackendSQLite)
//	if err != nil {
//	    return err
//	}
//	err = backend.Attach(types.Config{
//	    Backend:         types.BackendSQLite,
//	    DataDir:         ".specbook-db",
//	    BaselineVariant: types.DefaultBaselineVariant,
//	})
//	defer backend.Detach()
func NewBackend(name string) (types.Store, error) {
	switch name {
	case types.BackendJSON:
		return jsonstore.NewBackend(), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%q: %w", name, types.ErrBackendUnknown)
	}
}

// Open creates the backend named by config and attaches it.
func Open(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBackend(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(config); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", config.Backend, err)
	}
	return b, nil
}
