// Package sqlite implements the SQLite document backend. Each document is
// stored whole as one row of the documents table; saves run in a
// transaction so a failed save leaves the previous row in place.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// DBFile is the database file created in DataDir.
const DBFile = "specbook.db"

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Backend implements types.Store on a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	now      func() time.Time
}

// Revision describes one saved version of a document.
type Revision struct {
	ID        string
	Size      int
	CreatedAt time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{now: time.Now}
}

// Attach opens DataDir/specbook.db, creating the directory and schema if
// needed. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFile))
	if err != nil {
		return err
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Load returns the stored body of doc. Returns ErrNotFound if doc was never
// saved.
func (b *Backend) Load(doc types.Document) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	var body []byte
	err := b.db.QueryRow(selectDocument, string(doc)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", doc, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", doc, err)
	}
	return body, nil
}

// Save replaces the body of doc and records a new revision.
func (b *Backend) Save(doc types.Document, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	rev := generateUUID()
	at := b.now().UTC().Format(timestampLayout)
	if data == nil {
		data = []byte{}
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(upsertDocument, string(doc), data, rev, at); err != nil {
		return fmt.Errorf("saving document %s: %w", doc, err)
	}
	if _, err := tx.Exec(insertHistory, rev, string(doc), len(data), at); err != nil {
		return fmt.Errorf("recording revision of %s: %w", doc, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Revisions returns up to limit revisions of doc, newest first.
func (b *Backend) Revisions(doc types.Document, limit int) ([]Revision, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := b.db.Query(selectHistory, string(doc), limit)
	if err != nil {
		return nil, fmt.Errorf("listing revisions of %s: %w", doc, err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var (
			r  Revision
			at string
		)
		if err := rows.Scan(&r.ID, &r.Size, &at); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(timestampLayout, at); err != nil {
			return nil, fmt.Errorf("revision %s: %w", r.ID, err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// generateUUID generates a new UUID v7 for revision IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
