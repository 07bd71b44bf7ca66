// Package session owns the three stores of an authoring session (parameter
// catalog, command templates and test suite) together with the step and
// parameter clipboards.
//
// Every mutating method validates its input, applies the change, refreshes
// the derived fields it can affect and saves each changed document whole. A
// failed save is returned to the caller; the in-memory change is kept. A
// Session is not safe for concurrent use.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/specbook/internal/catalog"
	"github.com/mesh-intelligence/specbook/internal/derive"
	"github.com/mesh-intelligence/specbook/internal/suite"
	"github.com/mesh-intelligence/specbook/internal/templates"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// Diagnostic records a document that failed to load. The session started
// that store empty instead.
type Diagnostic struct {
	Document types.Document
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Document, d.Err)
}

// Session is the sole owner of all mutable authoring state.
type Session struct {
	// ID identifies the session in logs.
	ID string

	cfg   types.Config
	store types.Store
	log   *slog.Logger

	catalog   *catalog.Catalog
	templates *templates.Store
	suite     *suite.Suite
	gen       *derive.Generator

	copiedStep  *types.Step
	copiedParam *types.Parameter

	diagnostics []Diagnostic
}

// Open loads every document from store. A document that was never saved
// starts empty. A malformed document also starts empty and is reported by
// Diagnostics; any other load error fails Open.
func Open(cfg types.Config, store types.Store, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := newID()
	s := &Session{
		ID:        id,
		cfg:       cfg,
		store:     store,
		log:       logger.With("session", id),
		catalog:   catalog.New(cfg.BaselineVariant),
		templates: templates.New(),
		suite:     suite.New(),
	}
	s.gen = derive.New(s.catalog, derive.SkipSubstring{Substring: cfg.PreconditionSkip})

	for _, doc := range types.Documents {
		if err := s.load(doc); err != nil {
			return nil, err
		}
	}
	s.log.Debug("session opened",
		"categories", len(s.catalog.Categories()),
		"commands", s.templates.Len(),
		"tests", s.suite.Len(),
		"diagnostics", len(s.diagnostics))
	return s, nil
}

// persisted is an in-memory store with a JSON form.
type persisted interface {
	json.Marshaler
	json.Unmarshaler
}

// document returns the in-memory store persisted as doc.
func (s *Session) document(doc types.Document) persisted {
	switch doc {
	case types.DocParameters:
		return s.catalog
	case types.DocCommands:
		return s.templates
	default:
		return s.suite
	}
}

func (s *Session) load(doc types.Document) error {
	data, err := s.store.Load(doc)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", doc, err)
	}
	if err := s.document(doc).UnmarshalJSON(data); err != nil {
		if !errors.Is(err, types.ErrMalformedDocument) {
			return fmt.Errorf("loading %s: %w", doc, err)
		}
		s.diagnostics = append(s.diagnostics, Diagnostic{Document: doc, Err: err})
		s.log.Warn("document is malformed, starting empty", "document", doc, "error", err)
	}
	return nil
}

// save writes doc whole.
func (s *Session) save(doc types.Document) error {
	data, err := json.MarshalIndent(s.document(doc), "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc, err)
	}
	if err := s.store.Save(doc, data); err != nil {
		s.log.Error("save failed", "document", doc, "error", err)
		return fmt.Errorf("saving %s: %w", doc, err)
	}
	s.log.Debug("saved", "document", doc, "bytes", len(data))
	return nil
}

// Close detaches the store.
func (s *Session) Close() error {
	return s.store.Detach()
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() types.Config {
	return s.cfg
}

// Diagnostics returns the documents that failed to load.
func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// Catalog gives read access to the parameter catalog. Mutate it only through
// Session methods.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Templates gives read access to the command templates. Mutate them only
// through Session methods.
func (s *Session) Templates() *templates.Store {
	return s.templates
}

// Suite gives read access to the test suite. Mutate it only through Session
// methods.
func (s *Session) Suite() *suite.Suite {
	return s.suite
}

// Generator returns the derived-field generator bound to the catalog.
func (s *Session) Generator() *derive.Generator {
	return s.gen
}

// newID generates a UUID v7 session ID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
