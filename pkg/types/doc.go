// Package types defines the entity types, the Store interface, configuration,
// and the standard error values shared by every specbook package.
//
// The three persisted stores are the parameter catalog, the command template
// store, and the test suite. Entities here carry no persistence logic; the
// owning packages (internal/catalog, internal/templates, internal/suite) keep
// them ordered and encode them as documents.
package types
