package session

import (
	"errors"

	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// changeCatalog applies fn and, if it succeeds, saves the catalog and
// refreshes every test case. Any parameter edit can change which tokens
// name parameters or what their values are. The refresh runs even when the
// save fails so derived fields follow the in-memory catalog.
func (s *Session) changeCatalog(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	saveErr := s.save(types.DocParameters)
	_, refreshErr := s.RefreshAll()
	return errors.Join(saveErr, refreshErr)
}

// AddCategory creates an empty category.
func (s *Session) AddCategory(name string) error {
	return s.changeCatalog(func() error { return s.catalog.AddCategory(name) })
}

// DeleteCategory removes a category and its parameters.
func (s *Session) DeleteCategory(name string) error {
	return s.changeCatalog(func() error { return s.catalog.DeleteCategory(name) })
}

// AddParameter creates a parameter, creating the category if needed.
func (s *Session) AddParameter(category, name string) error {
	return s.changeCatalog(func() error { return s.catalog.AddParameter(category, name) })
}

// RenameParameter renames a parameter in place.
func (s *Session) RenameParameter(category, oldName, newName string) error {
	return s.changeCatalog(func() error { return s.catalog.RenameParameter(category, oldName, newName) })
}

// DeleteParameter removes a parameter.
func (s *Session) DeleteParameter(category, name string) error {
	return s.changeCatalog(func() error { return s.catalog.DeleteParameter(category, name) })
}

// SetValue edits one variant value of a parameter.
func (s *Session) SetValue(category, name, variant, value string) error {
	return s.changeCatalog(func() error { return s.catalog.SetValue(category, name, variant, value) })
}

// AddVariant adds a variant column to every parameter of a category.
func (s *Session) AddVariant(category, variant string) error {
	return s.changeCatalog(func() error { return s.catalog.AddVariant(category, variant) })
}

// DeleteVariant removes a variant column from every parameter of a
// category.
func (s *Session) DeleteVariant(category, variant string) error {
	return s.changeCatalog(func() error { return s.catalog.DeleteVariant(category, variant) })
}

// DuplicateParameter copies a parameter to the next free name_k in its
// category and returns that name.
func (s *Session) DuplicateParameter(category, name string) (string, error) {
	var newName string
	err := s.changeCatalog(func() error {
		var err error
		newName, err = s.catalog.Duplicate(category, name)
		return err
	})
	return newName, err
}

// CopyParameter places a deep copy of a parameter on the parameter
// clipboard, replacing whatever was there.
func (s *Session) CopyParameter(category, name string) error {
	p, err := s.catalog.Get(category, name)
	if err != nil {
		return err
	}
	s.copiedParam = p
	s.log.Debug("parameter copied", "category", category, "parameter", name)
	return nil
}

// CopiedParameter returns a copy of the parameter clipboard.
func (s *Session) CopiedParameter() (*types.Parameter, bool) {
	if s.copiedParam == nil {
		return nil, false
	}
	return s.copiedParam.Clone(s.copiedParam.Name), true
}

// PasteParameter appends the clipboard parameter to category, appending
// "_Copy" to its name until it is unique. Returns the name used.
// Returns ErrNothingCopied if nothing was copied.
func (s *Session) PasteParameter(category string) (string, error) {
	if s.copiedParam == nil {
		return "", types.ErrNothingCopied
	}
	var newName string
	err := s.changeCatalog(func() error {
		var err error
		newName, err = s.catalog.Paste(s.copiedParam, category)
		return err
	})
	return newName, err
}

// ImportCategory replaces a category with the rows of t and reports
// whether an existing category was overwritten.
func (s *Session) ImportCategory(category string, t tabular.Table) (bool, error) {
	var overwritten bool
	err := s.changeCatalog(func() error {
		var err error
		overwritten, err = s.catalog.ImportCategory(category, t)
		return err
	})
	if err == nil && overwritten {
		s.log.Warn("category overwritten by import", "category", category)
	}
	return overwritten, err
}

// ExportCategory renders a category as a table.
func (s *Session) ExportCategory(category string) (tabular.Table, error) {
	return s.catalog.ExportCategory(category)
}
