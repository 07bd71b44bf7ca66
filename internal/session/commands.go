package session

import "github.com/mesh-intelligence/specbook/pkg/types"

func (s *Session) changeTemplates(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return s.save(types.DocCommands)
}

// AddCommand stores a new command template.
func (s *Session) AddCommand(name, action, expected string) error {
	return s.changeTemplates(func() error { return s.templates.Add(name, action, expected) })
}

// UpdateCommand replaces both texts of a command template. Steps already
// composed from it are not touched.
func (s *Session) UpdateCommand(name, action, expected string) error {
	return s.changeTemplates(func() error { return s.templates.Update(name, action, expected) })
}

// RenameCommand renames a command template in place.
func (s *Session) RenameCommand(oldName, newName string) error {
	return s.changeTemplates(func() error { return s.templates.Rename(oldName, newName) })
}

// DeleteCommand removes a command template. The caller has confirmed.
func (s *Session) DeleteCommand(name string) error {
	return s.changeTemplates(func() error { return s.templates.Delete(name) })
}
