// Package templates stores command templates: named action/expected-result
// text pairs with {Category} placeholders, kept in insertion order.
package templates

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/specbook/internal/ordered"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// ExtractPlaceholders returns the category names referenced by template.
// A placeholder is a whitespace-delimited token of the exact form {Name}
// where Name is non-empty and contains no braces. The result is sorted and
// free of duplicates.
func ExtractPlaceholders(template string) []string {
	var names []string
	for _, tok := range strings.Fields(template) {
		if name, ok := placeholder(tok); ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func placeholder(tok string) (string, bool) {
	if len(tok) < 3 || tok[0] != '{' || tok[len(tok)-1] != '}' {
		return "", false
	}
	name := tok[1 : len(tok)-1]
	if strings.ContainsAny(name, "{}") {
		return "", false
	}
	return name, true
}

// RequiredCategories returns the placeholders of both texts of cmd.
func RequiredCategories(cmd types.CommandTemplate) []string {
	return ExtractPlaceholders(cmd.Action + " " + cmd.Expected)
}

// Store maps template name to template. Not safe for concurrent use.
type Store struct {
	commands *orderedmap.OrderedMap[string, *types.CommandTemplate]
}

// New returns an empty store.
func New() *Store {
	return &Store{commands: orderedmap.New[string, *types.CommandTemplate]()}
}

// Len returns the number of templates.
func (s *Store) Len() int {
	return s.commands.Len()
}

// Names returns template names in insertion order.
func (s *Store) Names() []string {
	return ordered.Keys(s.commands)
}

// Has reports whether a template called name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.commands.Get(name)
	return ok
}

// Get returns a copy of the named template.
func (s *Store) Get(name string) (types.CommandTemplate, error) {
	cmd, ok := s.commands.Get(name)
	if !ok {
		return types.CommandTemplate{}, fmt.Errorf("command %q: %w", name, types.ErrNotFound)
	}
	return *cmd, nil
}

// Filter returns the names containing query, ignoring case. An empty query
// matches everything.
func (s *Store) Filter(query string) []string {
	q := strings.ToLower(query)
	var names []string
	for pair := s.commands.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(strings.ToLower(pair.Key), q) {
			names = append(names, pair.Key)
		}
	}
	return names
}

// Add stores a new template.
func (s *Store) Add(name, action, expected string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("command name: %w", types.ErrInvalidName)
	}
	if s.Has(name) {
		return fmt.Errorf("command %q: %w", name, types.ErrNameCollision)
	}
	s.commands.Set(name, &types.CommandTemplate{Name: name, Action: action, Expected: expected})
	return nil
}

// Update replaces both texts of an existing template.
func (s *Store) Update(name, action, expected string) error {
	cmd, ok := s.commands.Get(name)
	if !ok {
		return fmt.Errorf("command %q: %w", name, types.ErrNotFound)
	}
	cmd.Action = action
	cmd.Expected = expected
	return nil
}

// Rename changes a template's name in place.
func (s *Store) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("command name: %w", types.ErrInvalidName)
	}
	cmd, ok := s.commands.Get(oldName)
	if !ok {
		return fmt.Errorf("command %q: %w", oldName, types.ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if s.Has(newName) {
		return fmt.Errorf("command %q: %w", newName, types.ErrNameCollision)
	}
	if err := ordered.Rename(s.commands, oldName, newName, cmd); err != nil {
		return fmt.Errorf("renaming command %q: %w", oldName, err)
	}
	cmd.Name = newName
	return nil
}

// Delete removes a template. Callers confirm with the user first.
func (s *Store) Delete(name string) error {
	if _, present := s.commands.Delete(name); !present {
		return fmt.Errorf("command %q: %w", name, types.ErrNotFound)
	}
	return nil
}

// MarshalJSON encodes {name: {"Action": ..., "Expected Result": ...}} in
// insertion order.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.commands)
}

// UnmarshalJSON replaces the store contents. Parse failures wrap
// ErrMalformedDocument and leave the store unchanged.
func (s *Store) UnmarshalJSON(data []byte) error {
	commands := orderedmap.New[string, *types.CommandTemplate]()
	if err := json.Unmarshal(data, commands); err != nil {
		return fmt.Errorf("generic commands: %w: %v", types.ErrMalformedDocument, err)
	}
	for pair := commands.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			pair.Value = &types.CommandTemplate{}
		}
		pair.Value.Name = pair.Key
	}
	s.commands = commands
	return nil
}
