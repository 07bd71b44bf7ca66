// Package suite holds the ordered collection of test cases. Order is the
// order cases were added, with duplicates placed after their original.
package suite

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/specbook/internal/naming"
	"github.com/mesh-intelligence/specbook/internal/ordered"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// Suite maps test name to test case. Not safe for concurrent use.
type Suite struct {
	tests *orderedmap.OrderedMap[string, *types.TestCase]
}

// New returns an empty suite.
func New() *Suite {
	return &Suite{tests: orderedmap.New[string, *types.TestCase]()}
}

// Len returns the number of test cases.
func (s *Suite) Len() int {
	return s.tests.Len()
}

// Names returns test names in suite order.
func (s *Suite) Names() []string {
	return ordered.Keys(s.tests)
}

// All returns the test cases in suite order. The pointers are live.
func (s *Suite) All() []*types.TestCase {
	return ordered.Values(s.tests)
}

// Has reports whether a test called name exists.
func (s *Suite) Has(name string) bool {
	_, ok := s.tests.Get(name)
	return ok
}

// Get returns the live test case called name.
func (s *Suite) Get(name string) (*types.TestCase, error) {
	tc, ok := s.tests.Get(name)
	if !ok {
		return nil, fmt.Errorf("test %q: %w", name, types.ErrNotFound)
	}
	return tc, nil
}

// Filter returns test names containing query, ignoring case.
func (s *Suite) Filter(query string) []string {
	q := strings.ToLower(query)
	var names []string
	for pair := s.tests.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(strings.ToLower(pair.Key), q) {
			names = append(names, pair.Key)
		}
	}
	return names
}

// Add appends an empty test case.
func (s *Suite) Add(name, description, precondition string) (*types.TestCase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("test name: %w", types.ErrInvalidName)
	}
	if s.Has(name) {
		return nil, fmt.Errorf("test %q: %w", name, types.ErrNameCollision)
	}
	tc := &types.TestCase{Name: name, Description: description, Precondition: precondition}
	s.tests.Set(name, tc)
	return tc, nil
}

// Rename changes a test's name in place.
func (s *Suite) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("test name: %w", types.ErrInvalidName)
	}
	tc, err := s.Get(oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if s.Has(newName) {
		return fmt.Errorf("test %q: %w", newName, types.ErrNameCollision)
	}
	if err := ordered.Rename(s.tests, oldName, newName, tc); err != nil {
		return fmt.Errorf("renaming test %q: %w", oldName, err)
	}
	tc.Name = newName
	return nil
}

// Delete removes a test case.
func (s *Suite) Delete(name string) error {
	if _, present := s.tests.Delete(name); !present {
		return fmt.Errorf("test %q: %w", name, types.ErrNotFound)
	}
	return nil
}

// Duplicate deep-copies a test case to name_k, k being the smallest free
// suffix, and places it right after the original. Returns the copy.
func (s *Suite) Duplicate(name string) (*types.TestCase, error) {
	tc, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	newName := naming.NextSuffixed(name, s.Has)
	cp := tc.Clone(newName)
	if err := ordered.SetAfter(s.tests, name, newName, cp); err != nil {
		return nil, fmt.Errorf("duplicating test %q: %w", name, err)
	}
	return cp, nil
}
