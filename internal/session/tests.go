package session

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/specbook/internal/compose"
	"github.com/mesh-intelligence/specbook/internal/derive"
	"github.com/mesh-intelligence/specbook/internal/suite"
	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/internal/templates"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// refresh recomputes the derived fields of tc and logs what changed.
func (s *Session) refresh(tc *types.TestCase) derive.Change {
	ch := s.gen.Refresh(tc)
	if ch.Any() {
		tddAdded, tddRemoved := derive.Counts(ch.TestDataDiff)
		tcgAdded, tcgRemoved := derive.Counts(ch.TCGDiff)
		s.log.Debug("derived fields updated",
			"test", tc.Name,
			"test_data_added", tddAdded, "test_data_removed", tddRemoved,
			"tcg_added", tcgAdded, "tcg_removed", tcgRemoved)
	}
	return ch
}

// changeTest applies fn to the named test case, refreshes its derived
// fields and saves the suite. fn must validate before it mutates.
func (s *Session) changeTest(name string, fn func(tc *types.TestCase) error) (derive.Change, error) {
	tc, err := s.suite.Get(name)
	if err != nil {
		return derive.Change{}, err
	}
	if err := fn(tc); err != nil {
		return derive.Change{}, fmt.Errorf("test %q: %w", name, err)
	}
	ch := s.refresh(tc)
	return ch, s.save(types.DocTests)
}

// changeSuite applies fn to the suite and saves it.
func (s *Session) changeSuite(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return s.save(types.DocTests)
}

// Test returns a deep copy of the named test case.
func (s *Session) Test(name string) (*types.TestCase, error) {
	tc, err := s.suite.Get(name)
	if err != nil {
		return nil, err
	}
	return tc.Clone(tc.Name), nil
}

// FilterTests returns test names containing query, ignoring case.
func (s *Session) FilterTests(query string) []string {
	return s.suite.Filter(query)
}

// AddTestCase appends an empty test case.
func (s *Session) AddTestCase(name, description, precondition string) error {
	return s.changeSuite(func() error {
		tc, err := s.suite.Add(name, description, precondition)
		if err != nil {
			return err
		}
		s.refresh(tc)
		return nil
	})
}

// RenameTestCase renames a test case in place.
func (s *Session) RenameTestCase(oldName, newName string) error {
	return s.changeSuite(func() error { return s.suite.Rename(oldName, newName) })
}

// DeleteTestCase removes a test case.
func (s *Session) DeleteTestCase(name string) error {
	return s.changeSuite(func() error { return s.suite.Delete(name) })
}

// DuplicateTestCase deep-copies a test case to the next free name_k, placed
// right after the original, and returns the new name.
func (s *Session) DuplicateTestCase(name string) (string, error) {
	var newName string
	err := s.changeSuite(func() error {
		cp, err := s.suite.Duplicate(name)
		if err != nil {
			return err
		}
		newName = cp.Name
		return nil
	})
	return newName, err
}

// SetDescription replaces a test's description.
func (s *Session) SetDescription(name, description string) error {
	_, err := s.changeTest(name, func(tc *types.TestCase) error {
		tc.Description = strings.TrimSpace(description)
		return nil
	})
	return err
}

// SetPrecondition replaces a test's precondition; the TCG description
// follows it.
func (s *Session) SetPrecondition(name, precondition string) error {
	_, err := s.changeTest(name, func(tc *types.TestCase) error {
		tc.Precondition = strings.TrimSpace(precondition)
		return nil
	})
	return err
}

// AddStepFromCommand composes a step from a command template and appends
// it to a test. Every placeholder of the template needs a selection naming
// an existing parameter of that category, else ErrIncompleteSelection or
// ErrNotFound.
func (s *Session) AddStepFromCommand(test, command string, sel compose.Selections) (compose.Result, error) {
	if _, err := s.suite.Get(test); err != nil {
		return compose.Result{}, err
	}
	cmd, err := s.templates.Get(command)
	if err != nil {
		return compose.Result{}, err
	}
	required := templates.RequiredCategories(cmd)
	if !compose.IsComplete(required, sel) {
		return compose.Result{}, fmt.Errorf("command %q needs %s: %w",
			command, strings.Join(compose.Missing(required, sel), ", "), types.ErrIncompleteSelection)
	}
	for _, cat := range required {
		if !s.catalog.Has(cat, sel[cat]) {
			return compose.Result{}, fmt.Errorf("parameter %q in category %q: %w", sel[cat], cat, types.ErrNotFound)
		}
	}

	used := make(compose.Selections, len(required))
	for _, cat := range required {
		used[cat] = sel[cat]
	}
	res := compose.Compose(cmd.Action, cmd.Expected, used)
	_, err = s.changeTest(test, func(tc *types.TestCase) error {
		tc.AppendStep(res.Action, res.Expected)
		return nil
	})
	return res, err
}

// AppendStep adds a literal step at the end of a test.
func (s *Session) AppendStep(test, action, expected string) error {
	_, err := s.changeTest(test, func(tc *types.TestCase) error {
		tc.AppendStep(action, expected)
		return nil
	})
	return err
}

// InsertStep inserts a literal step at index.
func (s *Session) InsertStep(test string, index int, action, expected string) error {
	_, err := s.changeTest(test, func(tc *types.TestCase) error {
		return tc.InsertStep(index, action, expected)
	})
	return err
}

// DeleteStep removes the step at index.
func (s *Session) DeleteStep(test string, index int) error {
	_, err := s.changeTest(test, func(tc *types.TestCase) error {
		return tc.DeleteStep(index)
	})
	return err
}

// MoveStep swaps a step with its neighbour and reports whether it moved.
// Moving past either end is a no-op and saves nothing.
func (s *Session) MoveStep(test string, index int, dir types.Direction) (bool, error) {
	tc, err := s.suite.Get(test)
	if err != nil {
		return false, err
	}
	moved, err := tc.MoveStep(index, dir)
	if err != nil || !moved {
		if err != nil {
			err = fmt.Errorf("test %q: %w", test, err)
		}
		return false, err
	}
	s.refresh(tc)
	return true, s.save(types.DocTests)
}

// CopyStep places the step at index on the step clipboard, replacing
// whatever was there. The clipboard survives across test cases.
func (s *Session) CopyStep(test string, index int) error {
	tc, err := s.suite.Get(test)
	if err != nil {
		return err
	}
	st, err := tc.StepAt(index)
	if err != nil {
		return fmt.Errorf("test %q: %w", test, err)
	}
	s.copiedStep = &st
	return nil
}

// CopiedStep returns the step clipboard.
func (s *Session) CopiedStep() (types.Step, bool) {
	if s.copiedStep == nil {
		return types.Step{}, false
	}
	return *s.copiedStep, true
}

// PasteStep inserts the clipboard step after targetIndex and returns the
// index it landed at. A targetIndex of -1 pastes at the front. Returns
// ErrNothingCopied if nothing was copied.
func (s *Session) PasteStep(test string, targetIndex int) (int, error) {
	if s.copiedStep == nil {
		return 0, types.ErrNothingCopied
	}
	st := *s.copiedStep
	at := targetIndex + 1
	_, err := s.changeTest(test, func(tc *types.TestCase) error {
		return tc.InsertStep(at, st.Action, st.Expected)
	})
	if err != nil {
		return 0, err
	}
	return at, nil
}

// Refresh recomputes the derived fields of one test and saves the suite
// only if something changed.
func (s *Session) Refresh(test string) (derive.Change, error) {
	tc, err := s.suite.Get(test)
	if err != nil {
		return derive.Change{}, err
	}
	ch := s.refresh(tc)
	if !ch.Any() {
		return ch, nil
	}
	return ch, s.save(types.DocTests)
}

// RefreshAll recomputes every test and saves the suite once if any changed.
// Returns the names of the tests that changed.
func (s *Session) RefreshAll() ([]string, error) {
	var changed []string
	for _, tc := range s.suite.All() {
		if s.refresh(tc).Any() {
			changed = append(changed, tc.Name)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	return changed, s.save(types.DocTests)
}

// ImportTests adds the rows of t as new test cases, skipping names that
// already exist, and computes their derived fields.
func (s *Session) ImportTests(t tabular.Table) (suite.ImportResult, error) {
	res, err := s.suite.ImportTable(t)
	if err != nil {
		return res, err
	}
	for _, name := range res.Skipped {
		s.log.Warn("test already exists, skipping import", "test", name)
	}
	if len(res.Added) == 0 {
		return res, nil
	}
	for _, name := range res.Added {
		if tc, err := s.suite.Get(name); err == nil {
			s.refresh(tc)
		}
	}
	return res, s.save(types.DocTests)
}

// ExportTests renders the suite as a table.
func (s *Session) ExportTests() tabular.Table {
	return s.suite.ExportTable()
}
