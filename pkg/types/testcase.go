package types

import "slices"

// Step is one action/expected-result pair of a test case.
type Step struct {
	Action   string
	Expected string
}

// Direction selects where MoveStep moves a step.
type Direction string

// Move directions.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection converts "up" or "down" into a Direction.
// Returns ErrInvalidDirection for anything else.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", ErrInvalidDirection
	}
}

// TestCase is a named, ordered sequence of steps plus metadata. The two
// derived fields are recomputed by internal/derive and never edited
// directly.
type TestCase struct {
	Name         string
	Description  string
	Precondition string
	Steps        []Step

	TestDataDescription []string
	DescriptionTCG      []string
}

// Len returns the number of steps.
func (tc *TestCase) Len() int {
	return len(tc.Steps)
}

// StepAt returns the step at index.
// Returns ErrIndexOutOfRange if index is not in [0, Len()).
func (tc *TestCase) StepAt(index int) (Step, error) {
	if index < 0 || index >= len(tc.Steps) {
		return Step{}, ErrIndexOutOfRange
	}
	return tc.Steps[index], nil
}

// AppendStep adds a step at the end of the sequence.
func (tc *TestCase) AppendStep(action, expected string) {
	tc.Steps = append(tc.Steps, Step{Action: action, Expected: expected})
}

// InsertStep inserts a step at index, shifting later steps right.
// index may equal Len(), which appends.
// Returns ErrIndexOutOfRange if index is not in [0, Len()].
func (tc *TestCase) InsertStep(index int, action, expected string) error {
	if index < 0 || index > len(tc.Steps) {
		return ErrIndexOutOfRange
	}
	tc.Steps = slices.Insert(tc.Steps, index, Step{Action: action, Expected: expected})
	return nil
}

// DeleteStep removes the step at index.
// Returns ErrIndexOutOfRange if index is not in [0, Len()).
func (tc *TestCase) DeleteStep(index int) error {
	if index < 0 || index >= len(tc.Steps) {
		return ErrIndexOutOfRange
	}
	tc.Steps = slices.Delete(tc.Steps, index, index+1)
	return nil
}

// MoveStep swaps the step at index with its neighbour in direction.
// Moving the first step up or the last step down is a no-op and reports
// false. Returns ErrIndexOutOfRange if index is not in [0, Len()) and
// ErrInvalidDirection for an unknown direction.
func (tc *TestCase) MoveStep(index int, direction Direction) (bool, error) {
	if index < 0 || index >= len(tc.Steps) {
		return false, ErrIndexOutOfRange
	}
	var other int
	switch direction {
	case DirectionUp:
		other = index - 1
	case DirectionDown:
		other = index + 1
	default:
		return false, ErrInvalidDirection
	}
	if other < 0 || other >= len(tc.Steps) {
		return false, nil
	}
	tc.Steps[index], tc.Steps[other] = tc.Steps[other], tc.Steps[index]
	return true, nil
}

// Clone returns a deep copy of the test case renamed to name.
func (tc *TestCase) Clone(name string) *TestCase {
	return &TestCase{
		Name:                name,
		Description:         tc.Description,
		Precondition:        tc.Precondition,
		Steps:               slices.Clone(tc.Steps),
		TestDataDescription: slices.Clone(tc.TestDataDescription),
		DescriptionTCG:      slices.Clone(tc.DescriptionTCG),
	}
}
