package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// record is the persisted form of one test case. Actions and expected
// results are stored as two parallel arrays.
type record struct {
	Description         string   `json:"Description"`
	Precondition        string   `json:"Precondition"`
	Action              []string `json:"Action"`
	Expected            []string `json:"Expected Results"`
	TestDataDescription []string `json:"Test Data Description"`
	DescriptionTCG      []string `json:"Description TCG"`
}

// looseRecord accepts documents written by older tools, where a fresh test
// stored "" instead of an empty array.
type looseRecord struct {
	Description         string          `json:"Description"`
	Precondition        string          `json:"Precondition"`
	Action              json.RawMessage `json:"Action"`
	Expected            json.RawMessage `json:"Expected Results"`
	TestDataDescription json.RawMessage `json:"Test Data Description"`
	DescriptionTCG      json.RawMessage `json:"Description TCG"`
}

func toRecord(tc *types.TestCase) record {
	r := record{
		Description:         tc.Description,
		Precondition:        tc.Precondition,
		Action:              make([]string, len(tc.Steps)),
		Expected:            make([]string, len(tc.Steps)),
		TestDataDescription: nonNil(tc.TestDataDescription),
		DescriptionTCG:      nonNil(tc.DescriptionTCG),
	}
	for i, st := range tc.Steps {
		r.Action[i] = st.Action
		r.Expected[i] = st.Expected
	}
	return r
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

// MarshalJSON encodes the suite as {name: record} in suite order.
func (s *Suite) MarshalJSON() ([]byte, error) {
	doc := orderedmap.New[string, record]()
	for pair := s.tests.Oldest(); pair != nil; pair = pair.Next() {
		doc.Set(pair.Key, toRecord(pair.Value))
	}
	return json.Marshal(doc)
}

// UnmarshalJSON replaces the suite contents. Action and expected arrays of
// unequal length are padded with "" so steps stay paired. Parse failures
// wrap ErrMalformedDocument and leave the suite unchanged.
func (s *Suite) UnmarshalJSON(data []byte) error {
	doc := orderedmap.New[string, *looseRecord]()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("tests: %w: %v", types.ErrMalformedDocument, err)
	}
	tests := orderedmap.New[string, *types.TestCase]()
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		tc, err := fromRecord(pair.Key, pair.Value)
		if err != nil {
			return fmt.Errorf("tests: test %q: %w: %v", pair.Key, types.ErrMalformedDocument, err)
		}
		tests.Set(pair.Key, tc)
	}
	s.tests = tests
	return nil
}

func fromRecord(name string, r *looseRecord) (*types.TestCase, error) {
	tc := &types.TestCase{Name: name}
	if r == nil {
		return tc, nil
	}
	tc.Description = r.Description
	tc.Precondition = r.Precondition

	actions, err := lines(r.Action)
	if err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}
	expected, err := lines(r.Expected)
	if err != nil {
		return nil, fmt.Errorf("expected results: %w", err)
	}
	tc.Steps = zipSteps(actions, expected)
	if tc.TestDataDescription, err = lines(r.TestDataDescription); err != nil {
		return nil, fmt.Errorf("test data description: %w", err)
	}
	if tc.DescriptionTCG, err = lines(r.DescriptionTCG); err != nil {
		return nil, fmt.Errorf("description tcg: %w", err)
	}
	return tc, nil
}

// lines decodes an array of strings. A missing field, null or "" is empty;
// any other string is split into lines.
func lines(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		return strings.Split(text, "\n"), nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// zipSteps zips actions and expected results into steps, padding the shorter
// side with "".
func zipSteps(actions, expected []string) []types.Step {
	n := max(len(actions), len(expected))
	if n == 0 {
		return nil
	}
	steps := make([]types.Step, n)
	for i := range steps {
		if i < len(actions) {
			steps[i].Action = actions[i]
		}
		if i < len(expected) {
			steps[i].Expected = expected[i]
		}
	}
	return steps
}
