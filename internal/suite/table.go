package suite

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// Test table columns, in export order.
const (
	ColTestName            = "Test Name"
	ColDescription         = "Description"
	ColPrecondition        = "Precondition"
	ColAction              = "Action"
	ColExpected            = "Expected Results"
	ColTestDataDescription = "Test Data Description"
	ColDescriptionTCG      = "Description TCG"
)

// Columns is the header of an exported test table.
var Columns = []string{
	ColTestName, ColDescription, ColPrecondition, ColAction, ColExpected,
	ColTestDataDescription, ColDescriptionTCG,
}

// ImportResult lists what ImportTable did with each named row.
type ImportResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// ImportTable appends one test case per row of t. Rows whose name already
// exists are skipped, as are rows without a name. The Action and Expected
// Results cells hold one step per line, optionally numbered "n. " by
// position as ExportTable writes them; the shorter side is padded so steps
// stay paired. Derived columns are ignored and must be recomputed by the
// caller.
func (s *Suite) ImportTable(t tabular.Table) (ImportResult, error) {
	nameCol := t.Column(ColTestName)
	if nameCol < 0 {
		return ImportResult{}, types.ErrInvalidImport
	}
	descCol := t.Column(ColDescription)
	preCol := t.Column(ColPrecondition)
	actCol := t.Column(ColAction)
	expCol := t.Column(ColExpected)

	var res ImportResult
	for _, row := range t.Rows {
		name := strings.TrimSpace(tabular.Cell(row, nameCol))
		if name == "" {
			continue
		}
		if s.Has(name) {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		tc := &types.TestCase{
			Name:         name,
			Description:  tabular.Cell(row, descCol),
			Precondition: tabular.Cell(row, preCol),
			Steps: zipSteps(
				splitSteps(tabular.Cell(row, actCol)),
				splitSteps(tabular.Cell(row, expCol)),
			),
		}
		s.tests.Set(name, tc)
		res.Added = append(res.Added, name)
	}
	return res, nil
}

// splitSteps returns the non-blank lines of cell. A line that starts with
// its own step number, "n. " for the n-th line, loses that prefix; other
// leading numbers are step text.
func splitSteps(cell string) []string {
	var out []string
	for line := range strings.SplitSeq(cell, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		num := strconv.Itoa(len(out)+1) + "."
		if rest, ok := strings.CutPrefix(line, num); ok && (rest == "" || rest[0] == ' ') {
			line = strings.TrimPrefix(rest, " ")
		}
		out = append(out, line)
	}
	return out
}

// ExportTable renders every test case as one row. Steps become numbered
// lines; derived fields are joined with newlines.
func (s *Suite) ExportTable() tabular.Table {
	t := tabular.Table{Header: append([]string(nil), Columns...)}
	for pair := s.tests.Oldest(); pair != nil; pair = pair.Next() {
		tc := pair.Value
		actions := make([]string, len(tc.Steps))
		expected := make([]string, len(tc.Steps))
		for i, st := range tc.Steps {
			n := strconv.Itoa(i+1) + ". "
			actions[i] = n + st.Action
			expected[i] = n + st.Expected
		}
		t.Rows = append(t.Rows, []string{
			tc.Name,
			tc.Description,
			tc.Precondition,
			strings.Join(actions, "\n"),
			strings.Join(expected, "\n"),
			strings.Join(tc.TestDataDescription, "\n"),
			strings.Join(tc.DescriptionTCG, "\n"),
		})
	}
	return t
}
