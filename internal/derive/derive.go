// Package derive computes the two summary fields of a test case from its
// steps and the parameter catalog: the Test Data Description and the
// Description for TCG.
//
// Both are pure functions of the steps, the precondition and the catalog.
// Refresh only assigns a field when its new value differs from the stored
// one, so callers can skip writes when nothing changed.
package derive

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// TCG section headers.
const (
	HeaderPrecondition = "PRECONDITION:"
	HeaderAction       = "ACTION:"
)

// ParameterIndex finds parameters by exact name across all categories.
// *catalog.Catalog satisfies it.
type ParameterIndex interface {
	FindAll(name string) []*types.Parameter
	IsParameterName(name string) bool
}

// PreconditionPolicy decides whether a non-empty precondition appears as a
// numbered line in the TCG description.
type PreconditionPolicy interface {
	ShowPrecondition(text string) bool
}

// SkipSubstring hides preconditions that contain Substring, ignoring case.
// An empty Substring hides nothing.
type SkipSubstring struct {
	Substring string
}

// ShowPrecondition implements PreconditionPolicy.
func (p SkipSubstring) ShowPrecondition(text string) bool {
	if p.Substring == "" {
		return true
	}
	return !strings.Contains(strings.ToLower(text), strings.ToLower(p.Substring))
}

// Generator derives summary fields against one parameter index.
type Generator struct {
	params ParameterIndex
	policy PreconditionPolicy
}

// New returns a Generator. A nil policy shows every precondition.
func New(params ParameterIndex, policy PreconditionPolicy) *Generator {
	if policy == nil {
		policy = SkipSubstring{}
	}
	return &Generator{params: params, policy: policy}
}

// TestDataDescription lists the non-empty values of every parameter named in
// the steps, grouped by variant. Tokens of all actions are scanned before
// tokens of all expected results. Groups appear in first-encountered order,
// each as "Variant:", its sorted unique "Param = Value" lines, then "".
func (g *Generator) TestDataDescription(steps []types.Step) []string {
	var order []string
	groups := make(map[string][]string)

	scan := func(text string) {
		for _, tok := range strings.Fields(text) {
			for _, p := range g.params.FindAll(tok) {
				for pair := p.Values.Oldest(); pair != nil; pair = pair.Next() {
					if pair.Value == "" {
						continue
					}
					if _, seen := groups[pair.Key]; !seen {
						order = append(order, pair.Key)
					}
					groups[pair.Key] = append(groups[pair.Key], tok+" = "+pair.Value)
				}
			}
		}
	}
	for _, st := range steps {
		scan(st.Action)
	}
	for _, st := range steps {
		scan(st.Expected)
	}

	var out []string
	for _, variant := range order {
		entries := groups[variant]
		slices.Sort(entries)
		out = append(out, variant+":")
		out = append(out, slices.Compact(entries)...)
		out = append(out, "")
	}
	return out
}

// Format wraps every whitespace token that names a parameter in single
// quotes and joins the tokens with single spaces.
func (g *Generator) Format(text string) string {
	toks := strings.Fields(text)
	for i, tok := range toks {
		if g.params.IsParameterName(tok) {
			toks[i] = "'" + tok + "'"
		}
	}
	return strings.Join(toks, " ")
}

// DescriptionTCG renders the test case for the test case generator. A test
// case without steps yields nothing.
func (g *Generator) DescriptionTCG(tc *types.TestCase) []string {
	if tc.Len() == 0 {
		return nil
	}
	out := []string{HeaderPrecondition}
	if pre := strings.TrimSpace(tc.Precondition); pre != "" && g.policy.ShowPrecondition(pre) {
		out = append(out, "1. "+pre, "")
	}
	out = append(out, HeaderAction)
	for i, st := range tc.Steps {
		out = append(out, strconv.Itoa(i+1)+". "+g.Format(st.Action)+" "+g.Format(st.Expected))
	}
	return out
}

// Change reports which derived fields Refresh replaced, with line diffs of
// the replaced fields.
type Change struct {
	TestDataChanged bool
	TCGChanged      bool
	TestDataDiff    []Line
	TCGDiff         []Line
}

// Any reports whether Refresh changed anything.
func (c Change) Any() bool {
	return c.TestDataChanged || c.TCGChanged
}

// Refresh recomputes both derived fields of tc and assigns the ones whose
// value differs from what is stored.
func (g *Generator) Refresh(tc *types.TestCase) Change {
	var ch Change
	if tdd := g.TestDataDescription(tc.Steps); !slices.Equal(tdd, tc.TestDataDescription) {
		ch.TestDataChanged = true
		ch.TestDataDiff = LineDiff(tc.TestDataDescription, tdd)
		tc.TestDataDescription = tdd
	}
	if tcg := g.DescriptionTCG(tc); !slices.Equal(tcg, tc.DescriptionTCG) {
		ch.TCGChanged = true
		ch.TCGDiff = LineDiff(tc.DescriptionTCG, tcg)
		tc.DescriptionTCG = tcg
	}
	return ch
}
