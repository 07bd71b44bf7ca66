// Package compose turns a command template plus per-category parameter
// selections into concrete step text.
//
// Substitution inserts the selected parameter's name, never its value.
// Derived fields later find parameters by name in the step text, so the name
// has to survive composition.
package compose

import (
	"slices"
	"strings"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// Selections maps category name to the name of the chosen parameter.
type Selections map[string]string

// Result is one composed step plus the selections that produced it.
type Result struct {
	Action     string
	Expected   string
	Provenance []string
}

// Step returns the composed text as a test step.
func (r Result) Step() types.Step {
	return types.Step{Action: r.Action, Expected: r.Expected}
}

// IsComplete reports whether every required category has a non-empty
// selection.
func IsComplete(required []string, sel Selections) bool {
	for _, cat := range required {
		if sel[cat] == "" {
			return false
		}
	}
	return true
}

// Missing returns the required categories without a selection, in the order
// given.
func Missing(required []string, sel Selections) []string {
	var missing []string
	for _, cat := range required {
		if sel[cat] == "" {
			missing = append(missing, cat)
		}
	}
	return missing
}

// Compose resolves every {Category} of both templates that has a selection.
// All placeholders are replaced in one pass over the original text, so
// inserted names are never rescanned. Placeholders without a selection stay
// in the output; callers check IsComplete first.
func Compose(actionTmpl, expectedTmpl string, sel Selections) Result {
	r := replacer(sel)
	return Result{
		Action:     r.Replace(actionTmpl),
		Expected:   r.Replace(expectedTmpl),
		Provenance: provenance(sel),
	}
}

// Preview resolves the selections made so far in a single template.
func Preview(tmpl string, sel Selections) string {
	return replacer(sel).Replace(tmpl)
}

func replacer(sel Selections) *strings.Replacer {
	cats := sortedCategories(sel)
	pairs := make([]string, 0, 2*len(cats))
	for _, cat := range cats {
		pairs = append(pairs, "{"+cat+"}", sel[cat])
	}
	return strings.NewReplacer(pairs...)
}

// provenance lists "Category = name" ordered by category.
func provenance(sel Selections) []string {
	cats := sortedCategories(sel)
	lines := make([]string, 0, len(cats))
	for _, cat := range cats {
		lines = append(lines, cat+" = "+sel[cat])
	}
	return lines
}

func sortedCategories(sel Selections) []string {
	cats := make([]string, 0, len(sel))
	for cat, name := range sel {
		if name != "" {
			cats = append(cats, cat)
		}
	}
	slices.Sort(cats)
	return cats
}

// ParameterSource lists the parameters of a category. *catalog.Catalog
// satisfies it.
type ParameterSource interface {
	Parameters(category string) ([]string, error)
}

// Candidates returns the parameters of category whose name contains query,
// ignoring case.
func Candidates(src ParameterSource, category, query string) ([]string, error) {
	names, err := src.Parameters(category)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	return slices.DeleteFunc(names, func(n string) bool {
		return !strings.Contains(strings.ToLower(n), q)
	}), nil
}
