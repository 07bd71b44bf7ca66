package catalog

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

// values is one parameter's variant -> value mapping. The persisted shape
// is {category: {parameter: {variant: value}}}.
type values = *orderedmap.OrderedMap[string, string]

// MarshalJSON encodes the catalog in document order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	doc := orderedmap.New[string, *orderedmap.OrderedMap[string, values]]()
	for cp := c.categories.Oldest(); cp != nil; cp = cp.Next() {
		params := orderedmap.New[string, values]()
		for pp := cp.Value.params.Oldest(); pp != nil; pp = pp.Next() {
			params.Set(pp.Key, pp.Value.Values)
		}
		doc.Set(cp.Key, params)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON replaces the catalog contents with a decoded document.
// Parse failures wrap ErrMalformedDocument and leave the catalog unchanged.
//
// A category's columns are the variant keys in the order first seen across
// its parameters; a category without parameters gets the baseline column.
// Parameters missing a column receive "" for it.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	doc := orderedmap.New[string, *orderedmap.OrderedMap[string, values]]()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("parameters: %w: %v", types.ErrMalformedDocument, err)
	}
	if c.baseline == "" {
		c.baseline = types.DefaultBaselineVariant
	}

	categories := orderedmap.New[string, *category]()
	for cp := doc.Oldest(); cp != nil; cp = cp.Next() {
		cat := newCategory(nil)
		if cp.Value != nil {
			cat.variants = columnsOf(cp.Value)
		}
		if len(cat.variants) == 0 {
			cat.variants = []string{c.baseline}
		}
		if cp.Value != nil {
			for pp := cp.Value.Oldest(); pp != nil; pp = pp.Next() {
				p := types.NewParameter(pp.Key, cat.variants...)
				if pp.Value != nil {
					for vp := pp.Value.Oldest(); vp != nil; vp = vp.Next() {
						p.Values.Set(vp.Key, vp.Value)
					}
				}
				cat.params.Set(pp.Key, p)
			}
		}
		categories.Set(cp.Key, cat)
	}
	c.categories = categories
	return nil
}

func columnsOf(params *orderedmap.OrderedMap[string, values]) []string {
	var cols []string
	seen := make(map[string]bool)
	for pp := params.Oldest(); pp != nil; pp = pp.Next() {
		if pp.Value == nil {
			continue
		}
		for vp := pp.Value.Oldest(); vp != nil; vp = vp.Next() {
			if !seen[vp.Key] {
				seen[vp.Key] = true
				cols = append(cols, vp.Key)
			}
		}
	}
	return cols
}
