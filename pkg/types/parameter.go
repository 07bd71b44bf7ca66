package types

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parameter is a named test input within a category. Values maps variant
// name to value in column order.
type Parameter struct {
	Name   string
	Values *orderedmap.OrderedMap[string, string]
}

// NewParameter returns a parameter with every variant in variants set to "".
func NewParameter(name string, variants ...string) *Parameter {
	p := &Parameter{Name: name, Values: orderedmap.New[string, string]()}
	for _, v := range variants {
		p.Values.Set(v, "")
	}
	return p
}

// Value returns the value of variant, or "" if the variant is absent.
func (p *Parameter) Value(variant string) string {
	if p == nil || p.Values == nil {
		return ""
	}
	v, _ := p.Values.Get(variant)
	return v
}

// HasVariant reports whether the parameter has a column named variant.
func (p *Parameter) HasVariant(variant string) bool {
	if p.Values == nil {
		return false
	}
	_, ok := p.Values.Get(variant)
	return ok
}

// Variants returns the variant names in column order.
func (p *Parameter) Variants() []string {
	if p.Values == nil {
		return nil
	}
	names := make([]string, 0, p.Values.Len())
	for pair := p.Values.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Clone returns a deep copy of the parameter renamed to name. The copy
// shares no state with the receiver.
func (p *Parameter) Clone(name string) *Parameter {
	cp := &Parameter{Name: name, Values: orderedmap.New[string, string]()}
	if p.Values == nil {
		return cp
	}
	for pair := p.Values.Oldest(); pair != nil; pair = pair.Next() {
		cp.Values.Set(pair.Key, pair.Value)
	}
	return cp
}
