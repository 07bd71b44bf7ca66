// Package catalog owns the parameter catalog: categories of parameters that
// share one variant schema, each parameter holding one value per variant.
//
// Every category keeps an explicit column list. Parameters always carry
// exactly those columns in that order, so adding or removing a variant is a
// single step over the whole category. The first column is the protected
// baseline.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/specbook/internal/naming"
	"github.com/mesh-intelligence/specbook/internal/ordered"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// minVariants is the number of variant columns DeleteVariant never goes
// below.
const minVariants = 2

type category struct {
	variants []string
	params   *orderedmap.OrderedMap[string, *types.Parameter]
}

func newCategory(variants []string) *category {
	return &category{
		variants: slices.Clone(variants),
		params:   orderedmap.New[string, *types.Parameter](),
	}
}

// Catalog maps category -> parameter -> variant -> value. Not safe for
// concurrent use.
type Catalog struct {
	baseline   string
	categories *orderedmap.OrderedMap[string, *category]
}

// New returns an empty catalog whose new categories start with the single
// variant column baseline.
func New(baseline string) *Catalog {
	if baseline == "" {
		baseline = types.DefaultBaselineVariant
	}
	return &Catalog{
		baseline:   baseline,
		categories: orderedmap.New[string, *category](),
	}
}

// Baseline returns the variant column new categories start with.
func (c *Catalog) Baseline() string {
	return c.baseline
}

// Categories returns the category names in order.
func (c *Catalog) Categories() []string {
	return ordered.Keys(c.categories)
}

// HasCategory reports whether name is a category.
func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.categories.Get(name)
	return ok
}

func (c *Catalog) category(name string) (*category, error) {
	cat, ok := c.categories.Get(name)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", name, types.ErrNotFound)
	}
	return cat, nil
}

func (c *Catalog) parameter(catName, name string) (*category, *types.Parameter, error) {
	cat, err := c.category(catName)
	if err != nil {
		return nil, nil, err
	}
	p, ok := cat.params.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("parameter %q in category %q: %w", name, catName, types.ErrNotFound)
	}
	return cat, p, nil
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return types.ErrInvalidName
	}
	return nil
}

// AddCategory creates an empty category with the baseline column.
// Returns ErrNameCollision if it exists.
func (c *Catalog) AddCategory(name string) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("category name: %w", err)
	}
	if c.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, types.ErrNameCollision)
	}
	c.categories.Set(name, newCategory([]string{c.baseline}))
	return nil
}

// DeleteCategory removes a category and all its parameters.
func (c *Catalog) DeleteCategory(name string) error {
	if _, err := c.category(name); err != nil {
		return err
	}
	c.categories.Delete(name)
	return nil
}

// Parameters returns the parameter names of a category in order.
func (c *Catalog) Parameters(catName string) ([]string, error) {
	cat, err := c.category(catName)
	if err != nil {
		return nil, err
	}
	return ordered.Keys(cat.params), nil
}

// Variants returns the variant columns of a category in order.
func (c *Catalog) Variants(catName string) ([]string, error) {
	cat, err := c.category(catName)
	if err != nil {
		return nil, err
	}
	return slices.Clone(cat.variants), nil
}

// Get returns a copy of a parameter.
func (c *Catalog) Get(catName, name string) (*types.Parameter, error) {
	_, p, err := c.parameter(catName, name)
	if err != nil {
		return nil, err
	}
	return p.Clone(p.Name), nil
}

// Has reports whether category catName holds a parameter called name.
func (c *Catalog) Has(catName, name string) bool {
	_, _, err := c.parameter(catName, name)
	return err == nil
}

// Lookup returns the value of variant for a parameter, or "" when any part
// of the path is absent.
func (c *Catalog) Lookup(catName, name, variant string) string {
	_, p, err := c.parameter(catName, name)
	if err != nil {
		return ""
	}
	return p.Value(variant)
}

// AddParameter creates a parameter with every column of the category set to
// "". A missing category is created with the baseline column.
// Returns ErrNameCollision if the category already holds name.
func (c *Catalog) AddParameter(catName, name string) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("parameter name: %w", err)
	}
	if err := validName(catName); err != nil {
		return fmt.Errorf("category name: %w", err)
	}
	cat, ok := c.categories.Get(catName)
	if ok {
		if _, exists := cat.params.Get(name); exists {
			return fmt.Errorf("parameter %q in category %q: %w", name, catName, types.ErrNameCollision)
		}
	} else {
		cat = newCategory([]string{c.baseline})
		c.categories.Set(catName, cat)
	}
	cat.params.Set(name, types.NewParameter(name, cat.variants...))
	return nil
}

// RenameParameter renames a parameter in place, keeping its values and its
// position in the category.
func (c *Catalog) RenameParameter(catName, oldName, newName string) error {
	if err := validName(newName); err != nil {
		return fmt.Errorf("parameter name: %w", err)
	}
	cat, p, err := c.parameter(catName, oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if _, exists := cat.params.Get(newName); exists {
		return fmt.Errorf("parameter %q in category %q: %w", newName, catName, types.ErrNameCollision)
	}
	if err := ordered.Rename(cat.params, oldName, newName, p); err != nil {
		return fmt.Errorf("renaming parameter %q: %w", oldName, err)
	}
	p.Name = newName
	return nil
}

// DeleteParameter removes a parameter from its category.
func (c *Catalog) DeleteParameter(catName, name string) error {
	cat, _, err := c.parameter(catName, name)
	if err != nil {
		return err
	}
	cat.params.Delete(name)
	return nil
}

// SetValue stores value for one variant of a parameter. The variant must be
// a column of the category.
func (c *Catalog) SetValue(catName, name, variant, value string) error {
	cat, p, err := c.parameter(catName, name)
	if err != nil {
		return err
	}
	if !slices.Contains(cat.variants, variant) {
		return fmt.Errorf("variant %q in category %q: %w", variant, catName, types.ErrNotFound)
	}
	p.Values.Set(variant, value)
	return nil
}

// AddVariant adds the column variant with value "" to every parameter of
// the category. Returns ErrNameCollision if the column exists.
func (c *Catalog) AddVariant(catName, variant string) error {
	if err := validName(variant); err != nil {
		return fmt.Errorf("variant name: %w", err)
	}
	cat, err := c.category(catName)
	if err != nil {
		return err
	}
	if slices.Contains(cat.variants, variant) {
		return fmt.Errorf("variant %q in category %q: %w", variant, catName, types.ErrNameCollision)
	}
	for pair := cat.params.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.HasVariant(variant) {
			return fmt.Errorf("variant %q in category %q: %w", variant, catName, types.ErrNameCollision)
		}
	}
	cat.variants = append(cat.variants, variant)
	for pair := cat.params.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Values.Set(variant, "")
	}
	return nil
}

// DeleteVariant removes the column variant from every parameter of the
// category. The baseline column is never removed, and a category keeps at
// least two variant columns; both cases return ErrProtectedColumn.
func (c *Catalog) DeleteVariant(catName, variant string) error {
	cat, err := c.category(catName)
	if err != nil {
		return err
	}
	idx := slices.Index(cat.variants, variant)
	if idx < 0 {
		return fmt.Errorf("variant %q in category %q: %w", variant, catName, types.ErrNotFound)
	}
	if idx == 0 || len(cat.variants)-1 < minVariants {
		return fmt.Errorf("variant %q in category %q: %w", variant, catName, types.ErrProtectedColumn)
	}
	cat.variants = slices.Delete(cat.variants, idx, idx+1)
	for pair := cat.params.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Values.Delete(variant)
	}
	return nil
}

// FindAll returns every parameter called name, one per category that holds
// it, in category order.
func (c *Catalog) FindAll(name string) []*types.Parameter {
	var found []*types.Parameter
	for pair := c.categories.Oldest(); pair != nil; pair = pair.Next() {
		if p, ok := pair.Value.params.Get(name); ok {
			found = append(found, p)
		}
	}
	return found
}

// IsParameterName reports whether any category holds a parameter called
// name. Matching is exact and case-sensitive.
func (c *Catalog) IsParameterName(name string) bool {
	for pair := c.categories.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := pair.Value.params.Get(name); ok {
			return true
		}
	}
	return false
}

// Duplicate copies a parameter to name_k, k being the smallest free suffix
// in the category, and places the copy right after the original. Returns
// the new name.
func (c *Catalog) Duplicate(catName, name string) (string, error) {
	cat, p, err := c.parameter(catName, name)
	if err != nil {
		return "", err
	}
	newName := naming.NextSuffixed(name, func(s string) bool {
		_, ok := cat.params.Get(s)
		return ok
	})
	if err := ordered.SetAfter(cat.params, name, newName, p.Clone(newName)); err != nil {
		return "", fmt.Errorf("duplicating parameter %q: %w", name, err)
	}
	return newName, nil
}

// Paste appends a copy of p to the target category under p.Name, or under
// p.Name with "_Copy" repeated until unique. Columns of p the category does
// not have are added to the category first; columns p lacks are "".
// Returns the name used.
func (c *Catalog) Paste(p *types.Parameter, targetCat string) (string, error) {
	cat, err := c.category(targetCat)
	if err != nil {
		return "", err
	}
	newName := naming.AppendUntilFree(p.Name, naming.CopySuffix, func(s string) bool {
		_, ok := cat.params.Get(s)
		return ok
	})
	for _, v := range p.Variants() {
		if !slices.Contains(cat.variants, v) {
			cat.variants = append(cat.variants, v)
			for pair := cat.params.Oldest(); pair != nil; pair = pair.Next() {
				pair.Value.Values.Set(v, "")
			}
		}
	}
	pasted := types.NewParameter(newName, cat.variants...)
	for _, v := range cat.variants {
		if p.HasVariant(v) {
			pasted.Values.Set(v, p.Value(v))
		}
	}
	cat.params.Set(newName, pasted)
	return newName, nil
}
