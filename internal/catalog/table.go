package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// ParameterNameColumn is the first header of a category table.
const ParameterNameColumn = "Parameter Name"

// ImportCategory replaces category catName with the contents of t. The
// header must start with ParameterNameColumn followed by one or more unique
// variant columns; rows with a blank name are skipped. Reports whether an
// existing category was overwritten.
func (c *Catalog) ImportCategory(catName string, t tabular.Table) (bool, error) {
	if err := validName(catName); err != nil {
		return false, fmt.Errorf("category name: %w", err)
	}
	variants, err := importColumns(t.Header)
	if err != nil {
		return false, err
	}
	cat := newCategory(variants)
	for _, row := range t.Rows {
		name := strings.TrimSpace(tabular.Cell(row, 0))
		if name == "" {
			continue
		}
		p := types.NewParameter(name, variants...)
		for i, v := range variants {
			p.Values.Set(v, tabular.Cell(row, i+1))
		}
		cat.params.Set(name, p)
	}
	overwritten := c.HasCategory(catName)
	c.categories.Set(catName, cat)
	return overwritten, nil
}

func importColumns(header []string) ([]string, error) {
	if len(header) == 0 || header[0] != ParameterNameColumn {
		return nil, fmt.Errorf("first column must be %q: %w", ParameterNameColumn, types.ErrInvalidImport)
	}
	variants := header[1:]
	if len(variants) == 0 {
		return nil, fmt.Errorf("no variant columns: %w", types.ErrInvalidImport)
	}
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v == "" {
			return nil, fmt.Errorf("blank variant column: %w", types.ErrInvalidImport)
		}
		if seen[v] || v == ParameterNameColumn {
			return nil, fmt.Errorf("duplicate column %q: %w", v, types.ErrInvalidImport)
		}
		seen[v] = true
	}
	return slices.Clone(variants), nil
}

// ExportCategory renders a category as a table with ParameterNameColumn
// first and one column per variant.
func (c *Catalog) ExportCategory(catName string) (tabular.Table, error) {
	cat, err := c.category(catName)
	if err != nil {
		return tabular.Table{}, err
	}
	t := tabular.Table{Header: append([]string{ParameterNameColumn}, cat.variants...)}
	for pair := cat.params.Oldest(); pair != nil; pair = pair.Next() {
		row := make([]string, 0, len(t.Header))
		row = append(row, pair.Key)
		for _, v := range cat.variants {
			row = append(row, pair.Value.Value(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
