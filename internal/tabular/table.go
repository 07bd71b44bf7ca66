// Package tabular reads and writes the spreadsheet form of catalogs and test
// suites. A Table is a header row plus data rows; the file format is picked
// from the path extension (.csv or .xlsx).
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for paths that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Format extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// Table is a header row plus data rows. Every row has len(Header) cells
// once normalized.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the header named name, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns row[col] or "" when the row is shorter than col.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// normalize trims every cell, pads short rows and drops rows that are
// entirely blank.
func normalize(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}
	t := Table{Header: trimAll(records[0])}
	for _, rec := range records[1:] {
		row := trimAll(rec)
		if isBlank(row) {
			continue
		}
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// ReadFile loads a table from a .csv or .xlsx file.
func ReadFile(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		return readCSVFile(path)
	case ExtXLSX:
		return readXLSXFile(path)
	default:
		return Table{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// WriteOptions controls presentation details of written files.
type WriteOptions struct {
	// Sheet names the worksheet in .xlsx output. Defaults to "Sheet1".
	Sheet string
	// StyledHeader renders the header row bold on a coloured fill (.xlsx only).
	StyledHeader bool
}

// WriteFile saves t to a .csv or .xlsx file, replacing any existing file.
func WriteFile(path string, t Table, opts WriteOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		return writeCSVFile(path, t)
	case ExtXLSX:
		return writeXLSXFile(path, t, opts)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// BaseName returns the file name of path without its extension. Category
// imports use it as the category name.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
