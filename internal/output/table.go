// Package output writes extracted tables to files and reads them back.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/a3tai/contract-data-extractor/internal/extract"
)

// Format is a table file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ProvenanceColumn is appended to tables written with provenance enabled.
const ProvenanceColumn = "Provenance"

// ParseFormat validates a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want csv or xlsx)", s)
	}
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	return "." + string(f)
}

// IsTableFile reports whether name carries a table file extension
func IsTableFile(name string) bool {
	_, err := formatOf(name)
	return err == nil
}

func formatOf(name string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Table is a named grid of strings with a header row.
type Table struct {
	Name    string     `json:"name"`
	Header  []string   `json:"header"`
	Records [][]string `json:"records"`
}

// FromResult converts an extraction result to a table. With provenance the
// table gets a trailing column listing every cell that was not read
// directly.
func FromResult(r *extract.Result, provenance bool) *Table {
	t := &Table{
		Name:    r.Name,
		Header:  append([]string(nil), r.Header...),
		Records: r.Records(),
	}
	if provenance {
		t.Header = append(t.Header, ProvenanceColumn)
		for i := range t.Records {
			t.Records[i] = append(t.Records[i], r.Provenance(i))
		}
	}
	return t
}
