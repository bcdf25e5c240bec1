// Package bib extracts structured entries from the report's BibTeX
// bibliography text. Structural parsing is delegated to nickng/bibtex;
// this package only reshapes its output.
package bib

import (
	"fmt"
	"strings"

	"github.com/nickng/bibtex"
)

// Entry is one bibliographic record.
type Entry struct {
	CiteName string            `json:"cite_name"`
	Type     string            `json:"entry_type"`
	Fields   map[string]string `json:"fields"`
}

// Parse reads BibTeX source text into entries, in source order.
func Parse(src string) ([]Entry, error) {
	parsed, err := bibtex.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse bibliography: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		fields := make(map[string]string, len(e.Fields))
		for name, value := range e.Fields {
			fields[name] = value.String()
		}
		entries = append(entries, Entry{
			CiteName: e.CiteName,
			Type:     e.Type,
			Fields:   fields,
		})
	}
	return entries, nil
}
