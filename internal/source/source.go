// Package source reads a report document from disk. HTML reports are read
// verbatim; reports that were print-exported to PDF or DOCX are reduced to
// their plain text, to be segmented with a user-supplied pattern set.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists file extensions Read can handle.
var SupportedExtensions = map[string]bool{
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read returns the document text for path, trimmed of surrounding
// whitespace. Unknown extensions are read as raw text.
func Read(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := readPDF(path)
		if err != nil {
			return "", fmt.Errorf("read pdf %s: %w", path, err)
		}
		return strings.TrimSpace(text), nil
	case ".docx":
		text, err := readDOCX(path)
		if err != nil {
			return "", fmt.Errorf("read docx %s: %w", path, err)
		}
		return strings.TrimSpace(text), nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
}
