package report

import "fmt"

// MissingInputError reports a source document path that does not exist or
// cannot be read.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("report source %s: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// StructuralMismatchError reports a delimiter pattern that found no match
// where the extractor requires at least one, or a field whose shape does
// not match the expected report format. Section and Pattern carry enough
// context to diagnose format drift.
type StructuralMismatchError struct {
	Section string // report section being extracted
	Pattern string // pattern name or field under scrutiny
	Detail  string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("section %q, pattern %q: %s", e.Section, e.Pattern, e.Detail)
}

func structuralErr(section, pattern, format string, args ...any) error {
	return &StructuralMismatchError{
		Section: section,
		Pattern: pattern,
		Detail:  fmt.Sprintf(format, args...),
	}
}
