package report

import (
	"regexp"
	"strings"

	"github.com/neurostack/prepreport/internal/pattern"
	"github.com/neurostack/prepreport/internal/segment"
)

const sectionBoilerplate = "boilerplate"

// Boilerplate headings and the Methods keys they are renamed to. The
// renaming is bijective; References is plumbed through for the
// bibliography and then discarded.
const (
	bpAnatomical   = "Anatomical data preprocessing"
	bpFunctional   = "Functional data preprocessing"
	bpCopyright    = "Copyright Waiver"
	bpReferences   = "References"
	bpBibliography = "Bibliography"
)

// Runs of blank lines followed by markdown heading markers, left behind
// when the report's methods text is flattened.
var headingRunPat = regexp.MustCompile(`\n{2,}#*`)

// boilerplateBlocks segments the boilerplate section (minus its own
// introductory paragraph) into named free-text blocks, cleaned of
// flattening artifacts.
func boilerplateBlocks(text string, pats *pattern.Set) (segment.Mapping, error) {
	_, rest, ok := strings.Cut(text, "\n\n")
	if !ok {
		return nil, structuralErr(sectionBoilerplate, pattern.NameBoilerplate,
			"no introductory paragraph to drop")
	}

	m := segment.Split(pats.Boilerplate, rest)
	if m.Len() == 0 {
		return nil, structuralErr(sectionBoilerplate, pattern.NameBoilerplate, "no headings found")
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		cleaned := strings.ReplaceAll(p.Value, ": ", "")
		cleaned = headingRunPat.ReplaceAllString(cleaned, "")
		m.Set(p.Key, strings.TrimSpace(cleaned))
	}
	return m, nil
}

// requireBlock fetches a named boilerplate block, failing structurally if
// the heading never appeared.
func requireBlock(m segment.Mapping, name string) (string, error) {
	v, ok := m.Get(name)
	if !ok {
		return "", structuralErr(sectionBoilerplate, pattern.NameBoilerplate,
			"heading %q not found", name)
	}
	return v, nil
}
