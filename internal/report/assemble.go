package report

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/neurostack/prepreport/internal/bib"
	"github.com/neurostack/prepreport/internal/flatten"
	"github.com/neurostack/prepreport/internal/pattern"
	"github.com/neurostack/prepreport/internal/segment"
	"github.com/neurostack/prepreport/internal/source"
)

const (
	sectionAbout  = "About"
	sectionErrors = "errors"
)

// The section identifier is quoted inside the matched title markup,
// e.g. <div id="Summary">.
var titleIDPat = regexp.MustCompile(`"(\w+)"`)

// Options control a single parse invocation. The zero value uses the
// embedded patterns, the tree flattening engine, no transliteration, and
// the short functional form; DefaultOptions matches the CLI defaults.
type Options struct {
	// PatternFile is an optional JSON file layered over the embedded
	// pattern defaults.
	PatternFile string
	// Overrides are per-name pattern strings that win over both the
	// defaults and the file.
	Overrides map[string]string
	// Engine selects the HTML flattening implementation.
	Engine flatten.Engine
	// EnsureASCII transliterates flattened section text to an ASCII-safe
	// approximation before field comparisons.
	EnsureASCII bool
	// Full keeps the per-session confounds paragraph in each session
	// record; the default (short) form folds it in and then drops it.
	Full bool
}

// DefaultOptions returns the standard parse configuration.
func DefaultOptions() Options {
	return Options{Engine: flatten.EngineTree, EnsureASCII: true}
}

// ParseFile reads the document at path and parses it. A path that does
// not reference a readable file yields a MissingInputError.
func ParseFile(path string, opts Options) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &MissingInputError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &MissingInputError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	text, err := source.Read(path)
	if err != nil {
		return nil, &MissingInputError{Path: path, Err: err}
	}
	return Parse(text, opts)
}

// Parse turns raw document text into a Report. All structural failures
// propagate unmodified; no partial report is returned.
func Parse(text string, opts Options) (*Report, error) {
	pats, err := pattern.Load(opts.PatternFile, opts.Overrides)
	if err != nil {
		return nil, err
	}
	return parseWith(text, pats, opts)
}

func parseWith(text string, pats *pattern.Set, opts Options) (*Report, error) {
	// LOCATE_TITLE: everything before the first titled region is noise.
	loc := pats.Title.FindStringIndex(text)
	if loc == nil {
		return nil, structuralErr("document", pattern.NameTitle, "no title match in document")
	}
	text = text[loc[0]:]

	// SPLIT_SECTIONS + PER-SECTION FLATTEN.
	sections, figures, problems, err := splitSections(text, pats, opts)
	if err != nil {
		return nil, err
	}

	rep := &Report{Figures: figures, Problems: problems}

	// SECTION EXTRACTION, in fixed order. Functional session naming
	// depends on the Summary's subject identifier.
	summaryText, err := requireSection(sections, sectionSummary)
	if err != nil {
		return nil, err
	}
	summary, err := parseSummary(summaryText, pats)
	if err != nil {
		return nil, err
	}
	rep.Summary = summary

	anatText, err := requireSection(sections, sectionAnatomical)
	if err != nil {
		return nil, err
	}
	if rep.Anatomical, err = parseAnatomical(anatText); err != nil {
		return nil, err
	}

	funcText, err := requireSection(sections, sectionFunctional)
	if err != nil {
		return nil, err
	}
	if rep.Functional, err = parseFunctional(funcText, pats, !opts.Full); err != nil {
		return nil, err
	}
	subject, _ := summary.Get("Subject ID")
	if err := assignSessionIDs(subject.(string), rep.Functional); err != nil {
		return nil, err
	}

	bpText, err := requireSection(sections, sectionBoilerplate)
	if err != nil {
		return nil, err
	}
	blocks, err := boilerplateBlocks(bpText, pats)
	if err != nil {
		return nil, err
	}

	aboutText, err := requireSection(sections, sectionAbout)
	if err != nil {
		return nil, err
	}
	about := orderedmap.New[string, any]()
	for p := segment.Split(pats.Subtitle, aboutText).Oldest(); p != nil; p = p.Next() {
		about.Set(p.Key, p.Value)
	}
	rep.About = about

	bibText, err := requireBlock(blocks, bpBibliography)
	if err != nil {
		return nil, err
	}
	if rep.Bibliography, err = bib.Parse(bibText); err != nil {
		return nil, err
	}

	errText, err := requireSection(sections, sectionErrors)
	if err != nil {
		return nil, err
	}
	rep.Errors = tailLines(errText)

	anatBlock, err := requireBlock(blocks, bpAnatomical)
	if err != nil {
		return nil, err
	}
	funcBlock, err := requireBlock(blocks, bpFunctional)
	if err != nil {
		return nil, err
	}
	copyBlock, err := requireBlock(blocks, bpCopyright)
	if err != nil {
		return nil, err
	}
	rep.Methods = Methods{
		AnatomicalPreprocess: anatBlock,
		FunctionalPreprocess: funcBlock,
		Errors:               rep.Errors,
		Copyright:            copyBlock,
	}

	// FINALIZE: underscore keys everywhere except the two
	// meta-collections.
	rep.Summary = normalizeKeys(rep.Summary)
	rep.Anatomical = normalizeKeys(rep.Anatomical)
	rep.About = normalizeKeys(rep.About)
	for i := range rep.Functional {
		rep.Functional[i].Record = normalizeKeys(rep.Functional[i].Record)
	}
	return rep, nil
}

// splitSections maps section identifiers embedded in the title markup to
// flattened section text, extracting figure references and error messages
// into side collections as it goes.
func splitSections(text string, pats *pattern.Set, opts Options) (
	sections segment.Mapping, figures, problems SectionLists, err error,
) {
	sections = orderedmap.New[string, string]()
	figures = orderedmap.New[string, []string]()
	problems = orderedmap.New[string, []string]()

	locs := pats.Title.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		name := sectionName(text[loc[0]:loc[1]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		flat, ferr := flatten.Text(text[loc[1]:end], opts.Engine)
		if ferr != nil {
			return nil, nil, nil, fmt.Errorf("flatten section %q: %w", name, ferr)
		}
		if opts.EnsureASCII {
			flat = flatten.ASCII(flat)
		}
		flat = strings.TrimSpace(strings.TrimPrefix(flat, name))

		problems.Set(name, segment.Matches(pats.Err, flat))
		figures.Set(name, segment.Matches(pats.Figure, flat))
		flat = pats.Err.ReplaceAllString(flat, "")
		flat = pats.Figure.ReplaceAllString(flat, "")

		sections.Set(name, strings.TrimSpace(flat))
	}
	return sections, figures, problems, nil
}

// sectionName pulls the quoted identifier out of the matched title
// markup, falling back to the trimmed match text for markup-free
// delimiters (print-exported reports with user-supplied patterns).
func sectionName(match string) string {
	if m := titleIDPat.FindStringSubmatch(match); m != nil {
		return m[1]
	}
	return strings.TrimSpace(strings.ReplaceAll(match, ":", ""))
}

func requireSection(sections segment.Mapping, name string) (string, error) {
	v, ok := sections.Get(name)
	if !ok {
		return "", structuralErr(name, pattern.NameTitle, "section not present in document")
	}
	return v, nil
}

// tailLines returns every line after the section's heading line.
func tailLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return []string{}
	}
	return lines[1:]
}
