package report

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/neurostack/prepreport/internal/pattern"
	"github.com/neurostack/prepreport/internal/segment"
)

const sectionSummary = "Summary"

// Fields the Summary extractor requires; their subtitle markers missing
// from the document is a structural mismatch.
var summaryRequired = []string{
	"Subject ID",
	"Functional series",
	"Standard output spaces",
	"Non-standard output spaces",
}

// parseSummary normalizes the Summary section: the task-label prefix is
// rewritten so it does not segment as its own field, the functional-series
// field is split into a description plus a Tasks list, the subject token
// gets its BIDS prefix, and output-space fields become trimmed token
// lists.
func parseSummary(text string, pats *pattern.Set) (Fields, error) {
	text = strings.ReplaceAll(text, "Task: ", "Task-")
	m := segment.Split(pats.Subtitle, text)

	for _, req := range summaryRequired {
		if _, ok := m.Get(req); !ok {
			return nil, structuralErr(sectionSummary, pattern.NameSubtitle, "field %q not found", req)
		}
	}

	out := orderedmap.New[string, any]()
	var tasks []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		switch p.Key {
		case "Subject ID":
			out.Set(p.Key, "sub-"+p.Value)
		case "Functional series":
			desc, list, _ := strings.Cut(p.Value, "\n\n")
			out.Set(p.Key, strings.TrimSpace(desc))
			tasks = splitLines(list)
		case "Standard output spaces", "Non-standard output spaces":
			out.Set(p.Key, splitList(p.Value))
		default:
			out.Set(p.Key, p.Value)
		}
	}
	out.Set("Tasks", tasks)
	return out, nil
}

// splitList splits a comma-separated field into trimmed tokens, dropping
// empties so a blank field yields an empty list rather than [""].
func splitList(s string) []string {
	out := []string{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
