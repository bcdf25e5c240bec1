package report

import (
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/neurostack/prepreport/internal/segment"
)

const sectionAnatomical = "Anatomical"

var (
	// Generic "label: value" line delimiter for the Anatomical section.
	anatLabelPat = regexp.MustCompile(`(?m)^[^:\n]+: `)
	// A unit token sits between a leading numeral and the following
	// whitespace, e.g. the "mm" of "2mm x 2mm x 2mm".
	unitPat = regexp.MustCompile(`\d(.*?)\s`)
)

// parseAnatomical segments the Anatomical section into label/value pairs
// and normalizes the derived fields: discarded-image counts are cut to
// their first line, output dimensions become a 3-tuple literal, and the
// voxel-size field is re-keyed with its unit extracted.
func parseAnatomical(text string) (Fields, error) {
	m := segment.Split(anatLabelPat, text)

	out := orderedmap.New[string, any]()
	for p := m.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value)
	}

	if v, ok := out.Get("Discarded images"); ok {
		line, _, _ := strings.Cut(v.(string), "\n")
		out.Set("Discarded images", strings.TrimSpace(line))
	}

	if v, ok := out.Get("Output dimensions"); ok {
		dims := strings.Split(v.(string), "x")
		out.Set("Output dimensions", tupleLiteral(dims))
	}

	if v, ok := out.Get("Output voxel size"); ok {
		key, literal, err := extractVoxelUnit(v.(string))
		if err != nil {
			return nil, err
		}
		out.Set(key, literal)
		out.Delete("Output voxel size")
	}
	return out, nil
}

// extractVoxelUnit pulls the unit token out of a voxel-size triplet like
// "2mm x 2mm x 2mm", returning the re-keyed field name and the values as
// a tuple literal. A missing unit, a non-triplet shape, or units that
// differ per axis are format mismatches, never silently emitted.
func extractVoxelUnit(value string) (key, literal string, err error) {
	m := unitPat.FindStringSubmatch(value)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", "", structuralErr(sectionAnatomical, "Output voxel size", "no unit token in %q", value)
	}
	unit := m[1]

	parts := strings.Split(value, unit+" x ")
	if len(parts) != 3 {
		return "", "", structuralErr(sectionAnatomical, "Output voxel size",
			"expected 3 axes with unit %q in %q", unit, value)
	}
	for i, part := range parts {
		part = strings.TrimSpace(strings.ReplaceAll(part, unit, ""))
		if part == "" || strings.ContainsFunc(part, isLetter) {
			return "", "", structuralErr(sectionAnatomical, "Output voxel size",
				"axis %d of %q is not a bare %q value", i+1, value, unit)
		}
		parts[i] = part
	}
	return "Output voxel size " + unit, tupleLiteral(parts), nil
}

func tupleLiteral(parts []string) string {
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
