package segment

import (
	"regexp"
	"testing"
)

var labelPat = regexp.MustCompile(`(?m)^[A-Z][A-Za-z ]*: `)

func TestSplitPairsKeysWithFollowingText(t *testing.T) {
	text := "preamble to discard\nSubject ID: 01\nFunctional series: 1\nlast value"
	m := Split(labelPat, text)

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if v, _ := m.Get("Subject ID"); v != "01" {
		t.Errorf("Subject ID: expected %q, got %q", "01", v)
	}
	if v, _ := m.Get("Functional series"); v != "1\nlast value" {
		t.Errorf("Functional series: expected %q, got %q", "1\nlast value", v)
	}
}

func TestSplitStripsColonsAndWhitespaceFromKeys(t *testing.T) {
	text := "Reports for: session 1, task rest. body"
	re := regexp.MustCompile(`Reports for: session [^,]+, task [^.]+\.`)
	m := Split(re, text)

	key := "Reports for session 1, task rest."
	if _, ok := m.Get(key); !ok {
		t.Fatalf("expected key %q, got keys %v", key, keys(m))
	}
}

func TestSplitZeroMatchesYieldsEmptyMapping(t *testing.T) {
	m := Split(labelPat, "no delimiters anywhere in here")
	if m.Len() != 0 {
		t.Fatalf("expected empty mapping, got %d entries", m.Len())
	}
}

func TestSplitKeyValueParity(t *testing.T) {
	texts := []string{
		"",
		"Alpha: one\nBeta: two\nGamma: three",
		"Alpha: one\nAlpha: two",
		"trailing delimiter Alpha: ",
	}
	for _, text := range texts {
		m := Split(labelPat, text)
		nkeys, nvals := 0, 0
		for p := m.Oldest(); p != nil; p = p.Next() {
			nkeys++
			nvals++
		}
		if nkeys != nvals || nkeys != m.Len() {
			t.Errorf("parity broken for %q: keys=%d values=%d len=%d", text, nkeys, nvals, m.Len())
		}
	}
}

func TestSplitOrderedKeepsDuplicatesInDocumentOrder(t *testing.T) {
	re := regexp.MustCompile(`Reports for: [^.]+\.`)
	text := "Reports for: session 1, task rest. one\nReports for: session 2, task rest. two"
	blocks := SplitOrdered(re, text)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Body != "one" || blocks[1].Body != "two" {
		t.Errorf("bodies out of order: %q, %q", blocks[0].Body, blocks[1].Body)
	}
}

func TestMatchesTrimsAndPreservesOrder(t *testing.T) {
	re := regexp.MustCompile(`(?m)^\S+\.svg$`)
	text := "before\nsub-01_dseg.svg\nmid\nsub-01_bold.svg\nafter"
	got := Matches(re, text)

	want := []string{"sub-01_dseg.svg", "sub-01_bold.svg"}
	if len(got) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func keys(m Mapping) []string {
	var out []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}
