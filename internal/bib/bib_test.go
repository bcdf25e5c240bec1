package bib

import "testing"

const sample = `@article{fmriprep1,
  author = {Esteban, Oscar and Markiewicz, Christopher J.},
  title = {fMRIPrep: a robust preprocessing pipeline for functional MRI},
  journal = {Nature Methods},
  year = {2019}
}

@misc{afni,
  author = {Cox, Robert W.},
  title = {AFNI},
  year = {1996}
}`

func TestParseEntries(t *testing.T) {
	entries, err := Parse(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.CiteName != "fmriprep1" {
		t.Errorf("expected cite name %q, got %q", "fmriprep1", first.CiteName)
	}
	if first.Type != "article" {
		t.Errorf("expected type %q, got %q", "article", first.Type)
	}
	if first.Fields["year"] != "2019" {
		t.Errorf("expected year 2019, got %q", first.Fields["year"])
	}
	if entries[1].CiteName != "afni" {
		t.Errorf("expected second entry afni, got %q", entries[1].CiteName)
	}
}

func TestParseMalformedSource(t *testing.T) {
	if _, err := Parse("@article{broken,"); err == nil {
		t.Fatal("expected error for malformed bibtex")
	}
}
