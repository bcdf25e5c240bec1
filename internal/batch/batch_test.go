package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurostack/prepreport/internal/report"
)

// minimalDoc builds a small but structurally complete report for one
// subject.
func minimalDoc(subject string) string {
	return fmt.Sprintf(`<div id="Summary">
Summary
Subject ID: %s
Functional series: 1

Task: rest (1 run)

Standard output spaces: MNI152NLin2009cAsym
Non-standard output spaces: T1w
</div>
<div id="Anatomical">
Anatomical
Discarded images: 0
Output dimensions: 97x115x97
Output voxel size: 2mm x 2mm x 2mm
</div>
<div id="Functional">
Functional
Reports for: session 1, task rest.
Summary
Repetition time (s): 2.
Confounds collected
global_signal, csf.
</div>
<div id="boilerplate">
boilerplate
Intro paragraph for the methods text.

Anatomical data preprocessing
Anat block.
Functional data preprocessing
Func block.
Copyright Waiver
Copy block.
References
Ref list.
Bibliography
@article{one, author = {A}, title = {T}, year = {2019}}
</div>
<div id="About">
About
Version: 20.2.1
</div>
<div id="errors">
Errors
No errors to report!
</div>`, subject)
}

func TestFindReportsAndRun(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"01", "02"} {
		dir := filepath.Join(root, "derivatives", "fmriprep")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "sub-"+sub+".html")
		if err := os.WriteFile(path, []byte(minimalDoc(sub)), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// A decoy that is not a report document.
	if err := os.WriteFile(filepath.Join(root, "dataset_description.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := FindReports(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 reports, got %d: %v", len(paths), paths)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	results, err := Run(context.Background(), root, 2, report.DefaultOptions(), log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, sub := range []string{"sub-01", "sub-02"} {
		if results[i].Err != nil {
			t.Fatalf("result %d: unexpected error: %v", i, results[i].Err)
		}
		if got := results[i].Report.SubjectID(); got != sub {
			t.Errorf("result %d: expected %q, got %q", i, sub, got)
		}
	}
}

func TestRunCarriesPerFileFailures(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "sub-01.html"), []byte("<p>not a report</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	results, err := Run(context.Background(), root, 1, report.DefaultOptions(), log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected one failed result, got %+v", results)
	}
	var serr *report.StructuralMismatchError
	if !errors.As(results[0].Err, &serr) {
		t.Errorf("expected structural error, got %v", results[0].Err)
	}
}
