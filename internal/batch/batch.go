// Package batch parses every report in a BIDS dataset on a bounded worker
// pool. Each parse is independent; the shared pattern set is read-only.
package batch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/neurostack/prepreport/internal/report"
	"github.com/neurostack/prepreport/internal/source"
)

// Result is the outcome of parsing one report file.
type Result struct {
	Path   string
	Report *report.Report
	Err    error
}

// FindReports walks root for subject report documents: supported files
// whose name carries a sub- entity.
func FindReports(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "sub-") && source.IsSupportedExtension(name) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Run parses every report found under root with at most workers parses in
// flight. Results come back ordered by path; per-file failures are
// carried in the Result, not returned.
func Run(ctx context.Context, root string, workers int, opts report.Options, log *slog.Logger) ([]Result, error) {
	paths, err := FindReports(root)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 4
	}

	jobs := make(chan int)
	results := make([]Result, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := paths[i]
				rep, err := report.ParseFile(path, opts)
				if err != nil {
					log.Error("parse failed", "path", path, "error", err)
				} else {
					log.Info("parsed report", "path", path, "sessions", len(rep.Functional))
				}
				results[i] = Result{Path: path, Report: rep, Err: err}
			}
		}()
	}

	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	return results, nil
}
