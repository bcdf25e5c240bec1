// Package confounds locates and summarizes the per-session confound
// time-series tables that accompany a report in its BIDS dataset.
package confounds

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// suffix of the per-session confounds table filename, appended to the
// session identifier.
const confoundsSuffix = "_desc-confounds_timeseries.tsv"

// TopDir derives the dataset's top directory from a report path: the
// parent of the first path component carrying a "sub-" entity.
func TopDir(src string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(src))
	parts := strings.Split(clean, "/")
	for i, p := range parts {
		if strings.Contains(p, "sub-") {
			if i == 0 {
				return ".", nil
			}
			return filepath.FromSlash(strings.Join(parts[:i], "/")), nil
		}
	}
	return "", fmt.Errorf("no sub-* component in path %s", src)
}

// Locate walks the dataset below topdir for the confounds table belonging
// to sessionID (e.g. "sub-01_ses-1_task-rest").
func Locate(topdir, sessionID string) (string, error) {
	target := sessionID + confoundsSuffix
	var found string
	err := filepath.WalkDir(topdir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == target {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", topdir, err)
	}
	if found == "" {
		return "", fmt.Errorf("no confounds table %s under %s", target, topdir)
	}
	return found, nil
}
