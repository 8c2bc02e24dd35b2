/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/sitecheck/pkg/safeio"
)

// IsGlob reports whether an expected file entry is a doublestar pattern.
func IsGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// CheckFiles reports, in input order, whether each expected file exists.
// A missing file is a failed result, never an error.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) []FileCheck {
	results := make([]FileCheck, len(paths))
	_ = c.forEach(ctx, len(paths), func(i int) {
		results[i] = c.checkFile(paths[i])
	})
	return results
}

func (c *Checker) checkFile(p string) FileCheck {
	res := FileCheck{Path: p}
	rel, err := safeio.CleanUserPath(p)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if IsGlob(rel) {
		return c.checkGlob(res, rel)
	}

	full, err := safeio.Join(c.root, rel)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	st, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return res
	case err != nil:
		res.Error = err.Error()
		return res
	case st.IsDir():
		res.Exists = true
		res.Error = "is a directory"
		return res
	}
	size := st.Size()
	res.Exists = true
	res.SizeBytes = &size
	return res
}

func (c *Checker) checkGlob(res FileCheck, pattern string) FileCheck {
	if !doublestar.ValidatePattern(pattern) {
		res.Error = fmt.Sprintf("invalid glob pattern %q", pattern)
		return res
	}
	matches, err := doublestar.Glob(os.DirFS(c.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	kept := matches[:0]
	for _, m := range matches {
		if _, err := safeio.Join(c.root, m); err == nil {
			kept = append(kept, m)
		}
	}
	sort.Strings(kept)
	res.Matches = kept
	res.Exists = len(kept) > 0
	return res
}

// CheckDirectories reports, in input order, whether each expected directory
// exists and has at least one entry.
func (c *Checker) CheckDirectories(ctx context.Context, paths []string) []DirCheck {
	results := make([]DirCheck, len(paths))
	_ = c.forEach(ctx, len(paths), func(i int) {
		results[i] = c.checkDirectory(paths[i])
	})
	return results
}

func (c *Checker) checkDirectory(p string) DirCheck {
	res := DirCheck{Path: p}
	full, err := safeio.Join(c.root, p)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	st, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return res
	case err != nil:
		res.Error = err.Error()
		return res
	}
	res.Exists = true
	if !st.IsDir() {
		res.Error = "not a directory"
		return res
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	n := len(entries)
	res.EntryCount = &n
	return res
}
