/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package ignore reports whether paths are excluded by .gitignore or .sitecheckignore
package ignore

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreFile holds extra patterns applied on top of git's own ignore files.
const IgnoreFile = ".sitecheckignore"

// Matcher provides gitignore-based file filtering rooted at one directory.
type Matcher struct {
	root     string
	matcher  gitignore.Matcher
	patterns int
}

// NewMatcher loads, in order of increasing priority:
// 1. .git/info/exclude and every .gitignore below root
// 2. root/.sitecheckignore
func NewMatcher(root string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var all []gitignore.Pattern
	gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil)
	if err != nil {
		return nil, err
	}
	all = append(all, gitPatterns...)

	local, err := readIgnoreFile(filepath.Join(abs, IgnoreFile))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, p := range local {
		all = append(all, gitignore.ParsePattern(p, nil))
	}

	return &Matcher{root: abs, matcher: gitignore.NewMatcher(all), patterns: len(all)}, nil
}

// Root returns the directory paths are matched relative to.
func (m *Matcher) Root() string { return m.root }

// Empty reports whether no patterns were loaded.
func (m *Matcher) Empty() bool { return m.patterns == 0 }

func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- fixed file name under the matcher root
	if err != nil {
		return nil, err
	}
	var patterns []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

// IsIgnored reports whether the slash-separated path, relative to Root, is excluded.
func (m *Matcher) IsIgnored(rel string, isDir bool) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	if m.matcher.Match(parts, isDir) {
		return true
	}
	// A file inside an ignored directory is ignored too.
	for i := 1; i < len(parts); i++ {
		if m.matcher.Match(parts[:i], true) {
			return true
		}
	}
	return false
}

// IsIgnoredAbs matches an absolute path; paths outside Root are never ignored.
func (m *Matcher) IsIgnoredAbs(path string, isDir bool) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return m.IsIgnored(filepath.ToSlash(rel), isDir)
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
