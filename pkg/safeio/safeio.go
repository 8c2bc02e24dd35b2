/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package safeio keeps file access inside a site root.
package safeio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrTraversal is returned for paths that climb out of the site root.
	ErrTraversal = errors.New("path traversal detected")
	// ErrAbsolute is returned for absolute paths where a site-relative path is required.
	ErrAbsolute = errors.New("absolute path not allowed")
	// ErrTooLarge is returned when a file exceeds the read limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// CleanUserPath cleans a site-relative path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", ErrAbsolute
	}
	c := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrTraversal
	}
	return c, nil
}

// Join resolves rel under root after CleanUserPath. When the joined path
// exists, symlinks are followed and the target must still lie under root.
func Join(root, rel string) (string, error) {
	clean, err := CleanUserPath(rel)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	if err := contained(root, full); err != nil {
		return "", fmt.Errorf("%s: %w", clean, err)
	}
	return full, nil
}

// contained reports ErrTraversal when full, once symlinks are resolved, lies
// outside root. Paths that do not exist are left to the caller.
func contained(root, full string) error {
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return nil
	}
	base, err := filepath.EvalSymlinks(root)
	if err != nil {
		base = root
	}
	if base, err = filepath.Abs(base); err != nil {
		return err
	}
	if resolved, err = filepath.Abs(resolved); err != nil {
		return err
	}
	rel, err := filepath.Rel(base, resolved)
	if err != nil {
		return ErrTraversal
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return fmt.Errorf("resolves outside the site root: %w", ErrTraversal)
	}
	return nil
}

// ReadFileContained reads rel under root, refusing paths outside root and
// files larger than maxSize bytes (maxSize <= 0 disables the limit).
func ReadFileContained(root, rel string, maxSize int64) ([]byte, error) {
	full, err := Join(root, rel)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- full is contained in root by Join, symlinks included
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", rel)
	}
	if maxSize > 0 && st.Size() > maxSize {
		return nil, fmt.Errorf("%s: %w (%d > %d bytes)", rel, ErrTooLarge, st.Size(), maxSize)
	}
	return io.ReadAll(f)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TrimBOM drops a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// ResolveRef maps a URL reference found in a site file (for example a
// manifest icon src) to a site-relative path. base is the directory of the
// referring file. Remote, protocol-relative and data URLs report false.
func ResolveRef(base, ref string) (string, bool) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "data:") {
		return "", false
	}
	if strings.HasPrefix(ref, "/") {
		rel := strings.TrimPrefix(path.Clean(ref), "/")
		return rel, rel != ""
	}
	return path.Join(base, ref), true
}
