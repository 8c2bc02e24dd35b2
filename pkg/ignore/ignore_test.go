/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestMatcher(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "# build output\n*.log\nicons/\n!keep.log\n")
	write(t, root, IgnoreFile, "drafts/\n*.bak\n")
	write(t, root, "js/.gitignore", "vendor.js\n")

	m, err := NewMatcher(root)
	require.NoError(t, err)
	assert.False(t, m.Empty())

	tests := map[string]struct {
		path    string
		isDir   bool
		ignored bool
	}{
		"plain file":                 {path: "index.html"},
		"log file":                   {path: "debug.log", ignored: true},
		"negated":                    {path: "keep.log"},
		"ignored directory":          {path: "icons", isDir: true, ignored: true},
		"file in ignored directory":  {path: "icons/icon-192x192.png", ignored: true},
		"sitecheckignore pattern":    {path: "drafts/plan.html", ignored: true},
		"sitecheckignore glob":       {path: "js/app.js.bak", ignored: true},
		"nested gitignore":           {path: "js/vendor.js", ignored: true},
		"nested gitignore no effect": {path: "vendor.js"},
		"empty path":                 {path: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.ignored, m.IsIgnored(tt.path, tt.isDir))
		})
	}

	assert.True(t, m.IsIgnoredAbs(filepath.Join(root, "debug.log"), false))
	assert.False(t, m.IsIgnoredAbs(filepath.Join(filepath.Dir(root), "debug.log"), false))
}

func TestMatcherWithoutIgnoreFiles(t *testing.T) {
	m, err := NewMatcher(t.TempDir())
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.False(t, m.IsIgnored("index.html", false))
}
