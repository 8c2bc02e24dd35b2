/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow(t *testing.T) {
	site := t.TempDir()

	out, _, err := execRoot(t, "config", "show", site)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# source: built-in defaults\n"), out)
	assert.Contains(t, out, "concurrency: 1")

	out, _, err = execRoot(t, "config", "show", site, "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "concurrency = 1")

	writeFiles(t, site, map[string]string{".sitecheck.json": `{"concurrency": 3}`})
	out, _, err = execRoot(t, "config", "show", site, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"concurrency": 3`)
}

func TestConfigValidate(t *testing.T) {
	site := t.TempDir()

	out, _, err := execRoot(t, "config", "validate", site)
	require.NoError(t, err)
	assert.Contains(t, out, "no site config")

	writeFiles(t, site, map[string]string{".sitecheck.yaml": "publish:\n  target: Netlify\n"})
	out, _, err = execRoot(t, "config", "validate", site)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+filepath.Join(site, ".sitecheck.yaml")+" is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFiles(t, filepath.Dir(bad), map[string]string{"bad.yaml": "icons:\n  sizes: [0]\ncontent:\n  - path: /etc/passwd\n    assertions: []\n"})
	out, _, err = execRoot(t, "config", "validate", bad)
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitCode(err))
	assert.Contains(t, out, "✗ configuration is invalid:")
	assert.Contains(t, out, "icons.sizes.0")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	site := t.TempDir()
	writeFiles(t, site, map[string]string{".sitecheck.yaml": "file:\n  - index.html\n"})

	_, _, err := execRoot(t, "config", "validate", site)
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "file")
}

func TestConfigValidateMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "dist")

	out, _, err := execRoot(t, "config", "validate", missing)
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitCode(err))
	assert.NotContains(t, out, "✓")
}
