/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/sitecheck/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPasses(t *testing.T) {
	site := completeSite(t)

	out, _, err := execRoot(t, "verify", site)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Verdict: PASS")
	assert.Contains(t, out, `Service worker cache is "fittrack-v1"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestRootDefaultsToVerify(t *testing.T) {
	site := completeSite(t)

	out, _, err := execRoot(t, site, "--format", "json")
	require.NoError(t, err, out)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	summary := report["summary"].(map[string]interface{})
	assert.Equal(t, true, summary["passed"])
	assert.EqualValues(t, 12, summary["files_checked"])
}

func TestVerifyFailureExitCode(t *testing.T) {
	out, _, err := execRoot(t, "verify", t.TempDir(), "--format", "concise")
	require.Error(t, err)
	assert.Equal(t, exitcode.VerificationFail, exitCode(err))
	assert.True(t, strings.HasPrefix(out, "sitecheck FAIL"), out)
}

func TestVerifyMissingSite(t *testing.T) {
	_, _, err := execRoot(t, "verify", filepath.Join(t.TempDir(), "dist"))
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitCode(err))
}

func TestVerifyConfigErrors(t *testing.T) {
	site := completeSite(t)
	writeFiles(t, site, map[string]string{".sitecheck.yaml": "concurrency: -3\n"})

	_, _, err := execRoot(t, "verify", site)
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "concurrency")

	_, _, err = execRoot(t, "verify", completeSite(t), "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, exitcode.ConfigError, exitCode(err))
}

func TestVerifySiteConfigNarrowsChecks(t *testing.T) {
	site := t.TempDir()
	writeFiles(t, site, map[string]string{
		".sitecheck.yaml": `files: [index.html, "js/*.js"]
directories: [js]
content:
  - path: index.html
    assertions:
      - contains: "<main>"
manifest:
  path: app.webmanifest
  required_keys: [name]
  min_icons: 0
`,
		"index.html":      "<main></main>",
		"js/app.js":       "",
		"app.webmanifest": `{"name": "FitTrack"}`,
	})

	out, _, err := execRoot(t, site, "--format", "markdown", "--concurrency", "4")
	require.NoError(t, err, out)
	assert.Contains(t, out, "**Verdict:** PASS")
	assert.Contains(t, out, "contains \"<main>\"")
}

func TestVerifyRejectsUnknownFormat(t *testing.T) {
	_, _, err := execRoot(t, "verify", completeSite(t), "--format", "html")
	require.Error(t, err)
	assert.Equal(t, exitcode.GeneralError, exitCode(err))
}
