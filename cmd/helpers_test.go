/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execRoot runs a fresh command tree and returns stdout, stderr and the error.
func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

var siteFiles = map[string]string{
	"index.html":             `<link rel="manifest" href="manifest.json"><link href="css/styles.css"><div id="app"></div><script src="js/app.js"></script>`,
	"manifest.json":          `{"name": "FitTrack", "start_url": "./index.html", "icons": [{"src": "icons/icon-192x192.png", "sizes": "192x192"}, {"src": "icons/icon-512x512.png", "sizes": "512x512"}]}`,
	"sw.js":                  `const CACHE_NAME = 'fittrack-v1'; const urls = ['index.html', 'manifest.json', 'js/app.js'];`,
	"css/styles.css":         "body{}",
	"js/app.js":              "Database ExerciseManager WorkoutManager PlanManager UserProfile",
	"js/database.js":         "",
	"js/exercise-manager.js": "",
	"js/workout-manager.js":  "",
	"js/plan-manager.js":     "",
	"js/user-profile.js":     "",
	"icons/icon-192x192.png": "png",
	"icons/icon-512x512.png": "png",
}

func writeFiles(t *testing.T, root string, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func completeSite(t *testing.T) string {
	t.Helper()
	return writeFiles(t, t.TempDir(), siteFiles)
}
