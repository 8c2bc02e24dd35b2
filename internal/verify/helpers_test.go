/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/stretchr/testify/require"
)

const validManifest = `{
  "name": "FitTrack",
  "short_name": "FitTrack",
  "start_url": "./index.html",
  "display": "standalone",
  "icons": [
    {"src": "icons/icon-144x144.png", "sizes": "144x144", "type": "image/png"},
    {"src": "icons/icon-192x192.png", "sizes": "192x192", "type": "image/png"},
    {"src": "icons/icon-512x512.png", "sizes": "512x512", "type": "image/png"}
  ]
}`

// completeSiteFiles is a built site that satisfies the default profile.
var completeSiteFiles = map[string]string{
	"index.html": `<!DOCTYPE html>
<html>
<head>
  <link rel="manifest" href="manifest.json">
  <link rel="stylesheet" href="css/styles.css">
</head>
<body>
  <div id="app"></div>
  <script src="js/app.js"></script>
</body>
</html>`,
	"manifest.json": validManifest,
	"sw.js": `const CACHE_NAME = 'fittrack-v3';
const ASSETS = ['/', 'index.html', 'manifest.json', 'css/styles.css', 'js/app.js'];`,
	"css/styles.css":          "body { margin: 0; }",
	"js/app.js":               "const db = new Database();\nnew ExerciseManager(db);\nnew WorkoutManager(db);\nnew PlanManager(db);\nnew UserProfile(db);\n",
	"js/database.js":          "class Database {}",
	"js/exercise-manager.js":  "class ExerciseManager {}",
	"js/workout-manager.js":   "class WorkoutManager {}",
	"js/plan-manager.js":      "class PlanManager {}",
	"js/user-profile.js":      "class UserProfile {}",
	"icons/icon-144x144.png":  "png",
	"icons/icon-192x192.png":  "png",
	"icons/icon-512x512.png":  "png",
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func completeSite(t *testing.T) string {
	t.Helper()
	return writeSite(t, completeSiteFiles)
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}
