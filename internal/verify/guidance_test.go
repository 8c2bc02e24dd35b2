/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"testing"

	"github.com/fulmenhq/sitecheck/internal/gitctx"
	"github.com/stretchr/testify/assert"
)

func TestNextStepsPassed(t *testing.T) {
	r := &Report{Summary: Summary{Passed: true}}
	g := Guidance{
		Target:           "GitHub Pages",
		Reminders:        []string{"Push the gh-pages branch", "Install the app on a phone"},
		CacheVersion:     "fittrack-v3",
		CacheVersionFile: "sw.js",
	}

	assert.Equal(t, []string{
		`Service worker cache is "fittrack-v3"; bump it in sw.js if cached assets changed`,
		"Push the gh-pages branch",
		"Install the app on a phone",
		"Publish to GitHub Pages",
	}, NextSteps(r, g))
}

func TestNextStepsPassedMinimal(t *testing.T) {
	r := &Report{Summary: Summary{Passed: true}}
	assert.Empty(t, NextSteps(r, Guidance{}))
}

func TestNextStepsDirtyTree(t *testing.T) {
	tests := map[string]struct {
		git  *gitctx.RepoContext
		want string
	}{
		"named branch": {
			git:  &gitctx.RepoContext{Branch: "gh-pages", Dirty: true},
			want: "Commit the pending changes on gh-pages before publishing",
		},
		"no commits yet": {
			git:  &gitctx.RepoContext{Dirty: true},
			want: "Commit the pending changes on the current branch before publishing",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &Report{Summary: Summary{Passed: true}, Metadata: Metadata{Git: tt.git}}
			assert.Equal(t, []string{tt.want}, NextSteps(r, Guidance{}))
		})
	}
}

func TestNextStepsFailed(t *testing.T) {
	r := &Report{
		Files: []FileCheck{{Path: "index.html", Exists: true}, {Path: "sw.js"}},
		Manifest: ManifestCheck{
			Path: "manifest.json", Exists: true, Parsed: true,
			Problems: []string{`missing required key "icons"`},
		},
		Content: []ContentCheck{{
			Path: "index.html", Exists: true,
			Assertions: []AssertionResult{{Label: "app root element", Substring: `id="app"`}},
		}},
	}
	r.Summary = Summarize(r)

	// Publish guidance is withheld until the site passes.
	steps := NextSteps(r, Guidance{Target: "GitHub Pages", Reminders: []string{"push"}})
	assert.Equal(t, []string{
		"Fix the 3 failed check(s) listed above",
		"Missing file: sw.js",
		`Manifest manifest.json: missing required key "icons"`,
		"index.html is missing app root element",
		"Re-run sitecheck before publishing",
	}, steps)
}
