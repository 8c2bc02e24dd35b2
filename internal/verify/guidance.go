/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"fmt"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/sitecheck/internal/assets"
	"github.com/fulmenhq/sitecheck/pkg/logger"
)

// Guidance carries the publish context for next-step rendering
type Guidance struct {
	Target           string
	Reminders        []string
	CacheVersion     string
	CacheVersionFile string
}

// NextSteps renders the next-step guidance for a summarized report: publish
// reminders when it passed, an instruction to fix the listed failures otherwise.
func NextSteps(r *Report, g Guidance) []string {
	name := "next-steps-pass"
	ctx := map[string]interface{}{
		"target":           g.Target,
		"reminders":        g.Reminders,
		"cacheVersion":     g.CacheVersion,
		"cacheVersionFile": g.CacheVersionFile,
	}
	if git := r.Metadata.Git; git != nil && git.Dirty {
		ctx["dirty"] = true
		branch := git.Branch
		if branch == "" {
			branch = "the current branch"
		}
		ctx["branch"] = branch
	}
	if !r.Summary.Passed {
		name = "next-steps-fail"
		failures := r.Failures()
		ctx = map[string]interface{}{
			"failedCount": len(failures),
			"failures":    failures,
		}
	}

	out, err := renderTemplate(name, ctx)
	if err != nil {
		logger.Warn("failed to render next steps", logger.String("template", name), logger.Err(err))
		if r.Summary.Passed {
			return append([]string(nil), g.Reminders...)
		}
		return []string{"Fix the failed checks listed above"}
	}
	return splitLines(out)
}

// renderTemplate executes an embedded Handlebars template.
func renderTemplate(name string, data interface{}) (string, error) {
	src, ok := assets.GetTemplate(name)
	if !ok {
		return "", fmt.Errorf("template %s is not embedded", name)
	}
	tpl, err := raymond.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl.Exec(data)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
