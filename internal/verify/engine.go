/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fulmenhq/sitecheck/internal/gitctx"
	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/ignore"
	"github.com/fulmenhq/sitecheck/pkg/logger"
	"github.com/fulmenhq/sitecheck/pkg/safeio"
)

// ToolName is recorded in report metadata.
const ToolName = "sitecheck"

// ErrSiteRoot is returned by Run when the site root is missing or not a directory.
var ErrSiteRoot = errors.New("site root is not a readable directory")

// Engine runs a full verification pass over one site
type Engine struct {
	site         string
	cfg          *config.Config
	configSource string
	version      string
	now          func() time.Time
}

// NewEngine creates an engine for site using cfg. source and version are
// recorded in report metadata only.
func NewEngine(site string, cfg *config.Config, source, version string) *Engine {
	return &Engine{site: site, cfg: cfg, configSource: source, version: version, now: time.Now}
}

// Run performs one linear pass, threading a single report through every
// check. Missing or malformed site content is recorded in the report; the
// only errors are an unusable site root and context cancellation.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := e.now()
	root, err := filepath.Abs(e.site)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSiteRoot, e.site, err)
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSiteRoot, e.site)
	}

	cfg := e.cfg
	checker := NewChecker(root, cfg.Concurrency, cfg.MaxFileSize)
	logger.Debug("starting verification",
		logger.String("site", root),
		logger.Int("files", len(cfg.Files)),
		logger.Int("directories", len(cfg.Directories)),
		logger.Int("content_rules", len(cfg.Content)),
		logger.Int("workers", checker.workers()))

	report := &Report{
		Metadata: Metadata{
			Tool:         ToolName,
			Version:      e.version,
			Site:         e.site,
			GeneratedAt:  start,
			ConfigSource: e.configSource,
		},
		Warnings: []Warning{},
	}

	report.Files = checker.CheckFiles(ctx, cfg.Files)
	report.Directories = checker.CheckDirectories(ctx, cfg.Directories)
	report.Manifest = checker.CheckManifest(cfg.Manifest)
	report.Content = checker.CheckContent(ctx, cfg.Content)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Manifest.CheckIconFiles && report.Manifest.Parsed {
		report.Warnings = append(report.Warnings, checker.IconWarnings(report.Manifest)...)
	}

	repo, err := gitctx.Collect(root)
	if err != nil {
		logger.Debug("git context unavailable", logger.Err(err))
	}
	report.Metadata.Git = repo

	if cfg.Publish.CheckIgnored {
		report.Warnings = append(report.Warnings, ignoredWarnings(root, repo, report.Files)...)
	}
	if repo != nil && repo.Dirty {
		report.Warnings = append(report.Warnings, Warning{
			Category: WarningGit,
			Path:     repo.Root,
			Message:  fmt.Sprintf("%d uncommitted change(s) under the site root", len(repo.ModifiedFiles)),
		})
	}

	report.Summary = Summarize(report)
	report.NextSteps = NextSteps(report, Guidance{
		Target:           cfg.Publish.Target,
		Reminders:        cfg.Publish.Reminders,
		CacheVersion:     ExtractCacheVersion(root, cfg.Publish.CacheVersionFile, cfg.Publish.CacheVersionPattern, cfg.MaxFileSize),
		CacheVersionFile: cfg.Publish.CacheVersionFile,
	})
	report.Metadata.Duration = e.now().Sub(start)

	logger.Debug("verification finished",
		logger.Bool("passed", report.Summary.Passed),
		logger.Int("warnings", report.Summary.Warnings),
		logger.Duration("took", report.Metadata.Duration))
	return report, nil
}

// Summarize derives counts and the verdict. Passed is true iff every file,
// directory, manifest and content assertion check passed; warnings are
// counted but never change it.
func Summarize(r *Report) Summary {
	s := Summary{
		FilesChecked:       len(r.Files),
		DirectoriesChecked: len(r.Directories),
		ManifestValid:      r.Manifest.Passed(),
		Warnings:           len(r.Warnings),
	}
	passed := s.ManifestValid
	for _, f := range r.Files {
		if !f.Passed() {
			s.FilesMissing++
			passed = false
		}
	}
	for _, d := range r.Directories {
		if !d.Passed() {
			s.DirectoriesFailed++
			passed = false
		}
	}
	for _, c := range r.Content {
		s.AssertionsTotal += len(c.Assertions)
		s.AssertionsFound += c.Found()
		if !c.Passed() {
			passed = false
		}
	}
	s.Passed = passed
	return s
}

// ExtractCacheVersion returns the first capture group of pattern in file, or
// "" when the file, the pattern or a match is missing.
func ExtractCacheVersion(root, file, pattern string, maxSize int64) string {
	if file == "" || pattern == "" {
		return ""
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		logger.Debug("invalid cache version pattern", logger.Err(err))
		return ""
	}
	data, err := safeio.ReadFileContained(root, file, maxSize)
	if err != nil {
		return ""
	}
	m := re.FindSubmatch(data)
	if len(m) < 2 {
		return ""
	}
	return string(m[1])
}

// ignoredWarnings flags existing expected files that git would not publish.
func ignoredWarnings(root string, repo *gitctx.RepoContext, files []FileCheck) []Warning {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolved = root
	}
	var matchers []*ignore.Matcher
	bases := []string{resolved}
	if repo != nil && repo.Root != "" {
		if r, err := filepath.EvalSymlinks(repo.Root); err == nil && r != resolved {
			bases = append(bases, r)
		}
	}
	for _, b := range bases {
		m, err := ignore.NewMatcher(b)
		if err != nil {
			logger.Debug("cannot load ignore patterns", logger.String("root", b), logger.Err(err))
			continue
		}
		if !m.Empty() {
			matchers = append(matchers, m)
		}
	}
	if len(matchers) == 0 {
		return nil
	}

	ignored := func(rel string) bool {
		full := filepath.Join(resolved, filepath.FromSlash(rel))
		for _, m := range matchers {
			if m.IsIgnoredAbs(full, false) {
				return true
			}
		}
		return false
	}

	var out []Warning
	for _, f := range files {
		if !f.Passed() {
			continue
		}
		candidates := f.Matches
		if len(candidates) == 0 {
			rel, err := safeio.CleanUserPath(f.Path)
			if err != nil {
				continue
			}
			candidates = []string{rel}
		}
		for _, rel := range candidates {
			if ignored(rel) {
				out = append(out, Warning{
					Category: WarningIgnored,
					Path:     rel,
					Message:  "required file is ignored by git and would be left out of a git-based publish",
				})
			}
		}
	}
	return out
}
