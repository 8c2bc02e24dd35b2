// Package gitctx reads the git state of the repository holding a site, for publish guidance.
package gitctx

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RepoContext captures the repository state relevant to publishing.
type RepoContext struct {
	Root          string   `json:"root" yaml:"root"`
	Branch        string   `json:"branch,omitempty" yaml:"branch,omitempty"`
	GitSHA        string   `json:"git_sha,omitempty" yaml:"git_sha,omitempty"`
	Dirty         bool     `json:"dirty" yaml:"dirty"`
	ModifiedFiles []string `json:"modified_files,omitempty" yaml:"modified_files,omitempty"`
}

// Collect returns the context for the repository containing target. It returns
// nil, nil when target is not inside a git repository.
func Collect(target string) (*RepoContext, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to publish from.
		return nil, nil
	}
	ctx := &RepoContext{Root: wt.Filesystem.Root()}

	head, err := repo.Head()
	switch {
	case err == nil:
		if head.Name().IsBranch() {
			ctx.Branch = head.Name().Short()
		} else {
			ctx.Branch = "HEAD"
		}
		ctx.GitSHA = shortSHA(head.Hash())
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Fresh repository without commits.
	default:
		return nil, err
	}

	st, err := wt.Status()
	if err != nil {
		return nil, err
	}
	prefix := sitePrefix(ctx.Root, abs)
	for path, s := range st {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		p := filepath.ToSlash(path)
		if prefix != "" && !strings.HasPrefix(p, prefix) {
			continue
		}
		ctx.ModifiedFiles = append(ctx.ModifiedFiles, p)
	}
	sort.Strings(ctx.ModifiedFiles)
	ctx.Dirty = len(ctx.ModifiedFiles) > 0
	return ctx, nil
}

// sitePrefix returns the site directory relative to the repo root, with a
// trailing slash, or "" when the site is the repo root.
func sitePrefix(root, site string) string {
	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		rootResolved = root
	}
	siteResolved, err := filepath.EvalSymlinks(site)
	if err != nil {
		siteResolved = site
	}
	rel, err := filepath.Rel(rootResolved, siteResolved)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel) + "/"
}

func shortSHA(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
