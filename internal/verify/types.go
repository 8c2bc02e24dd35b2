/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"fmt"
	"time"

	"github.com/fulmenhq/sitecheck/internal/gitctx"
)

// WarningCategory groups advisory findings
type WarningCategory string

const (
	WarningIgnored  WarningCategory = "ignored"
	WarningManifest WarningCategory = "manifest"
	WarningGit      WarningCategory = "git"
)

// FileCheck is the result of checking one expected file or glob
type FileCheck struct {
	Path      string   `json:"path" yaml:"path"`
	Exists    bool     `json:"exists" yaml:"exists"`
	SizeBytes *int64   `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Matches   []string `json:"matches,omitempty" yaml:"matches,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Passed reports whether the file (or at least one glob match) is present.
func (c FileCheck) Passed() bool { return c.Exists && c.Error == "" }

// DirCheck is the result of checking one expected directory
type DirCheck struct {
	Path       string `json:"path" yaml:"path"`
	Exists     bool   `json:"exists" yaml:"exists"`
	EntryCount *int   `json:"entry_count,omitempty" yaml:"entry_count,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Passed reports whether the directory exists and is non-empty.
func (c DirCheck) Passed() bool {
	return c.Exists && c.Error == "" && c.EntryCount != nil && *c.EntryCount > 0
}

// ManifestCheck is the result of parsing and inspecting the application manifest.
// Parsed=false means the file could not be read or is not JSON; Error holds the reason.
type ManifestCheck struct {
	Path      string   `json:"path" yaml:"path"`
	Exists    bool     `json:"exists" yaml:"exists"`
	Parsed    bool     `json:"parsed" yaml:"parsed"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	StartURL  string   `json:"start_url,omitempty" yaml:"start_url,omitempty"`
	IconCount int      `json:"icon_count" yaml:"icon_count"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Problems  []string `json:"problems,omitempty" yaml:"problems,omitempty"`

	// icons lists the src of each manifest icon for the on-disk follow-up check.
	icons []string
}

// Passed reports whether the manifest parsed and has no problems.
func (c ManifestCheck) Passed() bool { return c.Parsed && len(c.Problems) == 0 }

// AssertionResult is the outcome of one content assertion
type AssertionResult struct {
	Label     string `json:"label" yaml:"label"`
	Substring string `json:"substring" yaml:"substring"`
	Found     bool   `json:"found" yaml:"found"`
}

// ContentCheck holds the assertion results for one file
type ContentCheck struct {
	Path       string            `json:"path" yaml:"path"`
	Exists     bool              `json:"exists" yaml:"exists"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Assertions []AssertionResult `json:"assertions" yaml:"assertions"`
}

// Passed reports whether every assertion was found.
func (c ContentCheck) Passed() bool {
	if !c.Exists || c.Error != "" {
		return false
	}
	for _, a := range c.Assertions {
		if !a.Found {
			return false
		}
	}
	return true
}

// Found counts the assertions that were found.
func (c ContentCheck) Found() int {
	n := 0
	for _, a := range c.Assertions {
		if a.Found {
			n++
		}
	}
	return n
}

// Warning is an advisory finding; it never changes the verdict
type Warning struct {
	Category WarningCategory `json:"category" yaml:"category"`
	Path     string          `json:"path,omitempty" yaml:"path,omitempty"`
	Message  string          `json:"message" yaml:"message"`
}

// Summary aggregates a report into counts and the overall verdict
type Summary struct {
	Passed             bool `json:"passed" yaml:"passed"`
	FilesChecked       int  `json:"files_checked" yaml:"files_checked"`
	FilesMissing       int  `json:"files_missing" yaml:"files_missing"`
	DirectoriesChecked int  `json:"directories_checked" yaml:"directories_checked"`
	DirectoriesFailed  int  `json:"directories_failed" yaml:"directories_failed"`
	ManifestValid      bool `json:"manifest_valid" yaml:"manifest_valid"`
	AssertionsTotal    int  `json:"assertions_total" yaml:"assertions_total"`
	AssertionsFound    int  `json:"assertions_found" yaml:"assertions_found"`
	Warnings           int  `json:"warnings" yaml:"warnings"`
}

// Metadata describes the run. It is the only part of a Report that differs
// between runs over an unchanged site.
type Metadata struct {
	Tool         string              `json:"tool" yaml:"tool"`
	Version      string              `json:"version" yaml:"version"`
	Site         string              `json:"site" yaml:"site"`
	GeneratedAt  time.Time           `json:"generated_at" yaml:"generated_at"`
	Duration     time.Duration       `json:"duration" yaml:"duration"`
	ConfigSource string              `json:"config_source" yaml:"config_source"`
	Git          *gitctx.RepoContext `json:"git,omitempty" yaml:"git,omitempty"`
}

// Report is the accumulated result of one verification run
type Report struct {
	Metadata    Metadata       `json:"metadata" yaml:"metadata"`
	Files       []FileCheck    `json:"files" yaml:"files"`
	Directories []DirCheck     `json:"directories" yaml:"directories"`
	Manifest    ManifestCheck  `json:"manifest" yaml:"manifest"`
	Content     []ContentCheck `json:"content" yaml:"content"`
	Warnings    []Warning      `json:"warnings" yaml:"warnings"`
	Summary     Summary        `json:"summary" yaml:"summary"`
	NextSteps   []string       `json:"next_steps" yaml:"next_steps"`
}

// Failures lists a one-line description of every failed check, in report order.
func (r *Report) Failures() []string {
	var out []string
	for _, f := range r.Files {
		if !f.Passed() {
			out = append(out, "Missing file: "+f.Path+reason(f.Error))
		}
	}
	for _, d := range r.Directories {
		if d.Passed() {
			continue
		}
		switch {
		case d.Error != "":
			out = append(out, "Directory "+d.Path+": "+d.Error)
		case !d.Exists:
			out = append(out, "Missing directory: "+d.Path)
		default:
			out = append(out, "Empty directory: "+d.Path)
		}
	}
	if !r.Manifest.Passed() {
		if !r.Manifest.Parsed {
			out = append(out, "Manifest "+r.Manifest.Path+" is invalid"+reason(r.Manifest.Error))
		}
		for _, p := range r.Manifest.Problems {
			out = append(out, "Manifest "+r.Manifest.Path+": "+p)
		}
	}
	for _, c := range r.Content {
		if !c.Exists || c.Error != "" {
			msg := c.Error
			if msg == "" {
				msg = "file not found"
			}
			out = append(out, fmt.Sprintf("Cannot scan %s (%s): %d assertion(s) not found", c.Path, msg, len(c.Assertions)))
			continue
		}
		for _, a := range c.Assertions {
			if !a.Found {
				out = append(out, c.Path+" is missing "+a.Label)
			}
		}
	}
	return out
}

func reason(msg string) string {
	if msg == "" {
		return ""
	}
	return " (" + msg + ")"
}
