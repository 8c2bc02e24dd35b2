/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/fulmenhq/sitecheck/pkg/ascii"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the format for report output
type OutputFormat string

const (
	FormatPretty   OutputFormat = "pretty"
	FormatConcise  OutputFormat = "concise"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
)

// Formats lists the supported output formats in help order.
var Formats = []OutputFormat{FormatPretty, FormatConcise, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatPretty, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (use %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ColorEnabled reports whether output to w should be colorized: never when
// noColor is set or NO_COLOR is present, otherwise only for terminals.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Formatter handles formatting verification reports
type Formatter struct {
	format OutputFormat
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	bold   *color.Color
	pass   *color.Color
	fail   *color.Color
	title  cases.Caser
}

// NewFormatter creates a report formatter
func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	f := &Formatter{
		format: format,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
		pass:   color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		title:  cases.Title(language.English),
	}
	for _, c := range []*color.Color{f.green, f.red, f.yellow, f.bold, f.pass, f.fail} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// FormatReport renders the report in the configured format
func (f *Formatter) FormatReport(r *Report) (string, error) {
	switch f.format {
	case FormatPretty, "":
		return f.formatPretty(r), nil
	case FormatConcise:
		return f.formatConcise(r), nil
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode report: %w", err)
		}
		return string(b) + "\n", nil
	case FormatYAML:
		b, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to encode report: %w", err)
		}
		return string(b), nil
	case FormatMarkdown:
		return f.formatMarkdown(r)
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

// WriteReport writes the formatted report to w
func (f *Formatter) WriteReport(w io.Writer, r *Report) error {
	out, err := f.FormatReport(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

type category struct {
	name   string
	total  int
	failed int
}

func (f *Formatter) categories(r *Report) []category {
	manifestFailed := 0
	if !r.Manifest.Passed() {
		manifestFailed = 1
	}
	return []category{
		{name: f.title.String("files"), total: r.Summary.FilesChecked, failed: r.Summary.FilesMissing},
		{name: f.title.String("directories"), total: r.Summary.DirectoriesChecked, failed: r.Summary.DirectoriesFailed},
		{name: f.title.String("manifest"), total: 1, failed: manifestFailed},
		{name: f.title.String("content assertions"), total: r.Summary.AssertionsTotal, failed: r.Summary.AssertionsTotal - r.Summary.AssertionsFound},
	}
}

func (f *Formatter) mark(ok bool) string {
	if ok {
		return f.green.Sprint("✓")
	}
	return f.red.Sprint("✗")
}

func (f *Formatter) verdict(passed bool) string {
	if passed {
		return f.pass.Sprint("PASS")
	}
	return f.fail.Sprint("FAIL")
}

func fileDetail(c FileCheck) string {
	switch {
	case c.Error != "":
		return c.Error
	case len(c.Matches) > 0:
		return fmt.Sprintf("%d match(es)", len(c.Matches))
	case !c.Exists && IsGlob(c.Path):
		return "no matches"
	case !c.Exists:
		return "missing"
	case c.SizeBytes != nil:
		return humanize.Bytes(uint64(*c.SizeBytes))
	}
	return ""
}

func dirDetail(c DirCheck) string {
	switch {
	case c.Error != "":
		return c.Error
	case !c.Exists:
		return "missing"
	case c.EntryCount != nil && *c.EntryCount == 0:
		return "empty"
	case c.EntryCount != nil:
		return fmt.Sprintf("%d entries", *c.EntryCount)
	}
	return ""
}

func manifestDetail(c ManifestCheck) string {
	if !c.Parsed {
		if c.Error == "" {
			return "invalid"
		}
		return c.Error
	}
	name := c.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s, start_url %q, %d icon(s)", name, c.StartURL, c.IconCount)
}

func contentDetail(c ContentCheck) string {
	switch {
	case c.Error != "":
		return c.Error
	case !c.Exists:
		return "missing"
	}
	return fmt.Sprintf("%d/%d found", c.Found(), len(c.Assertions))
}

// markedColumns aligns the text columns, then prefixes each line with its mark.
func markedColumns(indent string, marks []string, rows [][]string) []string {
	lines := ascii.Columns(rows)
	for i := range lines {
		lines[i] = indent + marks[i] + " " + lines[i]
	}
	return lines
}

func (f *Formatter) formatPretty(r *Report) string {
	var sb strings.Builder

	header := []string{
		"sitecheck report",
		"Site:   " + r.Metadata.Site,
		"Config: " + r.Metadata.ConfigSource,
	}
	if g := r.Metadata.Git; g != nil && g.Branch != "" {
		state := "clean"
		if g.Dirty {
			state = "dirty"
		}
		header = append(header, fmt.Sprintf("Git:    %s@%s (%s)", g.Branch, g.GitSHA, state))
	}
	sb.WriteString(ascii.Box(header))

	section := func(title string, passed, total int) {
		fmt.Fprintf(&sb, "\n%s (%d/%d)\n", f.bold.Sprint(title), passed, total)
	}

	if len(r.Files) > 0 {
		section(f.title.String("files"), r.Summary.FilesChecked-r.Summary.FilesMissing, r.Summary.FilesChecked)
		marks := make([]string, len(r.Files))
		rows := make([][]string, len(r.Files))
		for i, c := range r.Files {
			marks[i] = f.mark(c.Passed())
			rows[i] = []string{c.Path, fileDetail(c)}
		}
		writeLines(&sb, markedColumns("  ", marks, rows))
	}

	if len(r.Directories) > 0 {
		section(f.title.String("directories"), r.Summary.DirectoriesChecked-r.Summary.DirectoriesFailed, r.Summary.DirectoriesChecked)
		marks := make([]string, len(r.Directories))
		rows := make([][]string, len(r.Directories))
		for i, c := range r.Directories {
			marks[i] = f.mark(c.Passed())
			rows[i] = []string{c.Path, dirDetail(c)}
		}
		writeLines(&sb, markedColumns("  ", marks, rows))
	}

	fmt.Fprintf(&sb, "\n%s\n", f.bold.Sprint(f.title.String("manifest")))
	fmt.Fprintf(&sb, "  %s %s  %s\n", f.mark(r.Manifest.Passed()), r.Manifest.Path, manifestDetail(r.Manifest))
	for _, p := range r.Manifest.Problems {
		fmt.Fprintf(&sb, "      - %s\n", p)
	}

	if len(r.Content) > 0 {
		section(f.title.String("content assertions"), r.Summary.AssertionsFound, r.Summary.AssertionsTotal)
		for _, c := range r.Content {
			fmt.Fprintf(&sb, "  %s %s  %s\n", f.mark(c.Passed()), c.Path, contentDetail(c))
			marks := make([]string, len(c.Assertions))
			rows := make([][]string, len(c.Assertions))
			for i, a := range c.Assertions {
				marks[i] = f.mark(a.Found)
				rows[i] = []string{a.Label}
			}
			writeLines(&sb, markedColumns("      ", marks, rows))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n%s (%d)\n", f.yellow.Sprint(f.title.String("warnings")), len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  %s %s\n", f.yellow.Sprint("!"), warningText(w))
		}
	}

	fmt.Fprintf(&sb, "\nVerdict: %s  %s\n", f.verdict(r.Summary.Passed), summaryLine(r.Summary))

	if len(r.NextSteps) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", f.bold.Sprint("Next steps"))
		for i, step := range r.NextSteps {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	return sb.String()
}

func writeLines(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
}

func warningText(w Warning) string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %s", w.Category, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Category, w.Path, w.Message)
}

func summaryLine(s Summary) string {
	manifest := "ok"
	if !s.ManifestValid {
		manifest = "invalid"
	}
	return fmt.Sprintf("(files %d/%d, directories %d/%d, manifest %s, assertions %d/%d)",
		s.FilesChecked-s.FilesMissing, s.FilesChecked,
		s.DirectoriesChecked-s.DirectoriesFailed, s.DirectoriesChecked,
		manifest, s.AssertionsFound, s.AssertionsTotal)
}

// formatConcise prints one line per category, suitable for CI logs
func (f *Formatter) formatConcise(r *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s | warnings: %d | time: %s\n",
		f.bold.Sprint("sitecheck"), f.verdict(r.Summary.Passed), r.Metadata.Site,
		r.Summary.Warnings, r.Metadata.Duration.Round(time.Millisecond))
	for _, c := range f.categories(r) {
		status := f.green.Sprint("ok")
		if c.failed > 0 {
			status = f.red.Sprintf("%d failed", c.failed)
		}
		fmt.Fprintf(&sb, " - %s: %s (%d checked)\n", c.name, status, c.total)
	}
	return sb.String()
}

func (f *Formatter) formatMarkdown(r *Report) (string, error) {
	type row struct {
		Mark string `handlebars:"mark"`
		Text string `handlebars:"text"`
	}
	type section struct {
		Title string `handlebars:"title"`
		Rows  []row  `handlebars:"rows"`
	}
	mark := func(ok bool) string {
		if ok {
			return "✅"
		}
		return "❌"
	}

	var sections []section
	if len(r.Files) > 0 {
		s := section{Title: f.title.String("files")}
		for _, c := range r.Files {
			s.Rows = append(s.Rows, row{Mark: mark(c.Passed()), Text: fmt.Sprintf("`%s` %s", c.Path, fileDetail(c))})
		}
		sections = append(sections, s)
	}
	if len(r.Directories) > 0 {
		s := section{Title: f.title.String("directories")}
		for _, c := range r.Directories {
			s.Rows = append(s.Rows, row{Mark: mark(c.Passed()), Text: fmt.Sprintf("`%s` %s", c.Path, dirDetail(c))})
		}
		sections = append(sections, s)
	}
	ms := section{Title: f.title.String("manifest")}
	ms.Rows = append(ms.Rows, row{Mark: mark(r.Manifest.Passed()), Text: fmt.Sprintf("`%s` %s", r.Manifest.Path, manifestDetail(r.Manifest))})
	for _, p := range r.Manifest.Problems {
		ms.Rows = append(ms.Rows, row{Mark: "⚠️", Text: p})
	}
	sections = append(sections, ms)
	for _, c := range r.Content {
		s := section{Title: fmt.Sprintf("Content: `%s`", c.Path)}
		if !c.Exists || c.Error != "" {
			s.Rows = append(s.Rows, row{Mark: mark(false), Text: contentDetail(c)})
		}
		for _, a := range c.Assertions {
			s.Rows = append(s.Rows, row{Mark: mark(a.Found), Text: a.Label})
		}
		sections = append(sections, s)
	}

	cats := f.categories(r)
	catData := make([]map[string]interface{}, len(cats))
	for i, c := range cats {
		catData[i] = map[string]interface{}{"name": c.name, "total": c.total, "failed": c.failed}
	}
	warnings := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		warnings[i] = warningText(w)
	}

	return renderTemplate("report.md", map[string]interface{}{
		"site":       r.Metadata.Site,
		"passed":     r.Summary.Passed,
		"categories": catData,
		"sections":   sections,
		"warnings":   warnings,
		"nextSteps":  r.NextSteps,
	})
}
