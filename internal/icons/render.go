/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package icons

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/fulmenhq/sitecheck/pkg/ascii"
)

// WriteJSON writes the plan as indented JSON.
func WriteJSON(w io.Writer, p *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteText writes a human-readable plan followed by the converter commands.
func WriteText(w io.Writer, p *Plan, useColor bool) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	warn := color.New(color.FgYellow)
	for _, c := range []*color.Color{ok, bad, warn} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var sb strings.Builder
	src := p.Source
	switch {
	case src.Valid:
		fmt.Fprintf(&sb, "Source: %s %s", src.Path, ok.Sprint("ok"))
		if src.ViewBox != "" {
			fmt.Fprintf(&sb, " (viewBox %s)", src.ViewBox)
		}
		sb.WriteString("\n")
	default:
		fmt.Fprintf(&sb, "Source: %s %s\n", src.Path, bad.Sprint(src.Error))
	}
	for _, msg := range src.Warnings {
		fmt.Fprintf(&sb, "  %s %s\n", warn.Sprint("!"), msg)
	}

	rows := [][]string{{"SIZE", "OUTPUT", "ON DISK", "IN MANIFEST"}}
	for _, t := range p.Targets {
		rows = append(rows, []string{strconv.Itoa(t.Size), t.Path, yesNo(t.Exists), yesNo(t.InManifest)})
	}
	sb.WriteString("\n")
	for _, line := range ascii.Columns(rows) {
		sb.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&sb, "\n%d target(s), %d missing\n", len(p.Targets), p.Missing())

	var cmds []string
	for _, t := range p.Targets {
		if t.Command != "" {
			cmds = append(cmds, t.Command)
		}
	}
	if len(cmds) > 0 {
		fmt.Fprintf(&sb, "\nRun from %s:\n", p.Root)
		for _, c := range cmds {
			sb.WriteString("  " + c + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
