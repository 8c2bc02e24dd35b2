/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package icons computes the resize plan that turns one source SVG into the
// PNG icon set a web manifest references. It prints converter commands and
// never runs them.
package icons

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/beevik/etree"
	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/safeio"
)

// Source describes the inspected source SVG
type Source struct {
	Path     string   `json:"path"`
	Exists   bool     `json:"exists"`
	Valid    bool     `json:"valid"`
	ViewBox  string   `json:"view_box,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Square   bool     `json:"square"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Target is one output icon
type Target struct {
	Size       int    `json:"size"`
	Path       string `json:"path"`
	Exists     bool   `json:"exists"`
	InManifest bool   `json:"in_manifest"`
	Command    string `json:"command"`
}

// Plan is the full resize plan for a site
type Plan struct {
	Root    string   `json:"root"`
	Source  Source   `json:"source"`
	Sizes   []int    `json:"sizes"`
	Targets []Target `json:"targets"`
}

// Missing counts targets not yet present on disk.
func (p *Plan) Missing() int {
	n := 0
	for _, t := range p.Targets {
		if !t.Exists {
			n++
		}
	}
	return n
}

// Build inspects the source SVG and renders one target per configured size.
// Template errors are returned; a missing or malformed source is recorded in
// Plan.Source and left to the caller to act on.
func Build(root string, cfg config.IconsConfig, manifest config.ManifestConfig) (*Plan, error) {
	output, err := raymond.Parse(cfg.OutputTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid icons.output_template: %w", err)
	}
	var converter *raymond.Template
	if strings.TrimSpace(cfg.Converter) != "" {
		if converter, err = raymond.Parse(cfg.Converter); err != nil {
			return nil, fmt.Errorf("invalid icons.converter: %w", err)
		}
	}

	plan := &Plan{
		Root:   root,
		Source: InspectSource(root, cfg.Source),
		Sizes:  uniqueSizes(cfg.Sizes),
	}
	declared := manifestIcons(root, manifest)

	for _, size := range plan.Sizes {
		out, err := output.Exec(map[string]interface{}{"size": size})
		if err != nil {
			return nil, fmt.Errorf("render icons.output_template for %d: %w", size, err)
		}
		rel, err := safeio.CleanUserPath(out)
		if err != nil {
			return nil, fmt.Errorf("icons.output_template renders %q for size %d: %w", out, size, err)
		}
		t := Target{Size: size, Path: rel, InManifest: declared[rel]}
		if full, err := safeio.Join(root, rel); err == nil {
			if st, err := os.Stat(full); err == nil && !st.IsDir() {
				t.Exists = true
			}
		}
		if converter != nil {
			cmd, err := converter.Exec(map[string]interface{}{"size": size, "source": cfg.Source, "output": rel})
			if err != nil {
				return nil, fmt.Errorf("render icons.converter for %d: %w", size, err)
			}
			t.Command = strings.TrimSpace(cmd)
		}
		plan.Targets = append(plan.Targets, t)
	}
	return plan, nil
}

func uniqueSizes(sizes []int) []int {
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}

// InspectSource reads the SVG at rel and reports its shape.
func InspectSource(root, rel string) Source {
	src := Source{Path: rel}
	data, err := safeio.ReadFileContained(root, rel, 0)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			src.Exists = !errors.Is(err, safeio.ErrTraversal) && !errors.Is(err, safeio.ErrAbsolute)
			src.Error = err.Error()
		} else {
			src.Error = "source SVG not found"
		}
		return src
	}
	src.Exists = true

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		src.Error = fmt.Sprintf("SVG is not well-formed: %v", err)
		return src
	}
	svg := doc.Root()
	if svg == nil {
		src.Error = "SVG has no root element"
		return src
	}
	if svg.Tag != "svg" {
		src.Error = fmt.Sprintf("root element is <%s>, want <svg>", svg.FullTag())
		return src
	}
	src.Valid = true

	if vb := strings.TrimSpace(svg.SelectAttrValue("viewBox", "")); vb != "" {
		src.ViewBox = vb
		fields := strings.FieldsFunc(vb, func(r rune) bool { return r == ' ' || r == ',' })
		if len(fields) == 4 {
			src.Width, _ = strconv.ParseFloat(fields[2], 64)
			src.Height, _ = strconv.ParseFloat(fields[3], 64)
		} else {
			src.Warnings = append(src.Warnings, fmt.Sprintf("viewBox %q does not have four values", vb))
		}
	} else {
		src.Warnings = append(src.Warnings, "no viewBox attribute; the icon may not scale cleanly")
		src.Width = length(svg.SelectAttrValue("width", ""))
		src.Height = length(svg.SelectAttrValue("height", ""))
	}

	if src.Width > 0 && src.Height > 0 {
		src.Square = src.Width == src.Height
		if !src.Square {
			src.Warnings = append(src.Warnings, fmt.Sprintf("source is %gx%g, not square; icons will be distorted or letterboxed", src.Width, src.Height))
		}
	}
	return src
}

// length parses an SVG length such as "512" or "512px"; other units yield 0.
func length(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// manifestIcons returns the site-relative icon paths the manifest declares.
func manifestIcons(root string, rule config.ManifestConfig) map[string]bool {
	out := map[string]bool{}
	data, err := safeio.ReadFileContained(root, rule.Path, 0)
	if err != nil {
		return out
	}
	var doc struct {
		Icons []struct {
			Src string `json:"src"`
		} `json:"icons"`
	}
	if err := json.Unmarshal(safeio.TrimBOM(data), &doc); err != nil {
		return out
	}
	base := path.Dir(rule.Path)
	for _, icon := range doc.Icons {
		if rel, ok := safeio.ResolveRef(base, icon.Src); ok {
			out[rel] = true
		}
	}
	return out
}
