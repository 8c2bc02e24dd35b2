/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/logger"
	"github.com/fulmenhq/sitecheck/pkg/safeio"
	"github.com/fulmenhq/sitecheck/pkg/schema"
)

// ManifestSchema is the embedded schema the manifest shape is validated against.
const ManifestSchema = "web-manifest"

// CheckManifest parses the application manifest and checks its shape.
// Unreadable or non-JSON input yields Parsed=false with the parser message;
// it never panics and never returns an error.
func (c *Checker) CheckManifest(rule config.ManifestConfig) ManifestCheck {
	res := ManifestCheck{Path: rule.Path}
	data, err := safeio.ReadFileContained(c.root, rule.Path, c.maxFileSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Error = "file not found"
			return res
		}
		res.Exists = !errors.Is(err, safeio.ErrTraversal) && !errors.Is(err, safeio.ErrAbsolute)
		res.Error = err.Error()
		return res
	}
	res.Exists = true
	return inspectManifest(res, data, rule)
}

func inspectManifest(res ManifestCheck, data []byte, rule config.ManifestConfig) ManifestCheck {
	data = safeio.TrimBOM(data)
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Parsed = true

	obj, ok := doc.(map[string]any)
	if !ok {
		res.Problems = append(res.Problems, fmt.Sprintf("top level must be a JSON object, got %s", jsonKind(doc)))
		return res
	}

	res.Name, _ = obj["name"].(string)
	res.StartURL, _ = obj["start_url"].(string)
	if icons, ok := obj["icons"].([]any); ok {
		res.IconCount = len(icons)
		for _, icon := range icons {
			if m, ok := icon.(map[string]any); ok {
				if src, ok := m["src"].(string); ok && src != "" {
					res.icons = append(res.icons, src)
				}
			}
		}
	}

	for _, key := range rule.RequiredKeys {
		if _, ok := obj[key]; !ok {
			res.Problems = append(res.Problems, fmt.Sprintf("missing required key %q", key))
		}
	}

	v, err := schema.GetEmbeddedValidator(ManifestSchema)
	if err != nil {
		logger.Warn("manifest schema unavailable, skipping shape validation", logger.Err(err))
	} else if result, err := v.ValidateBytes(data); err != nil {
		logger.Warn("manifest schema validation failed", logger.Err(err))
	} else if !result.Valid {
		res.Problems = append(res.Problems, result.Messages()...)
	}

	if res.IconCount < rule.MinIcons {
		res.Problems = append(res.Problems, fmt.Sprintf("has %d icon(s), need at least %d", res.IconCount, rule.MinIcons))
	}
	return res
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IconWarnings reports manifest icons that do not exist under the site root.
// Remote and data URLs are skipped.
func (c *Checker) IconWarnings(m ManifestCheck) []Warning {
	var out []Warning
	base := path.Dir(m.Path)
	for _, src := range m.icons {
		rel, ok := safeio.ResolveRef(base, src)
		if !ok {
			continue
		}
		full, err := safeio.Join(c.root, rel)
		if err != nil {
			out = append(out, Warning{Category: WarningManifest, Path: src, Message: "icon path escapes the site root"})
			continue
		}
		if st, err := os.Stat(full); err != nil || st.IsDir() {
			out = append(out, Warning{Category: WarningManifest, Path: rel, Message: "manifest icon not found on disk"})
		}
	}
	return out
}
