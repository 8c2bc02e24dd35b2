package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed embedded_defaults
var defaults embed.FS

//go:embed embedded_schemas
var schemas embed.FS

//go:embed embedded_templates
var templates embed.FS

// DefaultConfig returns the built-in verification profile (YAML).
func DefaultConfig() []byte {
	data, err := defaults.ReadFile("embedded_defaults/sitecheck.yaml")
	if err != nil {
		// The file is embedded at build time; a miss is a packaging bug.
		panic("assets: default config missing: " + err.Error())
	}
	return data
}

// GetSchema returns an embedded JSON schema by name (file name without ".json").
func GetSchema(name string) ([]byte, bool) {
	data, err := schemas.ReadFile(path.Join("embedded_schemas", name+".json"))
	return data, err == nil
}

// SchemaNames lists the embedded schema names in sorted order.
func SchemaNames() []string {
	entries, err := fs.ReadDir(schemas, "embedded_schemas")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names
}

// GetTemplate returns an embedded Handlebars template by name (file name without ".hbs").
func GetTemplate(name string) (string, bool) {
	data, err := templates.ReadFile(path.Join("embedded_templates", name+".hbs"))
	if err != nil {
		return "", false
	}
	return string(data), true
}
