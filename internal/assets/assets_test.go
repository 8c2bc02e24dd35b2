package assets

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigParses(t *testing.T) {
	var cfg map[string]any
	if err := yaml.Unmarshal(DefaultConfig(), &cfg); err != nil {
		t.Fatalf("default config is not valid YAML: %v", err)
	}
	for _, key := range []string{"files", "directories", "manifest", "content", "publish", "icons"} {
		if _, ok := cfg[key]; !ok {
			t.Errorf("default config missing %q", key)
		}
	}
}

func TestSchemasAreJSON(t *testing.T) {
	names := SchemaNames()
	if len(names) != 2 {
		t.Fatalf("SchemaNames() = %v, want 2 schemas", names)
	}
	for _, name := range names {
		data, ok := GetSchema(name)
		if !ok {
			t.Fatalf("GetSchema(%q) missing", name)
		}
		if !json.Valid(data) {
			t.Errorf("schema %s is not valid JSON", name)
		}
	}
	if _, ok := GetSchema("nope"); ok {
		t.Error("GetSchema should miss unknown names")
	}
}

func TestGetTemplate(t *testing.T) {
	for _, name := range []string{"next-steps-pass", "next-steps-fail", "report.md"} {
		tpl, ok := GetTemplate(name)
		if !ok || tpl == "" {
			t.Errorf("template %s missing", name)
		}
	}
	if _, ok := GetTemplate("missing"); ok {
		t.Error("GetTemplate should miss unknown names")
	}
}
