package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fulmenhq/sitecheck/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Messages flattens the errors into "path: message" lines.
func (r *Result) Messages() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.String())
	}
	return out
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	if e.Path == "" || e.Path == "root" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validator wraps a compiled schema for repeated validation.
type Validator struct {
	schema *gojsonschema.Schema
}

var (
	registryMu sync.Mutex
	registry   = map[string]*gojsonschema.Schema{}
)

func compileSchemaBytes(schemaBytes []byte) (*gojsonschema.Schema, error) {
	jb := schemaBytes
	if !json.Valid(schemaBytes) {
		// Not JSON: accept YAML and normalize to JSON bytes for the loader.
		var tmp any
		if err := yaml.Unmarshal(schemaBytes, &tmp); err != nil {
			return nil, fmt.Errorf("failed to parse schema: %w", err)
		}
		var err error
		if jb, err = json.Marshal(tmp); err != nil {
			return nil, fmt.Errorf("failed to encode schema to JSON: %w", err)
		}
	}
	sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jb))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return sch, nil
}

// NewValidatorFromBytes compiles schema bytes (JSON or YAML) into a reusable validator.
func NewValidatorFromBytes(schemaBytes []byte) (*Validator, error) {
	sch, err := compileSchemaBytes(schemaBytes)
	if err != nil {
		return nil, err
	}
	return &Validator{schema: sch}, nil
}

// GetEmbeddedValidator returns a validator for a named embedded schema
// (e.g. "web-manifest"). Compiled schemas are cached.
func GetEmbeddedValidator(name string) (*Validator, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if sch, ok := registry[name]; ok {
		return &Validator{schema: sch}, nil
	}
	data, ok := assets.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("schema %s not found", name)
	}
	sch, err := compileSchemaBytes(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	registry[name] = sch
	return &Validator{schema: sch}, nil
}

// Validate applies the compiled schema to the provided data structure.
func (v *Validator) Validate(data any) (*Result, error) {
	if v == nil || v.schema == nil {
		return nil, fmt.Errorf("validator not initialised")
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data to JSON: %w", err)
	}
	return v.validateJSON(dataJSON)
}

// ValidateBytes parses YAML/JSON bytes and validates them against the compiled schema.
func (v *Validator) ValidateBytes(dataBytes []byte) (*Result, error) {
	if v == nil || v.schema == nil {
		return nil, fmt.Errorf("validator not initialised")
	}
	if json.Valid(dataBytes) {
		return v.validateJSON(dataBytes)
	}
	var data any
	if err := yaml.Unmarshal(dataBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data bytes (YAML/JSON): %w", err)
	}
	return v.Validate(data)
}

func (v *Validator) validateJSON(doc []byte) (*Result, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	res := &Result{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		res.Errors = append(res.Errors, ValidationError{Path: field, Message: verr.Description()})
	}
	// gojsonschema reports in map iteration order for some keywords.
	sort.SliceStable(res.Errors, func(i, j int) bool {
		if res.Errors[i].Path != res.Errors[j].Path {
			return res.Errors[i].Path < res.Errors[j].Path
		}
		return res.Errors[i].Message < res.Errors[j].Message
	})
	return res, nil
}

// Validate validates data against the named embedded schema.
func Validate(data any, name string) (*Result, error) {
	v, err := GetEmbeddedValidator(name)
	if err != nil {
		return nil, err
	}
	return v.Validate(data)
}
