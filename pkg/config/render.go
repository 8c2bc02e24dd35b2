package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Render serializes cfg as yaml, json or toml.
func Render(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json":
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(out, '\n'), nil
	case "toml":
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
