package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fulmenhq/sitecheck/pkg/schema"
)

// SchemaName is the embedded JSON schema configs are validated against.
const SchemaName = "sitecheck-config"

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "configuration validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks cfg against the embedded schema and the rules a schema
// cannot express (regular expressions must compile).
func Validate(cfg *Config) error {
	res, err := schema.Validate(cfg, SchemaName)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	problems := res.Messages()

	if p := cfg.Publish.CacheVersionPattern; p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			problems = append(problems, fmt.Sprintf("publish.cache_version_pattern: %v", err))
		} else if re.NumSubexp() < 1 {
			problems = append(problems, "publish.cache_version_pattern: needs one capture group for the version")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
