/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/fulmenhq/sitecheck/pkg/config"
	"github.com/fulmenhq/sitecheck/pkg/safeio"
)

// CheckContentAssertions scans one file for each required substring. When the
// file is missing or unreadable every assertion is reported as not found.
func (c *Checker) CheckContentAssertions(p string, assertions []config.Assertion) ContentCheck {
	res := ContentCheck{Path: p, Assertions: make([]AssertionResult, len(assertions))}
	for i, a := range assertions {
		res.Assertions[i] = AssertionResult{Label: a.Label, Substring: a.Contains}
	}

	data, err := safeio.ReadFileContained(c.root, p, c.maxFileSize)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			res.Exists = !errors.Is(err, safeio.ErrTraversal) && !errors.Is(err, safeio.ErrAbsolute)
			res.Error = err.Error()
		}
		return res
	}
	res.Exists = true

	text := string(data)
	for i := range res.Assertions {
		res.Assertions[i].Found = strings.Contains(text, res.Assertions[i].Substring)
	}
	return res
}

// CheckContent runs CheckContentAssertions for each rule, keeping rule order.
func (c *Checker) CheckContent(ctx context.Context, rules []config.ContentRule) []ContentCheck {
	results := make([]ContentCheck, len(rules))
	_ = c.forEach(ctx, len(rules), func(i int) {
		results[i] = c.CheckContentAssertions(rules[i].Path, rules[i].Assertions)
	})
	return results
}
