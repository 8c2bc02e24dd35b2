/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ascii

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxAlignsWideRunes(t *testing.T) {
	out := Box([]string{"sitecheck", "✓ ready 🚀"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	want := StringWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, want, StringWidth(l), "line %q misaligned", l)
	}
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[3], "└"))
}

func TestBoxEmpty(t *testing.T) {
	assert.Equal(t, "", Box(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestColumns(t *testing.T) {
	rows := [][]string{
		{"✓", "index.html", "1.2 KB"},
		{"✗", "js/workout-manager.js", "missing"},
	}
	out := Columns(rows)
	assert.Equal(t, []string{
		"✓  index.html             1.2 KB",
		"✗  js/workout-manager.js  missing",
	}, out)
}
