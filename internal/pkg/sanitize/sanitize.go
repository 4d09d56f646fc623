// Package sanitize cleans free-text user input before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxTextLen = 1000

var strict = bluemonday.StrictPolicy()

// Text strips markup and control bytes and trims surrounding whitespace.
func Text(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	// StrictPolicy entity-escapes what it keeps; values are stored as plain text.
	input = html.UnescapeString(strict.Sanitize(input))
	input = strings.TrimSpace(input)

	if r := []rune(input); len(r) > maxTextLen {
		input = string(r[:maxTextLen])
	}
	return input
}
