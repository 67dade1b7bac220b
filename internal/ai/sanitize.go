package ai

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// StripCodeFences removes every ``` delimiter, with its optional language
// tag, and trims the result. Applying it twice yields the same string.
func StripCodeFences(s string) string {
	for strings.Contains(s, "```") {
		s = codeFence.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
