// Package strings holds small text helpers shared by the output formatters.
package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest a single-line table cell gets.
const DefaultCellMaxLen = 100

// MinTruncateLen is the smallest maxLen SingleLine accepts: one character
// plus the ellipsis.
const MinTruncateLen = 4

// SingleLine collapses all whitespace in s to single spaces and cuts the
// result to maxLen runes, ending it with "..." when something was cut.
// maxLen values below MinTruncateLen are raised to it.
func SingleLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
