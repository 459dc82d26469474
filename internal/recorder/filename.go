package recorder

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength bounds the length of names produced by CleanFilename.
const MaxFilenameLength = 220

// CleanFilename turns s into a kebab-case file name: diacritics removed, words
// lower-cased and joined by hyphens, cut at MaxFilenameLength runes with no
// omission marker.
func CleanFilename(s string) string {
	name := kebabCase(deburr(s))
	r := []rune(name)
	if len(r) > MaxFilenameLength {
		name = string(r[:MaxFilenameLength])
	}
	return name
}

func deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// kebabCase splits s into words at separators, lower-to-upper transitions and
// letter/digit boundaries.
func kebabCase(s string) string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return strings.Join(words, "-")
}
