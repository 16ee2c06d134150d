// Package anchor derives URL-fragment identifiers from heading text.
package anchor

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Derive converts heading text into a kebab-cased fragment with a leading '#'.
// Identical text always yields identical anchors; collisions are not resolved.
func Derive(text string) string {
	id := ID(text)
	if id == "" {
		return ""
	}
	return "#" + id
}

// ID is Derive without the leading '#', suitable for an element id attribute.
func ID(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	words := splitWords(norm.NFC.String(text))
	if len(words) == 0 {
		return ""
	}

	// Casers are stateful and must not be shared across goroutines.
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "-")
}

// splitWords breaks text on anything that is not a letter, digit or mark and
// on camelCase boundaries. Apostrophes are dropped without splitting.
func splitWords(s string) []string {
	runes := []rune(s)

	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if r == '\'' || r == '’' {
			continue
		}
		if !isWordRune(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev), unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// "XMLHttp": the last capital starts the next word.
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}
