package shared

import (
	"strings"
	"unicode"
)

// NormalizeTitle reduces a track title or search term to its catalog-normalized
// form: lower case, punctuation removed, whitespace runs collapsed to single
// spaces. Two titles are considered equivalent when their normalized forms are
// equal.
func NormalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// TrimWordPunct strips leading and trailing punctuation from a word while
// preserving interior apostrophes and hyphens, so "don't," becomes "don't"
// and "--well--" becomes "well".
func TrimWordPunct(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
