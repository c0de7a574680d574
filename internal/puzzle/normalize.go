package puzzle

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeWord removes all whitespace and combining marks (niqqud, cantillation)
// from w, so "שָׁלוֹם " becomes "שלום".
func NormalizeWord(w string) string {
	w = strings.Join(strings.Fields(w), "")
	if w == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, w)
	if err != nil {
		return w
	}
	return out
}

// stripMarks removes combining marks but keeps spaces, for filters that
// must still see embedded whitespace.
func stripMarks(w string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(w))
	if err != nil {
		return strings.TrimSpace(w)
	}
	return out
}
