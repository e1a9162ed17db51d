package search

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticsFold strips combining marks from s by decomposing it to NFD
// and dropping every unicode.Mn rune, the standard golang.org/x/text
// recipe for accent-insensitive comparison. Used when a literal's
// Modifiers.Diacritics is false, per spec.md §4.5's diacritics modifier.
var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		return s
	}
	return out
}
