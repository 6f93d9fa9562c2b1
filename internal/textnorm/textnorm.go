// Package textnorm folds free-text spreadsheet labels and values into a
// comparable form. Column headers, sheet names, month names and country
// names all arrive with inconsistent case, accents and spacing; every
// lookup in the import pipeline goes through Fold first.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newStripper builds a fresh accent-stripping chain. Chains carry internal
// buffers, so one is built per call and never shared between goroutines.
func newStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// StripDiacritics removes combining marks: "Dépôt" becomes "Depot".
func StripDiacritics(s string) string {
	out, _, err := transform.String(newStripper(), s)
	if err != nil {
		return s
	}
	return out
}

// Fold lower-cases s, strips diacritics, maps NBSP to a plain space and
// collapses whitespace runs into one space.
func Fold(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = StripDiacritics(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Key folds s and then drops everything that is not a letter or a digit,
// so "Numéro de dépôt", "numero_depot" and "NumeroDepot" share one key.
func Key(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsFold reports whether substr occurs in s once both are folded.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
