package parse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Fold lower-cases s and strips diacritics so "Après-demain" matches "apres-demain".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, apostrophes.Replace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// words splits folded text on anything that is not a letter or a digit.
func words(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Tokens folds text and splits it into words.
func Tokens(text string) []string {
	return words(Fold(text))
}
