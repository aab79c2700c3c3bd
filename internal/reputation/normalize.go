package reputation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newAccentFolder returns a fresh transformer. A transform.Chain keeps
// internal buffers, so one must not be shared between goroutines.
func newAccentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// isSeparator reports runes that collapse into a single space.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// NormalizeLoose canonicalizes text for substring search: accents folded,
// lowercased, runs of whitespace, hyphens, underscores and periods turned
// into one space, every other non-alphanumeric rune dropped, trimmed.
// Word boundaries survive, so "Holdings, LLC" reads "holdings llc".
func NormalizeLoose(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(newAccentFolder(), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	pending := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case isSeparator(r):
			pending = true
		case isWordRune(r):
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeStrict canonicalizes text for identity comparison: the loose
// form with the word-boundary spaces removed too, leaving only letters and
// digits. "ACME CORP." and "Acme Corp" share the key "acmecorp".
func NormalizeStrict(s string) string {
	return strings.ReplaceAll(NormalizeLoose(s), " ", "")
}
