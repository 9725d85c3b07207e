package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeToken turns a video title or file stem into a catalog key:
// diacritics folded away, lowercase ASCII letters and digits, runs of anything
// else collapsed to a single underscore. Blank input yields "unknown".
func SanitizeToken(value string) string {
	folded, _, err := transform.String(foldMarks(), strings.TrimSpace(value))
	if err != nil {
		folded = value
	}
	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r == 'ł':
			r = 'l'
		case r == '-' || r == '_':
		case r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)):
			gap = b.Len() > 0
			continue
		}
		if gap {
			b.WriteByte('_')
			gap = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
