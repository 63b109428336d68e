package slugify

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make derives a URL slug from a display name. Unicode letters and digits
// are kept as-is so non-latin titles stay addressable; runs of anything
// else collapse to a single hyphen.
func Make(name string) string {
	normalized := norm.NFKC.String(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	b.Grow(len(normalized))
	lastHyphen := true
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
