package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// corporateRegimes are corporate-regime suffixes anchored to the end of a
// name, most specific first so that "S.A.P.I. DE C.V." is never cut down to
// a dangling "S.A.P.I.".
var corporateRegimes = []*regexp.Regexp{
	regexp.MustCompile(`\s+S\.?\s*A\.?\s*P\.?\s*I\.?\s+DE\s+C\.?\s*V\.?$`),
	regexp.MustCompile(`\s+S\.?\s*DE\s+R\.?\s*L\.?\s+DE\s+C\.?\s*V\.?$`),
	regexp.MustCompile(`\s+S\.?\s*A\.?\s+DE\s+C\.?\s*V\.?$`),
	regexp.MustCompile(`\s+S\.?\s*DE\s+R\.?\s*L\.?$`),
	regexp.MustCompile(`\s+S\.?\s*A\.?\s*S\.?$`),
	regexp.MustCompile(`\s+S\.?\s*C\.?$`),
	regexp.MustCompile(`\s+S\.?\s*A\.?$`),
	regexp.MustCompile(`\s+A\.?\s*C\.?$`),
}

const trailingPunctuation = " ,.;"

// StripDiacritics removes combining marks: "PACÍFICO" becomes "PACIFICO"
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeEntityName prepares a name for strict CFDI 4.0 validation:
// uppercase, no diacritics, no corporate regime, no trailing punctuation and
// single spaces. It is idempotent.
func SanitizeEntityName(raw string) string {
	name := normalizeName(raw)

	// Repeat until stable so stacked suffixes ("... S.C., S.A.") are all removed
	// and a second call has nothing left to strip.
	for {
		before := name
		name = strings.TrimRight(name, trailingPunctuation)
		for _, pattern := range corporateRegimes {
			name = pattern.ReplaceAllString(name, "")
		}
		name = strings.TrimRight(name, trailingPunctuation)
		if name == before {
			return name
		}
	}
}

// SanitizePersonName uppercases, strips diacritics, collapses whitespace and
// trims trailing punctuation. Corporate suffixes are left alone so that a
// surname such as "SA" survives.
func SanitizePersonName(raw string) string {
	return strings.TrimRight(normalizeName(raw), trailingPunctuation)
}

func normalizeName(raw string) string {
	name := strings.ToUpper(StripDiacritics(raw))
	return strings.Join(strings.Fields(name), " ")
}
