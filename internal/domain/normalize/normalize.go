// Package normalize turns federation identifiers and names into the canonical
// forms used as identity keys and in every outbound payload.
package normalize

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Documented fallbacks substituted for missing values.
const (
	DefaultLicense = "9999999"
	DefaultSire    = "50053829"

	emptyLicense = "0000000A"
	emptySire    = "50000000A"
)

// License returns the canonical license: upper case alphanumerics, and when
// shorter than eight characters, left zero padded to eight with a trailing
// check letter appended unless one is present. Empty input yields 0000000A.
// A bare seven digit license therefore grows to nine characters ("1234567"
// gives "01234567A"); federation files already carry that form and it is kept.
func License(s string) string {
	return padIdentifier(s, 8, emptyLicense)
}

// Sire is License for horse registrations, with a nine character threshold.
// Empty input yields 50000000A.
func Sire(s string) string {
	return padIdentifier(s, 9, emptySire)
}

func padIdentifier(s string, threshold int, empty string) string {
	if strings.TrimSpace(s) == "" {
		return empty
	}
	cleaned := alnumUpper(s)
	if len(cleaned) >= threshold {
		return cleaned
	}
	if len(cleaned) < 8 {
		cleaned = strings.Repeat("0", 8-len(cleaned)) + cleaned
	}
	if !endsWithLetter(cleaned) {
		cleaned += "A"
	}
	return cleaned
}

func alnumUpper(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func endsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c >= 'A' && c <= 'Z'
}

// StripCheckLetter removes a single trailing letter.
func StripCheckLetter(s string) string {
	s = strings.TrimSpace(s)
	if n := len(s); n > 0 && unicode.IsLetter(rune(s[n-1])) {
		return s[:n-1]
	}
	return s
}

// DigitsOnly drops every non digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Text decodes HTML entities and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// Name collapses internal whitespace, trims, lower cases, then upper cases
// only the first rune: "JEAN-LUC" becomes "Jean-luc".
func Name(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// JudgeLabel renders an official as "Firstname LASTNAME (FRA)".
func JudgeLabel(firstName, lastName string) string {
	first := strings.ToLower(strings.TrimSpace(firstName))
	if r, size := utf8.DecodeRuneInString(first); size > 0 {
		first = string(unicode.ToUpper(r)) + first[size:]
	}
	return first + " " + strings.ToUpper(strings.TrimSpace(lastName)) + " (FRA)"
}

// TrimNationality removes a trailing "(XXX)" country tag from a judge label.
func TrimNationality(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.LastIndex(label, "("); i >= 0 && strings.HasSuffix(label, ")") {
		return strings.TrimSpace(label[:i])
	}
	return label
}
