package matcher

import (
	"strings"
	"time"
	"unicode"

	"go-kyc-validator/pkg/models"
)

// Date layouts accepted for the dob field. The first layout is the canonical
// representation every parsed date is rewritten to before comparison.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02.01.2006",
}

const canonicalDateLayout = "02-01-2006"

// Normalize applies the per-field normalization policy before scoring.
func Normalize(field, value string) string {
	switch field {
	case models.FieldPANNumber:
		return normalizeIdentifier(value)
	case models.FieldDOB:
		return NormalizeDate(value)
	default:
		return normalizeName(value)
	}
}

// normalizeName lowercases, strips punctuation and collapses whitespace.
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalizeIdentifier strips everything but letters and digits and lowercases,
// so OCR artifacts like stray spaces or dashes never affect the score.
func normalizeIdentifier(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDate rewrites any accepted date layout to DD-MM-YYYY. Values that
// parse under no layout are returned trimmed, which makes them compare as
// plain strings rather than silently passing.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}
	return trimmed
}
