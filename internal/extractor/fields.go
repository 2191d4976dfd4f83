package extractor

import (
	"regexp"
	"strings"

	"go-kyc-validator/internal/matcher"
	"go-kyc-validator/pkg/models"
)

// FieldSet maps the four canonical identity-card fields to their extracted
// raw values. A field the detector could not locate is an empty string, which
// scores 0 downstream instead of aborting the pipeline.
type FieldSet struct {
	FullName   string
	FatherName string
	PANNumber  string
	DOB        string
}

// AsMap returns the field set keyed by canonical field name.
func (f FieldSet) AsMap() map[string]string {
	return map[string]string{
		models.FieldFullName:   f.FullName,
		models.FieldFatherName: f.FatherName,
		models.FieldPANNumber:  f.PANNumber,
		models.FieldDOB:        f.DOB,
	}
}

// Label-proximity heuristics for the PAN card layout. OCR emits the label and
// the value as separate lines, so each value pattern tolerates a line break
// after its label. The name pattern anchors at line start so it cannot match
// inside "Father's Name".
var (
	panPattern        = regexp.MustCompile(`\b([A-Z]{5}[0-9]{4}[A-Z])\b`)
	namePattern       = regexp.MustCompile(`(?im)^\s*name\s*[:\-]?\s*\n?\s*([A-Z][A-Z .]{2,})`)
	fatherNamePattern = regexp.MustCompile(`(?i)father['’]?s?\s+name\s*[:\-]?\s*\n?\s*([A-Z][A-Z .]{2,})`)
	dobPattern        = regexp.MustCompile(`(?is)date\s*of\s*birth.*?([0-9]{2}[/.-][0-9]{2}[/.-][0-9]{4})`)
	bareDatePattern   = regexp.MustCompile(`\b([0-9]{2}[/.-][0-9]{2}[/.-][0-9]{4})\b`)
)

// ParseFields maps raw OCR lines onto the canonical field set using
// deterministic label-proximity heuristics. Dates are canonicalized to
// DD-MM-YYYY before comparison.
func ParseFields(lines []string) FieldSet {
	text := strings.Join(lines, "\n")

	var fields FieldSet
	if m := panPattern.FindStringSubmatch(text); m != nil {
		fields.PANNumber = strings.TrimSpace(m[1])
	}
	if m := fatherNamePattern.FindStringSubmatch(text); m != nil {
		fields.FatherName = firstLine(m[1])
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		fields.FullName = firstLine(m[1])
	}
	fields.DOB = extractDOB(text)

	return fields
}

func extractDOB(text string) string {
	raw := ""
	if m := dobPattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := bareDatePattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	}
	if raw == "" {
		return ""
	}
	return matcher.NormalizeDate(raw)
}

// firstLine trims the captured value to its own line; a greedy character
// class may otherwise run into the next OCR line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
