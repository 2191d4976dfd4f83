package matcher

import (
	"testing"

	"go-kyc-validator/pkg/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		extracted string
		submitted string
		minScore  float64
		maxScore  float64
	}{
		{
			name:      "Identical names score 100",
			field:     models.FieldFullName,
			extracted: "JANE DOE",
			submitted: "JANE DOE",
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "Equal after normalization scores 100",
			field:     models.FieldFullName,
			extracted: "  Jane   DOE. ",
			submitted: "jane doe",
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "Reordered tokens stay above default threshold",
			field:     models.FieldFullName,
			extracted: "Doe Jane",
			submitted: "Jane Doe",
			minScore:  80,
			maxScore:  100,
		},
		{
			name:      "Single OCR substitution stays high",
			field:     models.FieldFullName,
			extracted: "JANE DQE",
			submitted: "JANE DOE",
			minScore:  80,
			maxScore:  99,
		},
		{
			name:      "Genuinely different names score low",
			field:     models.FieldFullName,
			extracted: "RAHUL KUMAR",
			submitted: "PRIYA SHARMA",
			minScore:  0,
			maxScore:  60,
		},
		{
			name:      "Empty extracted value scores 0",
			field:     models.FieldFullName,
			extracted: "",
			submitted: "Jane Doe",
			minScore:  0,
			maxScore:  0,
		},
		{
			name:      "Identifier with one substitution scores 90",
			field:     models.FieldPANNumber,
			extracted: "ABCDE1234X",
			submitted: "ABCDE1234F",
			minScore:  90,
			maxScore:  90,
		},
		{
			name:      "Identifier ignores spacing and case",
			field:     models.FieldPANNumber,
			extracted: "abcde 1234-f",
			submitted: "ABCDE1234F",
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "Date formats canonicalize before comparison",
			field:     models.FieldDOB,
			extracted: "15/08/1990",
			submitted: "15-08-1990",
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "ISO date matches day-first submission",
			field:     models.FieldDOB,
			extracted: "1990-08-15",
			submitted: "15/08/1990",
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "Name embedded in OCR noise matches via partial ratio",
			field:     models.FieldFullName,
			extracted: "NAME JANE DOE GOVT OF INDIA",
			submitted: "Jane Doe",
			minScore:  80,
			maxScore:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.field, tt.extracted, tt.submitted)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("Score(%q, %q, %q) = %v, want within [%v, %v]",
					tt.field, tt.extracted, tt.submitted, score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	first := Score(models.FieldFullName, "Jane Doe", "Doe Jane")
	for i := 0; i < 10; i++ {
		if got := Score(models.FieldFullName, "Jane Doe", "Doe Jane"); got != first {
			t.Fatalf("score changed between invocations: %v vs %v", got, first)
		}
	}
}

func TestMatchFields(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	extracted := map[string]string{
		models.FieldFullName:   "JANE DOE",
		models.FieldFatherName: "JOHN DOE",
		models.FieldPANNumber:  "ABCDE1234F",
		models.FieldDOB:        "15-08-1990",
	}
	submitted := models.FormFields{
		FullName:   "Jane Doe",
		FatherName: "John Doe",
		PANNumber:  "ABCDE1234F",
		DOB:        "15/08/1990",
	}

	results, fieldPass := m.MatchFields(extracted, submitted)
	if !fieldPass {
		t.Fatalf("expected field_pass=true, got false: %+v", results)
	}
	for _, field := range models.FieldOrder {
		r := results[field]
		if r.Score != 100 || !r.Pass || r.Skipped {
			t.Errorf("field %s: got %+v, want score=100 pass=true", field, r)
		}
	}
}

func TestMatchFieldsIdentifierMismatchOnly(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	extracted := map[string]string{
		models.FieldFullName:   "JANE DOE",
		models.FieldFatherName: "JOHN DOE",
		models.FieldPANNumber:  "ABCDE1234X",
		models.FieldDOB:        "15-08-1990",
	}
	submitted := models.FormFields{
		FullName:   "Jane Doe",
		FatherName: "John Doe",
		PANNumber:  "ABCDE1234F",
		DOB:        "15-08-1990",
	}

	results, fieldPass := m.MatchFields(extracted, submitted)
	if fieldPass {
		t.Fatal("expected field_pass=false on identifier mismatch")
	}
	if results[models.FieldPANNumber].Pass {
		t.Errorf("pan_number should fail: %+v", results[models.FieldPANNumber])
	}
	if results[models.FieldPANNumber].Score >= DefaultPolicy().ThresholdFor(models.FieldPANNumber) {
		t.Errorf("pan_number score %v should be below threshold", results[models.FieldPANNumber].Score)
	}
	for _, field := range []string{models.FieldFullName, models.FieldFatherName, models.FieldDOB} {
		if !results[field].Pass {
			t.Errorf("field %s unexpectedly failed: %+v", field, results[field])
		}
	}

	entries := MismatchErrors(results)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one mismatch entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Code != "PAN_NUMBER_MISMATCH" {
		t.Errorf("unexpected code %q", entries[0].Code)
	}
}

func TestMatchFieldsSkipsEmptySubmitted(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	extracted := map[string]string{
		models.FieldFullName:  "JANE DOE",
		models.FieldPANNumber: "ABCDE1234F",
	}
	submitted := models.FormFields{
		FullName:  "Jane Doe",
		PANNumber: "ABCDE1234F",
		// father_name and dob deliberately empty
	}

	results, fieldPass := m.MatchFields(extracted, submitted)
	if !fieldPass {
		t.Fatalf("skipped fields must not fail the conjunction: %+v", results)
	}
	for _, field := range []string{models.FieldFatherName, models.FieldDOB} {
		r := results[field]
		if !r.Skipped || r.Score != 0 || r.Pass {
			t.Errorf("field %s: got %+v, want skipped with score 0", field, r)
		}
	}
	if entries := MismatchErrors(results); len(entries) != 0 {
		t.Errorf("skipped fields must not produce mismatch entries: %+v", entries)
	}
}

func TestMatchFieldsEmptyExtractedNeverPasses(t *testing.T) {
	m := NewMatcher(Policy{DefaultThreshold: 1})

	results, fieldPass := m.MatchFields(map[string]string{}, models.FormFields{
		FullName:   "Jane Doe",
		FatherName: "John Doe",
		PANNumber:  "ABCDE1234F",
		DOB:        "15-08-1990",
	})
	if fieldPass {
		t.Fatal("empty extraction must never pass")
	}
	for _, field := range models.FieldOrder {
		if results[field].Score != 0 || results[field].Pass {
			t.Errorf("field %s: got %+v, want score 0 and pass=false", field, results[field])
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15/08/1990", "15-08-1990"},
		{"15-08-1990", "15-08-1990"},
		{"1990-08-15", "15-08-1990"},
		{"15.08.1990", "15-08-1990"},
		{"  15/08/1990 ", "15-08-1990"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
