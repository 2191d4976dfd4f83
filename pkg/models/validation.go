package models

// Canonical field names for the four printed fields compared between the
// identity card and the submitted form data.
const (
	FieldFullName   = "full_name"
	FieldFatherName = "father_name"
	FieldPANNumber  = "pan_number"
	FieldDOB        = "dob"
)

// FieldOrder is the fixed order in which fields are evaluated and reported.
var FieldOrder = []string{FieldFullName, FieldFatherName, FieldPANNumber, FieldDOB}

// FormFields holds the caller-supplied form data to compare against the
// values extracted from the identity card.
type FormFields struct {
	FullName   string `json:"full_name" form:"full_name"`
	FatherName string `json:"father_name" form:"father_name"`
	PANNumber  string `json:"pan_number" form:"pan_number"`
	DOB        string `json:"dob" form:"dob"`
}

// Get returns the submitted value for a canonical field name.
func (f FormFields) Get(field string) string {
	switch field {
	case FieldFullName:
		return f.FullName
	case FieldFatherName:
		return f.FatherName
	case FieldPANNumber:
		return f.PANNumber
	case FieldDOB:
		return f.DOB
	}
	return ""
}

// Submission is one validation request: raw document bytes plus form fields.
// It is immutable once constructed and discarded after the pipeline completes.
type Submission struct {
	ApplicationID string
	Document      []byte
	Fields        FormFields
}

// FieldMatchResult reports the comparison outcome for a single field.
type FieldMatchResult struct {
	Extracted string  `json:"extracted"`
	Submitted string  `json:"submitted"`
	Score     float64 `json:"score"`
	Pass      bool    `json:"pass"`
	Skipped   bool    `json:"skipped,omitempty"`
}

// FaceMatchResult reports the face comparison outcome. Similarity is on a
// 0-100 scale regardless of what the upstream capability returned.
type FaceMatchResult struct {
	Similarity float64 `json:"similarity"`
	Pass       bool    `json:"pass"`
}

// ErrorEntry is one non-fatal issue recorded while producing a verdict.
type ErrorEntry struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metrics holds wall-clock durations for the major pipeline phases,
// in milliseconds rounded to two decimals.
type Metrics struct {
	ProcessingMS float64 `json:"processing_ms"`
	ExtractionMS float64 `json:"extraction_ms"`
	FaceMatchMS  float64 `json:"face_match_ms"`
}

// ValidationResponse is the verdict returned for a structurally valid
// submission. External consumers depend on this shape.
type ValidationResponse struct {
	ApplicationID string                      `json:"application_id"`
	FieldMatches  map[string]FieldMatchResult `json:"field_matches"`
	FieldPass     bool                        `json:"field_pass"`
	FaceMatch     FaceMatchResult             `json:"face_match"`
	OverallPass   bool                        `json:"overall_pass"`
	Errors        []ErrorEntry                `json:"errors"`
	ProcessedAt   string                      `json:"processed_at"`
	Metrics       Metrics                     `json:"metrics"`
}

// APIError is the body returned for fatal, request-rejecting failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
