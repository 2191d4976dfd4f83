package extractor

import (
	"testing"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  FieldSet
	}{
		{
			name: "Standard card layout with labels on separate lines",
			lines: []string{
				"INCOME TAX DEPARTMENT",
				"GOVT. OF INDIA",
				"Name",
				"JANE DOE",
				"Father's Name",
				"JOHN DOE",
				"Date of Birth",
				"15/08/1990",
				"Permanent Account Number",
				"ABCDE1234F",
			},
			want: FieldSet{
				FullName:   "JANE DOE",
				FatherName: "JOHN DOE",
				PANNumber:  "ABCDE1234F",
				DOB:        "15-08-1990",
			},
		},
		{
			name: "Labels and values on the same line",
			lines: []string{
				"Name: JANE DOE",
				"Father's Name: JOHN DOE",
				"Date of Birth: 15-08-1990",
				"ABCDE1234F",
			},
			want: FieldSet{
				FullName:   "JANE DOE",
				FatherName: "JOHN DOE",
				PANNumber:  "ABCDE1234F",
				DOB:        "15-08-1990",
			},
		},
		{
			name: "Name label does not match inside Father's Name",
			lines: []string{
				"Father's Name",
				"JOHN DOE",
				"ABCDE1234F",
			},
			want: FieldSet{
				FatherName: "JOHN DOE",
				PANNumber:  "ABCDE1234F",
			},
		},
		{
			name: "Bare date without label still extracted",
			lines: []string{
				"Name",
				"JANE DOE",
				"15.08.1990",
			},
			want: FieldSet{
				FullName: "JANE DOE",
				DOB:      "15-08-1990",
			},
		},
		{
			name: "Curly apostrophe in father label",
			lines: []string{
				"Father’s Name",
				"JOHN DOE",
			},
			want: FieldSet{
				FatherName: "JOHN DOE",
			},
		},
		{
			name: "Lowercase identifier is not a PAN",
			lines: []string{
				"abcde1234f",
			},
			want: FieldSet{},
		},
		{
			name:  "Nothing recognized yields empty fields",
			lines: []string{"completely unrelated text", "no structure here"},
			want:  FieldSet{},
		},
		{
			name:  "No lines at all",
			lines: nil,
			want:  FieldSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFields(tt.lines)
			if got != tt.want {
				t.Errorf("ParseFields() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFieldSetAsMap(t *testing.T) {
	fs := FieldSet{
		FullName:  "JANE DOE",
		PANNumber: "ABCDE1234F",
	}
	m := fs.AsMap()
	if len(m) != 4 {
		t.Fatalf("AsMap() has %d keys, want all 4 canonical fields", len(m))
	}
	if m["full_name"] != "JANE DOE" || m["pan_number"] != "ABCDE1234F" {
		t.Errorf("AsMap() = %+v", m)
	}
	if m["father_name"] != "" || m["dob"] != "" {
		t.Errorf("absent fields must map to empty strings: %+v", m)
	}
}
