package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go-kyc-validator/internal/logger"
	"go-kyc-validator/pkg/models"

	"github.com/arbovm/levenshtein"
	"github.com/sirupsen/logrus"
)

// Policy determines the pass threshold per field. Behavior of the matcher is
// fully defined by its inputs plus this structure.
type Policy struct {
	DefaultThreshold float64
	FieldThresholds  map[string]float64
}

// ThresholdFor returns the pass threshold for a field.
func (p Policy) ThresholdFor(field string) float64 {
	if t, ok := p.FieldThresholds[field]; ok {
		return t
	}
	return p.DefaultThreshold
}

// DefaultPolicy matches the production defaults: names tolerate OCR fuzz at
// 80, identifier and date fields require near-exact agreement.
func DefaultPolicy() Policy {
	return Policy{
		DefaultThreshold: 80,
		FieldThresholds: map[string]float64{
			models.FieldPANNumber: 95,
			models.FieldDOB:       95,
		},
	}
}

// Matcher compares extracted identity-card fields against submitted form
// fields using fuzzy string similarity.
type Matcher struct {
	policy Policy
}

func NewMatcher(policy Policy) *Matcher {
	if policy.DefaultThreshold == 0 && policy.FieldThresholds == nil {
		policy = DefaultPolicy()
	}
	return &Matcher{policy: policy}
}

// MatchFields scores every expected field and reports whether all included
// fields passed. Fields with an empty submitted value are recorded as skipped
// and excluded from the pass conjunction; fields with an empty extracted value
// score 0 regardless of the submitted value.
func (m *Matcher) MatchFields(extracted map[string]string, submitted models.FormFields) (map[string]models.FieldMatchResult, bool) {
	results := make(map[string]models.FieldMatchResult, len(models.FieldOrder))
	fieldPass := true

	for _, field := range models.FieldOrder {
		ext := extracted[field]
		sub := submitted.Get(field)

		if strings.TrimSpace(sub) == "" {
			results[field] = models.FieldMatchResult{
				Extracted: ext,
				Submitted: sub,
				Score:     0,
				Pass:      false,
				Skipped:   true,
			}
			continue
		}

		score := Score(field, ext, sub)
		threshold := m.policy.ThresholdFor(field)
		pass := score >= threshold

		logger.WithFields(logrus.Fields{
			"field":     field,
			"score":     score,
			"threshold": threshold,
			"pass":      pass,
		}).Debug("Field comparison scored")

		results[field] = models.FieldMatchResult{
			Extracted: ext,
			Submitted: sub,
			Score:     score,
			Pass:      pass,
		}
		if !pass {
			fieldPass = false
		}
	}

	return results, fieldPass
}

// MismatchErrors returns one error entry per included failing field, in fixed
// field order.
func MismatchErrors(results map[string]models.FieldMatchResult) []models.ErrorEntry {
	var entries []models.ErrorEntry
	for _, field := range models.FieldOrder {
		r, ok := results[field]
		if !ok || r.Skipped || r.Pass {
			continue
		}
		entries = append(entries, models.ErrorEntry{
			Code:    strings.ToUpper(field) + "_MISMATCH",
			Message: fmt.Sprintf("%s differs between submitted form data and identity card", strings.ToUpper(strings.ReplaceAll(field, "_", " "))),
		})
	}
	return entries
}

// Score computes a 0-100 similarity between an extracted and a submitted
// value under the field's normalization policy. Name fields use the best of
// plain, token-sort and partial ratios so reordered tokens and minor OCR
// noise still score highly; identifier and date fields use the plain ratio.
func Score(field, extracted, submitted string) float64 {
	ext := Normalize(field, extracted)
	sub := Normalize(field, submitted)

	// Cannot assert a match against nothing.
	if ext == "" || sub == "" {
		return 0
	}
	if ext == sub {
		return 100
	}

	switch field {
	case models.FieldFullName, models.FieldFatherName:
		return max3(ratio(ext, sub), tokenSortRatio(ext, sub), partialRatio(ext, sub))
	default:
		return ratio(ext, sub)
	}
}

// ratio is a Levenshtein-based similarity on a 0-100 scale.
func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.Distance(a, b)
	if d > longest {
		d = longest
	}
	return round2((1 - float64(d)/float64(longest)) * 100)
}

// tokenSortRatio compares the strings with their tokens sorted, making the
// score invariant under token reordering.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

// partialRatio slides the shorter string across the longer one and returns
// the best window ratio, so a value embedded in surrounding OCR text still
// matches.
func partialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return ratio(string(shorter), string(longer))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if r := ratio(string(shorter), window); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
