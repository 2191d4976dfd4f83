package extractor

import (
	"context"
	"errors"
	"time"

	apperrors "go-kyc-validator/internal/errors"
	"go-kyc-validator/internal/logger"

	"github.com/sirupsen/logrus"
)

// TextDetector is the document-intelligence capability contract: given an
// encoded image, return the recognized text lines in reading order. A
// deterministic stub satisfies this in tests.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) ([]string, error)
}

// Extractor sends the identity-card image to a text detector and normalizes
// the raw lines into the canonical field set.
type Extractor struct {
	detector TextDetector
	timeout  time.Duration
}

func NewExtractor(detector TextDetector, timeout time.Duration) *Extractor {
	return &Extractor{detector: detector, timeout: timeout}
}

// Extract runs text detection with a bounded timeout and parses the result.
// A detector failure is reported, not retried: the pipeline continues with an
// empty field set so face matching is still attempted.
func (e *Extractor) Extract(ctx context.Context, image []byte) (FieldSet, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	lines, err := e.detector.DetectText(ctx, image)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return FieldSet{}, apperrors.NewTimeoutError(apperrors.CodeExtractionFailed,
				"text extraction timed out", err)
		}
		return FieldSet{}, apperrors.NewNetworkError(apperrors.CodeExtractionFailed,
			"text extraction service failed", err)
	}

	fields := ParseFields(lines)
	logger.WithFields(logrus.Fields{
		"lines":       len(lines),
		"duration_ms": time.Since(start).Milliseconds(),
		"has_pan":     fields.PANNumber != "",
		"has_name":    fields.FullName != "",
	}).Debug("Identity card text extracted")

	return fields, nil
}
