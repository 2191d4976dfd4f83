package facematch

import (
	"context"
	"errors"
	"time"

	apperrors "go-kyc-validator/internal/errors"
	"go-kyc-validator/internal/logger"
	"go-kyc-validator/pkg/models"

	"github.com/sirupsen/logrus"
)

// ErrNoFaceDetected is returned by a FaceComparer when the capability could
// not find a usable face in either image.
var ErrNoFaceDetected = errors.New("no face detected in one or both images")

// FaceComparer is the face-comparison capability contract: given two encoded
// face images, return a similarity score on a 0-100 scale. Implementations
// must return ErrNoFaceDetected (possibly wrapped) when no face is found.
type FaceComparer interface {
	CompareFaces(ctx context.Context, source, target []byte) (float64, error)
}

// Matcher interprets capability scores against the configured threshold.
type Matcher struct {
	comparer  FaceComparer
	threshold float64 // 0-1 scale, compared against similarity/100
	timeout   time.Duration
}

// NewMatcher creates a face matcher. threshold is on a 0-1 scale.
func NewMatcher(comparer FaceComparer, threshold float64, timeout time.Duration) *Matcher {
	return &Matcher{comparer: comparer, threshold: threshold, timeout: timeout}
}

// Match compares the identity-card image against the selfie with a bounded
// timeout and at most one retry on transient failure. Failures are non-fatal:
// the result carries similarity 0 and pass=false alongside the error so the
// pipeline can record it and still produce a verdict.
func (m *Matcher) Match(ctx context.Context, idCard, selfie []byte) (models.FaceMatchResult, error) {
	similarity, err := m.compareOnce(ctx, idCard, selfie)
	if err != nil && isTransient(err) {
		logger.WithError(err).Warn("Face comparison failed, retrying once")
		similarity, err = m.compareOnce(ctx, idCard, selfie)
	}

	if err != nil {
		result := models.FaceMatchResult{Similarity: 0, Pass: false}
		switch {
		case errors.Is(err, ErrNoFaceDetected):
			return result, apperrors.NewProcessingError(apperrors.CodeNoFaceDetected,
				"no face detected in identity card or selfie", err)
		case errors.Is(err, context.DeadlineExceeded):
			return result, apperrors.NewTimeoutError(apperrors.CodeFaceMatchFailed,
				"face comparison timed out", err)
		default:
			return result, apperrors.NewNetworkError(apperrors.CodeFaceMatchFailed,
				"face comparison service failed", err)
		}
	}

	pass := similarity >= m.threshold*100
	logger.WithFields(logrus.Fields{
		"similarity": similarity,
		"threshold":  m.threshold * 100,
		"pass":       pass,
	}).Debug("Face comparison scored")

	return models.FaceMatchResult{Similarity: similarity, Pass: pass}, nil
}

func (m *Matcher) compareOnce(ctx context.Context, idCard, selfie []byte) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.comparer.CompareFaces(ctx, idCard, selfie)
}

// isTransient reports whether a comparison error is worth one retry. A
// missing face is a property of the input, not of the transport.
func isTransient(err error) bool {
	if errors.Is(err, ErrNoFaceDetected) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
