package service

import (
	"context"
	"math"
	"time"

	"go-kyc-validator/internal/document"
	apperrors "go-kyc-validator/internal/errors"
	"go-kyc-validator/internal/extractor"
	"go-kyc-validator/internal/facematch"
	"go-kyc-validator/internal/imaging"
	"go-kyc-validator/internal/logger"
	"go-kyc-validator/internal/matcher"
	"go-kyc-validator/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ValidationService runs the full validation pipeline for one submission.
type ValidationService interface {
	ValidateApplication(ctx context.Context, sub models.Submission) (*models.ValidationResponse, error)
}

// DocumentLoader validates raw bytes and produces role-tagged pages.
type DocumentLoader interface {
	Load(data []byte) (*document.Document, error)
}

type validationService struct {
	loader       DocumentLoader
	extractor    *extractor.Extractor
	faceMatcher  *facematch.Matcher
	fieldMatcher *matcher.Matcher
}

// NewValidationService wires the pipeline stages together.
func NewValidationService(
	loader DocumentLoader,
	fieldExtractor *extractor.Extractor,
	faceMatcher *facematch.Matcher,
	fieldMatcher *matcher.Matcher,
) ValidationService {
	return &validationService{
		loader:       loader,
		extractor:    fieldExtractor,
		faceMatcher:  faceMatcher,
		fieldMatcher: fieldMatcher,
	}
}

// ValidateApplication loads and shape-checks the document, then runs the
// field-extraction and face-match branches concurrently and joins them into
// one verdict. Structural failures return a fatal error before any external
// capability is called; capability failures degrade the verdict instead of
// aborting it.
func (s *validationService) ValidateApplication(ctx context.Context, sub models.Submission) (*models.ValidationResponse, error) {
	start := time.Now()
	applicationID := sub.ApplicationID
	if applicationID == "" {
		applicationID = "APP-" + uuid.NewString()[:8]
	}

	log := logger.WithFields(logrus.Fields{"application_id": applicationID})
	log.Info("Processing validation request")

	doc, err := s.loader.Load(sub.Document)
	if err != nil {
		return nil, err
	}

	idCardBytes, err := imaging.PrepareForAnalysis(doc.IdentityCard())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to prepare identity card image", err)
	}
	selfieBytes, err := imaging.PrepareForAnalysis(doc.Selfie())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to prepare selfie image", err)
	}

	if idCard := doc.IdentityCard(); idCard.Image != nil {
		report := imaging.Inspect(idCard.Image)
		log.WithFields(logrus.Fields{
			"laplacian_var": report.LaplacianVar,
			"avg_luminance": report.AvgLuminance,
			"blurry":        report.Blurry,
		}).Debug("Identity card image quality")
	}

	// The two branches depend only on the loaded pages, never on each other.
	// Running them concurrently is a latency optimization; branch failures
	// are captured locally and never cancel the sibling.
	var (
		fields       extractor.FieldSet
		extractErr   error
		extractionMS float64
		faceResult   models.FaceMatchResult
		faceErr      error
		faceMatchMS  float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		fields, extractErr = s.extractor.Extract(gctx, idCardBytes)
		extractionMS = durationMS(t)
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		faceResult, faceErr = s.faceMatcher.Match(gctx, idCardBytes, selfieBytes)
		faceMatchMS = durationMS(t)
		return nil
	})
	g.Wait() //nolint:errcheck // branches always return nil

	fieldResults, fieldPass := s.fieldMatcher.MatchFields(fields.AsMap(), sub.Fields)

	var errorList []models.ErrorEntry
	if extractErr != nil {
		log.WithError(extractErr).Warn("Field extraction degraded")
		errorList = append(errorList, errorEntry(extractErr))
	}
	if faceErr != nil {
		log.WithError(faceErr).Warn("Face match degraded")
		errorList = append(errorList, errorEntry(faceErr))
	}
	errorList = append(errorList, matcher.MismatchErrors(fieldResults)...)
	if errorList == nil {
		errorList = []models.ErrorEntry{}
	}

	overallPass := fieldPass && faceResult.Pass

	response := &models.ValidationResponse{
		ApplicationID: applicationID,
		FieldMatches:  fieldResults,
		FieldPass:     fieldPass,
		FaceMatch:     faceResult,
		OverallPass:   overallPass,
		Errors:        errorList,
		ProcessedAt:   time.Now().UTC().Format(time.RFC3339),
		Metrics: models.Metrics{
			ProcessingMS: durationMS(start),
			ExtractionMS: extractionMS,
			FaceMatchMS:  faceMatchMS,
		},
	}

	log.WithFields(logrus.Fields{
		"field_pass":    fieldPass,
		"face_pass":     faceResult.Pass,
		"overall_pass":  overallPass,
		"error_count":   len(errorList),
		"processing_ms": response.Metrics.ProcessingMS,
	}).Info("Validation completed")

	return response, nil
}

func errorEntry(err error) models.ErrorEntry {
	entry := models.ErrorEntry{
		Code:    apperrors.GetCode(err),
		Message: err.Error(),
	}
	if appErr, ok := err.(*apperrors.AppError); ok {
		entry.Message = appErr.Message
	}
	return entry
}

func durationMS(since time.Time) float64 {
	return math.Round(time.Since(since).Seconds()*1000*100) / 100
}
