package container

import (
	"fmt"
	"net/http"

	"go-kyc-validator/internal/config"
	"go-kyc-validator/internal/document"
	"go-kyc-validator/internal/extractor"
	"go-kyc-validator/internal/facematch"
	"go-kyc-validator/internal/matcher"
	"go-kyc-validator/internal/service"
	"go-kyc-validator/internal/storage"
	"go-kyc-validator/internal/transport"
	"go-kyc-validator/pkg/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	loader            *document.Loader
	textDetector      extractor.TextDetector
	faceComparer      facematch.FaceComparer
	documentFetcher   storage.DocumentFetcher
	validationService service.ValidationService
	handler           http.Handler
}

// NewContainer builds the dependency graph from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	rekognitionClient := rekognition.New(sess)

	var textDetector extractor.TextDetector
	switch cfg.OCRProvider {
	case config.OCRProviderTesseract:
		textDetector = extractor.NewTesseractDetector("eng")
	default:
		textDetector = extractor.NewRekognitionDetector(rekognitionClient)
	}
	faceComparer := facematch.NewRekognitionComparer(rekognitionClient)

	loader := document.NewLoader(cfg.MaxFileSizeMB)
	fieldExtractor := extractor.NewExtractor(textDetector, cfg.ExtractionTimeout)
	faceMatcher := facematch.NewMatcher(faceComparer, cfg.FaceSimilarityThreshold, cfg.FaceMatchTimeout)
	fieldMatcher := matcher.NewMatcher(matcherPolicy(cfg))

	validationService := service.NewValidationService(loader, fieldExtractor, faceMatcher, fieldMatcher)

	httpFetcher := storage.NewHTTPDocumentFetcher(cfg.MaxFileSizeBytes())
	var azureFetcher storage.DocumentFetcher
	if cfg.AzureStorageAccount != "" && cfg.AzureStorageKey != "" {
		azureFetcher, err = storage.NewAzureDocumentFetcher(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.MaxFileSizeBytes())
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure document fetcher: %w", err)
		}
	}
	documentFetcher := storage.NewRoutingFetcher(httpFetcher, azureFetcher)

	handler := transport.NewHandler(validationService, documentFetcher, cfg)

	return &Container{
		config:            cfg,
		loader:            loader,
		textDetector:      textDetector,
		faceComparer:      faceComparer,
		documentFetcher:   documentFetcher,
		validationService: validationService,
		handler:           handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

func matcherPolicy(cfg *config.Config) matcher.Policy {
	return matcher.Policy{
		DefaultThreshold: cfg.TextSimilarityThreshold,
		FieldThresholds: map[string]float64{
			models.FieldFullName:   cfg.ThresholdFor(models.FieldFullName),
			models.FieldFatherName: cfg.ThresholdFor(models.FieldFatherName),
			models.FieldPANNumber:  cfg.ThresholdFor(models.FieldPANNumber),
			models.FieldDOB:        cfg.ThresholdFor(models.FieldDOB),
		},
	}
}
