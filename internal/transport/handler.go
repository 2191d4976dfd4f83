package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-kyc-validator/internal/config"
	apperrors "go-kyc-validator/internal/errors"
	"go-kyc-validator/internal/logger"
	"go-kyc-validator/internal/service"
	"go-kyc-validator/internal/storage"
	"go-kyc-validator/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const serviceVersion = "1.0.0"

// ByReferenceRequest is the JSON body of the by-reference endpoint.
type ByReferenceRequest struct {
	DocumentURL   string `json:"document_url" binding:"required"`
	ApplicationID string `json:"application_id"`
	models.FormFields
}

// NewHandler configures the HTTP routes around the validation service.
func NewHandler(validator service.ValidationService, fetcher storage.DocumentFetcher, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestTimer(),
		requestSizeLimiter(cfg.MaxFileSizeBytes()+1<<20), // headroom for multipart framing
	)

	r.GET("/health", healthCheck)
	r.POST("/v1/validate-application", validateApplication(validator, cfg))
	r.POST("/v1/validate-application/by-reference", validateByReference(validator, fetcher, cfg))

	return r
}

func validateApplication(validator service.ValidationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart field 'file' is required", err)
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to open uploaded file", err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read uploaded file", err)
			return
		}

		sub := models.Submission{
			ApplicationID: applicationID(c),
			Document:      data,
			Fields: models.FormFields{
				FullName:   c.PostForm("full_name"),
				FatherName: c.PostForm("father_name"),
				PANNumber:  c.PostForm("pan_number"),
				DOB:        c.PostForm("dob"),
			},
		}

		runPipeline(c, ctx, validator, sub)
	}
}

func validateByReference(validator service.ValidationService, fetcher storage.DocumentFetcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req ByReferenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
			return
		}
		if err := validateDocumentURL(req.DocumentURL); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document URL", err)
			return
		}

		data, err := fetcher.FetchDocument(ctx, req.DocumentURL)
		if err != nil {
			respondError(c, http.StatusBadGateway, "DOCUMENT_FETCH_FAILED", "failed to fetch document", err)
			return
		}

		sub := models.Submission{
			ApplicationID: req.ApplicationID,
			Document:      data,
			Fields:        req.FormFields,
		}

		runPipeline(c, ctx, validator, sub)
	}
}

func runPipeline(c *gin.Context, ctx context.Context, validator service.ValidationService, sub models.Submission) {
	response, err := validator.ValidateApplication(ctx, sub)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), apperrors.GetCode(err), errorMessage(err), err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"service": "kyc-validator",
		"version": serviceVersion,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func validateDocumentURL(documentURL string) error {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return apperrors.NewValidationError("INVALID_REQUEST", "invalid URL format", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewValidationError("INVALID_REQUEST", "URL scheme must be http or https", nil)
	}
	if parsed.Host == "" {
		return apperrors.NewValidationError("INVALID_REQUEST", "URL must have a valid host", nil)
	}
	return nil
}

// applicationID honors the caller-supplied identifier; query takes precedence
// over the form field.
func applicationID(c *gin.Context) string {
	if id := c.Query("application_id"); id != "" {
		return id
	}
	return c.PostForm("application_id")
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestTimer() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        c.Writer.Status(),
			"total_time_ms": float64(time.Since(start).Microseconds()) / 1000,
		}).Info("Request completed")
	}
}

func errorMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return err.Error()
}

func respondError(c *gin.Context, status int, code, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": status,
		"code":        code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(status, models.APIError{
		Code:    code,
		Message: message,
	})
}
