package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// OCR provider selection for the document-intelligence capability.
const (
	OCRProviderRekognition = "rekognition"
	OCRProviderTesseract   = "tesseract"
)

type Config struct {
	Host              string
	Port              string
	RequestTimeout    time.Duration
	ExtractionTimeout time.Duration
	FaceMatchTimeout  time.Duration

	// Document shape limits.
	MaxFileSizeMB int64

	// Matching policy. TextSimilarityThreshold is the global default on a
	// 0-100 scale; FieldThresholds carries per-field overrides.
	// FaceSimilarityThreshold is configured on a 0-1 scale.
	TextSimilarityThreshold float64
	FieldThresholds         map[string]float64
	FaceSimilarityThreshold float64

	// External capability selection.
	AWSRegion   string
	OCRProvider string

	// Optional blob source for the by-reference endpoint.
	AzureStorageAccount string
	AzureStorageKey     string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// MaxFileSizeBytes returns the document size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// ThresholdFor returns the pass threshold for a field, falling back to the
// global text-similarity threshold when no override exists.
func (c *Config) ThresholdFor(field string) float64 {
	if t, ok := c.FieldThresholds[field]; ok {
		return t
	}
	return c.TextSimilarityThreshold
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:              getEnvOrDefault("HOST", "0.0.0.0"),
		Port:              getEnvOrDefault("PORT", "8080"),
		RequestTimeout:    parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ExtractionTimeout: parseDurationOrDefault("EXTRACTION_TIMEOUT", 15*time.Second),
		FaceMatchTimeout:  parseDurationOrDefault("FACE_MATCH_TIMEOUT", 15*time.Second),

		MaxFileSizeMB: parseIntOrDefault("MAX_FILE_SIZE_MB", 10),

		TextSimilarityThreshold: parseFloatOrDefault("TEXT_SIMILARITY_THRESHOLD", 80),
		FaceSimilarityThreshold: parseFloatOrDefault("FACE_SIMILARITY_THRESHOLD", 0.7),

		AWSRegion:   getEnvOrDefault("AWS_REGION", "us-east-1"),
		OCRProvider: getEnvOrDefault("OCR_PROVIDER", OCRProviderRekognition),

		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
	}

	// Identifier and date fields default to near-exact matching; name fields
	// inherit the global threshold.
	cfg.FieldThresholds = map[string]float64{
		"pan_number": parseFloatOrDefault("PAN_NUMBER_SIMILARITY_THRESHOLD", 95),
		"dob":        parseFloatOrDefault("DOB_SIMILARITY_THRESHOLD", 95),
	}
	if v, ok := lookupFloat("FULL_NAME_SIMILARITY_THRESHOLD"); ok {
		cfg.FieldThresholds["full_name"] = v
	}
	if v, ok := lookupFloat("FATHER_NAME_SIMILARITY_THRESHOLD"); ok {
		cfg.FieldThresholds["father_name"] = v
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE_MB must be > 0 (got %d)", cfg.MaxFileSizeMB)
	}
	if cfg.RequestTimeout <= 0 || cfg.ExtractionTimeout <= 0 || cfg.FaceMatchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, extraction=%s, face=%s)",
			cfg.RequestTimeout, cfg.ExtractionTimeout, cfg.FaceMatchTimeout)
	}
	if cfg.TextSimilarityThreshold < 0 || cfg.TextSimilarityThreshold > 100 {
		return nil, fmt.Errorf("TEXT_SIMILARITY_THRESHOLD must be within [0,100] (got %v)", cfg.TextSimilarityThreshold)
	}
	if cfg.FaceSimilarityThreshold < 0 || cfg.FaceSimilarityThreshold > 1 {
		return nil, fmt.Errorf("FACE_SIMILARITY_THRESHOLD must be within [0,1] (got %v)", cfg.FaceSimilarityThreshold)
	}
	if cfg.OCRProvider != OCRProviderRekognition && cfg.OCRProvider != OCRProviderTesseract {
		return nil, fmt.Errorf("unknown OCR_PROVIDER: %q", cfg.OCRProvider)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if v, ok := lookupFloat(key); ok {
		return v
	}
	return defaultValue
}

func lookupFloat(key string) (float64, bool) {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
