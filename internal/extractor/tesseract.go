package extractor

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractDetector implements TextDetector on a local Tesseract install via
// gosseract, for deployments that cannot reach a cloud capability. A client
// is created per call: gosseract clients are not safe for concurrent use.
type TesseractDetector struct {
	language string
}

func NewTesseractDetector(language string) *TesseractDetector {
	if language == "" {
		language = "eng"
	}
	return &TesseractDetector{language: language}
}

func (d *TesseractDetector) DetectText(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.language); err != nil {
		return nil, err
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, err
	}

	text, err := client.Text()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}
