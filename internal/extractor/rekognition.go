package extractor

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
)

// RekognitionDetector implements TextDetector on AWS Rekognition DetectText.
type RekognitionDetector struct {
	client rekognitioniface.RekognitionAPI
}

func NewRekognitionDetector(client rekognitioniface.RekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{client: client}
}

// DetectText returns the LINE-level detections in the order the service
// reported them.
func (d *RekognitionDetector) DetectText(ctx context.Context, image []byte) ([]string, error) {
	out, err := d.client.DetectTextWithContext(ctx, &rekognition.DetectTextInput{
		Image: &rekognition.Image{Bytes: image},
	})
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, detection := range out.TextDetections {
		if aws.StringValue(detection.Type) != rekognition.TextTypesLine {
			continue
		}
		if text := aws.StringValue(detection.DetectedText); text != "" {
			lines = append(lines, text)
		}
	}
	return lines, nil
}
