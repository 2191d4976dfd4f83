package facematch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
)

// RekognitionComparer implements FaceComparer on AWS Rekognition CompareFaces.
type RekognitionComparer struct {
	client rekognitioniface.RekognitionAPI
}

func NewRekognitionComparer(client rekognitioniface.RekognitionAPI) *RekognitionComparer {
	return &RekognitionComparer{client: client}
}

// CompareFaces returns the best match similarity on Rekognition's native
// 0-100 scale. The request threshold is 0 so weak matches are still reported
// with their score rather than filtered server-side.
func (c *RekognitionComparer) CompareFaces(ctx context.Context, source, target []byte) (float64, error) {
	out, err := c.client.CompareFacesWithContext(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &rekognition.Image{Bytes: source},
		TargetImage:         &rekognition.Image{Bytes: target},
		SimilarityThreshold: aws.Float64(0),
	})
	if err != nil {
		// Rekognition rejects the request outright when the source image has
		// no detectable face.
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == rekognition.ErrCodeInvalidParameterException {
			return 0, fmt.Errorf("%w: %v", ErrNoFaceDetected, err)
		}
		return 0, err
	}

	if len(out.FaceMatches) == 0 {
		if len(out.UnmatchedFaces) == 0 {
			return 0, ErrNoFaceDetected
		}
		return 0, nil
	}

	best := 0.0
	for _, match := range out.FaceMatches {
		if s := aws.Float64Value(match.Similarity); s > best {
			best = s
		}
	}
	return best, nil
}
