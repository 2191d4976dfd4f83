package facematch

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
)

type fakeRekognition struct {
	rekognitioniface.RekognitionAPI
	output *rekognition.CompareFacesOutput
	err    error
	input  *rekognition.CompareFacesInput
}

func (f *fakeRekognition) CompareFacesWithContext(ctx aws.Context, input *rekognition.CompareFacesInput, opts ...request.Option) (*rekognition.CompareFacesOutput, error) {
	f.input = input
	return f.output, f.err
}

func TestRekognitionComparerBestMatch(t *testing.T) {
	client := &fakeRekognition{output: &rekognition.CompareFacesOutput{
		FaceMatches: []*rekognition.CompareFacesMatch{
			{Similarity: aws.Float64(71.5)},
			{Similarity: aws.Float64(94.2)},
		},
	}}
	c := NewRekognitionComparer(client)

	similarity, err := c.CompareFaces(context.Background(), []byte("src"), []byte("dst"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if similarity != 94.2 {
		t.Errorf("similarity = %v, want best match 94.2", similarity)
	}
	if got := aws.Float64Value(client.input.SimilarityThreshold); got != 0 {
		t.Errorf("request threshold = %v, want 0 so weak matches are reported", got)
	}
}

func TestRekognitionComparerNoFaceInSource(t *testing.T) {
	client := &fakeRekognition{err: awserr.New(
		rekognition.ErrCodeInvalidParameterException,
		"Request has invalid parameters", nil)}
	c := NewRekognitionComparer(client)

	_, err := c.CompareFaces(context.Background(), []byte("src"), []byte("dst"))
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("err = %v, want ErrNoFaceDetected", err)
	}
}

func TestRekognitionComparerNoFacesAtAll(t *testing.T) {
	client := &fakeRekognition{output: &rekognition.CompareFacesOutput{}}
	c := NewRekognitionComparer(client)

	_, err := c.CompareFaces(context.Background(), []byte("src"), []byte("dst"))
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("err = %v, want ErrNoFaceDetected", err)
	}
}

func TestRekognitionComparerFaceFoundButUnmatched(t *testing.T) {
	client := &fakeRekognition{output: &rekognition.CompareFacesOutput{
		UnmatchedFaces: []*rekognition.ComparedFace{{}},
	}}
	c := NewRekognitionComparer(client)

	similarity, err := c.CompareFaces(context.Background(), []byte("src"), []byte("dst"))
	if err != nil {
		t.Fatalf("a detected-but-unmatched face is a zero score, not an error: %v", err)
	}
	if similarity != 0 {
		t.Errorf("similarity = %v, want 0", similarity)
	}
}

func TestRekognitionComparerTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	client := &fakeRekognition{err: boom}
	c := NewRekognitionComparer(client)

	_, err := c.CompareFaces(context.Background(), []byte("src"), []byte("dst"))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want passthrough of transport error", err)
	}
	if errors.Is(err, ErrNoFaceDetected) {
		t.Error("transport error must not be mapped to ErrNoFaceDetected")
	}
}
