package rekognition

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekogtypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type fakeRekognition struct {
	input  *awsrekognition.DetectLabelsInput
	labels []rekogtypes.Label
	err    error
}

func (f *fakeRekognition) DetectLabels(ctx context.Context, params *awsrekognition.DetectLabelsInput, optFns ...func(*awsrekognition.Options)) (*awsrekognition.DetectLabelsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &awsrekognition.DetectLabelsOutput{Labels: f.labels}, nil
}

func float32Ptr(v float32) *float32 { return &v }

func TestDetectLabelsReferencesUploadedObject(t *testing.T) {
	t.Parallel()

	fake := &fakeRekognition{}
	client := NewWithClient(fake, "bucket", "rekognition-input/")

	if _, err := client.DetectLabels(context.Background(), "cat.png"); err != nil {
		t.Fatalf("detect labels: %v", err)
	}

	s3Object := fake.input.Image.S3Object
	if aws.ToString(s3Object.Bucket) != "bucket" {
		t.Fatalf("expected bucket, got %q", aws.ToString(s3Object.Bucket))
	}
	if aws.ToString(s3Object.Name) != "rekognition-input/cat.png" {
		t.Fatalf("expected object rekognition-input/cat.png, got %q", aws.ToString(s3Object.Name))
	}
}

func TestDetectLabelsPreservesServiceOrder(t *testing.T) {
	t.Parallel()

	fake := &fakeRekognition{
		labels: []rekogtypes.Label{
			{Name: aws.String("Cat"), Confidence: float32Ptr(98.2)},
			{Name: aws.String("Animal"), Confidence: float32Ptr(95.0)},
		},
	}
	client := NewWithClient(fake, "bucket", "rekognition-input")

	analysis, err := client.DetectLabels(context.Background(), "cat.png")
	if err != nil {
		t.Fatalf("detect labels: %v", err)
	}

	if len(analysis.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(analysis.Labels))
	}
	if analysis.Labels[0].Name != "Cat" || analysis.Labels[1].Name != "Animal" {
		t.Fatalf("expected service order preserved, got %v", analysis.Labels)
	}
}

func TestDetectLabelsServiceError(t *testing.T) {
	t.Parallel()

	fake := &fakeRekognition{err: errors.New("object not found")}
	client := NewWithClient(fake, "bucket", "rekognition-input")

	if _, err := client.DetectLabels(context.Background(), "cat.png"); err == nil {
		t.Fatal("expected error from failed analysis")
	}
}

func TestDetectLabelsEmptyImageName(t *testing.T) {
	t.Parallel()

	client := NewWithClient(&fakeRekognition{}, "bucket", "rekognition-input")
	if _, err := client.DetectLabels(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty image name")
	}
}
