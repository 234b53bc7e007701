package s3

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *awss3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &awss3.PutObjectOutput{}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "cat.png", want: "cat.png"},
		{name: "simple prefix", prefix: "rekognition-input", key: "cat.png", want: "rekognition-input/cat.png"},
		{name: "prefix trailing slash", prefix: "rekognition-input/", key: "cat.png", want: "rekognition-input/cat.png"},
		{name: "prefix and key slashes", prefix: "/rekognition-input/", key: "/cat.png", want: "rekognition-input/cat.png"},
		{name: "nested prefix", prefix: "input/images", key: "cat.png", want: "input/images/cat.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestSaveDeterministicKey(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	store := NewWithClient(fake, "bucket", "rekognition-input/", "")

	key, size, err := store.Save(context.Background(), "cat.png", bytes.NewReader([]byte("png bytes")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != "rekognition-input/cat.png" {
		t.Fatalf("expected key rekognition-input/cat.png, got %q", key)
	}
	if size != int64(len("png bytes")) {
		t.Fatalf("expected size %d, got %d", len("png bytes"), size)
	}
	if aws.ToString(fake.input.Bucket) != "bucket" {
		t.Fatalf("expected bucket, got %q", aws.ToString(fake.input.Bucket))
	}
	if aws.ToString(fake.input.Key) != "rekognition-input/cat.png" {
		t.Fatalf("expected put key rekognition-input/cat.png, got %q", aws.ToString(fake.input.Key))
	}

	// Same file name maps to the same key on every save.
	key2, _, err := store.Save(context.Background(), "cat.png", bytes.NewReader([]byte("other bytes")))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if key2 != key {
		t.Fatalf("expected identical key on re-save, got %q then %q", key, key2)
	}
}

func TestSavePutError(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{err: errors.New("access denied")}
	store := NewWithClient(fake, "bucket", "rekognition-input/", "")

	if _, _, err := store.Save(context.Background(), "cat.png", bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error from failed put")
	}
}

func TestSaveEmptyFileName(t *testing.T) {
	t.Parallel()

	store := NewWithClient(&fakeS3{}, "bucket", "", "")
	if _, _, err := store.Save(context.Background(), " ", bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error for empty file name")
	}
}
