package rekognition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekogtypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"vision-batch/internal/vision"
)

// api is the subset of the Rekognition client the analyzer uses.
type api interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Client implements vision.Client using AWS Rekognition DetectLabels against
// S3-resident objects.
type Client struct {
	client api
	bucket string
	prefix string
}

// New constructs a Rekognition-backed vision client. Analyzed objects are
// addressed as bucket + prefix + image name, matching the uploader's key
// derivation.
func New(ctx context.Context, region, bucket, prefix string) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		client: rekognition.NewFromConfig(cfg),
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

// NewWithClient constructs a client around an existing API, for tests.
func NewWithClient(client api, bucket, prefix string) *Client {
	return &Client{client: client, bucket: bucket, prefix: normalizePrefix(prefix)}
}

// DetectLabels classifies the uploaded object named imageName. Labels are
// returned verbatim in service order. The analysis timestamp is the Date
// header of the service response.
func (c *Client) DetectLabels(ctx context.Context, imageName string) (vision.Analysis, error) {
	if strings.TrimSpace(imageName) == "" {
		return vision.Analysis{}, fmt.Errorf("image name is required")
	}

	objectKey := imageName
	if c.prefix != "" {
		objectKey = c.prefix + "/" + imageName
	}

	var responseDate string
	out, err := c.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &rekogtypes.Image{
			S3Object: &rekogtypes.S3Object{
				Bucket: aws.String(c.bucket),
				Name:   aws.String(objectKey),
			},
		},
	}, func(o *rekognition.Options) {
		o.APIOptions = append(o.APIOptions, captureResponseDate(&responseDate))
	})
	if err != nil {
		return vision.Analysis{}, fmt.Errorf("rekognition detect labels bucket=%s key=%s: %w", c.bucket, objectKey, err)
	}

	labels := make([]vision.Label, 0, len(out.Labels))
	for _, label := range out.Labels {
		labels = append(labels, vision.Label{
			Name:       aws.ToString(label.Name),
			Confidence: float64(aws.ToFloat32(label.Confidence)),
		})
	}

	return vision.Analysis{Labels: labels, Timestamp: responseDate}, nil
}

// captureResponseDate records the HTTP Date header of the service response,
// which tags the persisted record.
func captureResponseDate(dst *string) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Deserialize.Add(middleware.DeserializeMiddlewareFunc("CaptureResponseDate",
			func(ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler) (middleware.DeserializeOutput, middleware.Metadata, error) {
				out, md, err := next.HandleDeserialize(ctx, in)
				if resp, ok := out.RawResponse.(*smithyhttp.Response); ok && resp != nil {
					*dst = resp.Header.Get("Date")
				}
				return out, md, err
			}), middleware.After)
	}
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

var _ vision.Client = (*Client)(nil)
