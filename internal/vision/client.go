package vision

import (
	"context"
	"errors"
)

// Label is one classification tag with its confidence score in [0,100].
type Label struct {
	Name       string
	Confidence float64
}

// Analysis is the outcome of one classification request. Labels preserve the
// order returned by the service and are never filtered or re-ranked.
// Timestamp is the service response date; empty when the service did not
// report one.
type Analysis struct {
	Labels    []Label
	Timestamp string
}

// Client requests label classification for a previously uploaded image.
//
// DetectLabels references the object by the deterministic key derived from
// imageName; the object must already be durably visible to the service when
// the call is made. The client does not verify that itself.
type Client interface {
	DetectLabels(ctx context.Context, imageName string) (Analysis, error)
}

// Placeholder is a Client for environments without a configured vision
// provider. Every call fails.
type Placeholder struct{}

// DetectLabels always returns an error.
func (Placeholder) DetectLabels(ctx context.Context, imageName string) (Analysis, error) {
	_ = ctx
	_ = imageName
	return Analysis{}, errors.New("vision client not configured")
}
