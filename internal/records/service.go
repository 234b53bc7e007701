package records

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vision-batch/internal/vision"
)

// Service encodes analysis outcomes into records and persists them. Branch is
// computed once at startup and attached to every record written in a run.
type Service struct {
	Repo   Repo
	Branch string
}

// Store persists one image's labels, keyed by filename. The write is an
// unconditional upsert; repeated runs for the same filename clobber the prior
// record.
func (s *Service) Store(ctx context.Context, filename string, labels []vision.Label, timestamp string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename is required")
	}

	encoded := make([]Label, 0, len(labels))
	for _, label := range labels {
		encoded = append(encoded, Label{
			Name:       label.Name,
			Confidence: FormatConfidence(label.Confidence),
		})
	}

	rec := AnalysisRecord{
		Filename:  filename,
		Labels:    encoded,
		Timestamp: timestamp,
		Branch:    s.branch(),
	}

	if err := s.Repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("put record filename=%s: %w", filename, err)
	}
	return nil
}

// FormatConfidence renders a confidence score as its shortest decimal string.
func FormatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) branch() string {
	if strings.TrimSpace(s.Branch) == "" {
		return "main"
	}
	return s.Branch
}
