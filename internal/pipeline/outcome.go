package pipeline

// Status is the terminal state an image reached in one batch pass.
type Status string

const (
	StatusSkippedType    Status = "skipped_type"
	StatusSkippedSize    Status = "skipped_size"
	StatusFailedUpload   Status = "failed_upload"
	StatusFailedAnalysis Status = "failed_analysis"
	StatusFailedStore    Status = "failed_store"
	StatusStored         Status = "stored"
)

// Outcome records how one discovered file left the pipeline. Err carries the
// stage error when the status is a failure; the orchestrator never escalates
// it past the current image.
type Outcome struct {
	FileName  string
	Status    Status
	ObjectKey string
	Labels    int
	Err       error
}
