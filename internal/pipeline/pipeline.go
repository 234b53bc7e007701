package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vision-batch/internal/records"
	"vision-batch/internal/shared/metrics"
	"vision-batch/internal/shared/storage/object"
	"vision-batch/internal/shared/telemetry"
	"vision-batch/internal/vision"
)

const defaultMaxImageBytes int64 = 5242880

// Orchestrator drives each discovered image through validate, upload, analyze
// and store in order. A failure at any stage is terminal for that image only;
// the batch always continues with the next file.
type Orchestrator struct {
	Store         object.Store
	Vision        vision.Client
	Recorder      *records.Service
	Bucket        string
	Prefix        string
	MaxImageBytes int64
	RunID         string
	Out           io.Writer
}

// Run enumerates dir and processes every candidate sequentially, in directory
// enumeration order. It returns one Outcome per discovered file. The only
// errors returned are a failed directory read and context cancellation;
// per-image failures are reported in the outcomes.
func (o *Orchestrator) Run(ctx context.Context, dir string) ([]Outcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir %s: %w", dir, err)
	}

	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			telemetry.Info("batch.cancelled", o.fields("", map[string]any{"processed": len(outcomes)}))
			return outcomes, err
		}
		if entry.IsDir() {
			continue
		}
		metrics.IncImagesDiscovered()
		outcomes = append(outcomes, o.process(ctx, dir, entry))
	}
	return outcomes, nil
}

func (o *Orchestrator) process(ctx context.Context, dir string, entry os.DirEntry) Outcome {
	name := entry.Name()

	if !HasImageExtension(name) {
		fmt.Fprintf(o.out(), "Skipping non-image file: %s\n", name)
		telemetry.Info("batch.image.skipped_type", o.fields(name, nil))
		metrics.IncImagesSkipped()
		return Outcome{FileName: name, Status: StatusSkippedType}
	}

	path := filepath.Join(dir, name)

	info, err := entry.Info()
	if err != nil {
		fmt.Fprintf(o.out(), "Image %s could not be inspected. Skipping...\n", path)
		telemetry.Error("batch.image.stat_failed", o.fields(name, map[string]any{"error": err.Error()}))
		metrics.IncImagesSkipped()
		return Outcome{FileName: name, Status: StatusSkippedSize, Err: err}
	}
	if !SizeWithinLimit(info.Size(), o.maxImageBytes()) {
		fmt.Fprintf(o.out(), "Image %s is too large. Skipping...\n", path)
		telemetry.Info("batch.image.skipped_size", o.fields(name, map[string]any{"size_bytes": info.Size(), "max_bytes": o.maxImageBytes()}))
		metrics.IncImagesSkipped()
		return Outcome{FileName: name, Status: StatusSkippedSize}
	}

	start := metrics.NowMillis()

	// Upload intent is logged before the upload itself.
	fmt.Fprintf(o.out(), "\nUploading %s to bucket %s with prefix %s\n", path, o.Bucket, o.Prefix)

	objectKey, err := o.upload(ctx, path, name)
	if err != nil {
		fmt.Fprintf(o.out(), "Failed to upload %s. Skipping analysis.\n", path)
		telemetry.Error("batch.image.upload_failed", o.fields(name, map[string]any{"error": err.Error()}))
		metrics.IncUploadsFailed()
		return Outcome{FileName: name, Status: StatusFailedUpload, Err: err}
	}

	// The uploaded object is assumed visible to the vision service at its
	// deterministic key; there is no confirmation step. A stale read fails
	// at the service and lands here as an analysis failure.
	analysis, err := o.Vision.DetectLabels(ctx, name)
	if err != nil {
		fmt.Fprintf(o.out(), "Failed to analyze %s. Skipping storage.\n", path)
		telemetry.Error("batch.image.analysis_failed", o.fields(name, map[string]any{"error": err.Error()}))
		metrics.IncAnalysesFailed()
		return Outcome{FileName: name, Status: StatusFailedAnalysis, ObjectKey: objectKey, Err: err}
	}
	if len(analysis.Labels) == 0 {
		// An image the service genuinely labeled with zero tags is
		// indistinguishable from a failed call and never reaches the store.
		fmt.Fprintf(o.out(), "No labels detected for %s. Skipping storage.\n", path)
		telemetry.Error("batch.image.no_labels", o.fields(name, nil))
		metrics.IncAnalysesFailed()
		return Outcome{FileName: name, Status: StatusFailedAnalysis, ObjectKey: objectKey}
	}

	printLabelTable(o.out(), name, analysis.Labels)

	timestamp := analysis.Timestamp
	if timestamp == "" {
		timestamp = "Unknown"
	}

	if err := o.Recorder.Store(ctx, name, analysis.Labels, timestamp); err != nil {
		fmt.Fprintf(o.out(), "Failed to store results for '%s'.\n", name)
		telemetry.Error("batch.image.store_failed", o.fields(name, map[string]any{"error": err.Error()}))
		metrics.IncStoresFailed()
		return Outcome{FileName: name, Status: StatusFailedStore, ObjectKey: objectKey, Labels: len(analysis.Labels), Err: err}
	}

	fmt.Fprintf(o.out(), "\nSuccessfully stored results for '%s'.\n", name)
	telemetry.Info("batch.image.stored", o.fields(name, map[string]any{"labels": len(analysis.Labels), "object_key": objectKey}))
	metrics.IncImagesStored()
	metrics.ObserveImageDurationMs(metrics.NowMillis() - start)

	return Outcome{FileName: name, Status: StatusStored, ObjectKey: objectKey, Labels: len(analysis.Labels)}
}

func (o *Orchestrator) upload(ctx context.Context, path, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	objectKey, _, err := o.Store.Save(ctx, name, f)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (o *Orchestrator) maxImageBytes() int64 {
	if o.MaxImageBytes > 0 {
		return o.MaxImageBytes
	}
	return defaultMaxImageBytes
}

func (o *Orchestrator) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

func (o *Orchestrator) fields(fileName string, extra map[string]any) map[string]any {
	fields := make(map[string]any, len(extra)+2)
	if o.RunID != "" {
		fields["run_id"] = o.RunID
	}
	if fileName != "" {
		fields["file"] = fileName
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
