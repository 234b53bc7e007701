package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"vision-batch/internal/bootstrap"
	"vision-batch/internal/pipeline"
	"vision-batch/internal/shared/config"
	"vision-batch/internal/shared/metrics"
	"vision-batch/internal/shared/telemetry"
)

func main() {
	dumpEnvironment(os.Stdout)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	telemetry.Info("batch.started", map[string]any{
		"images_dir": cfg.ImagesDir,
		"bucket":     cfg.S3Bucket,
		"prefix":     cfg.S3Prefix,
		"branch":     cfg.Branch,
	})

	outcomes, err := app.Orchestrator.Run(ctx, cfg.ImagesDir)
	switch {
	case errors.Is(err, context.Canceled):
		log.Printf("batch cancelled; processed %d files", len(outcomes))
	case err != nil:
		log.Fatalf("run batch: %v", err)
	}

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteFile(cfg.MetricsFile); werr != nil {
			telemetry.Error("batch.metrics_write_failed", map[string]any{"path": cfg.MetricsFile, "error": werr.Error()})
		}
	}

	telemetry.Info("batch.finished", map[string]any{
		"discovered": len(outcomes),
		"stored":     countStatus(outcomes, pipeline.StatusStored),
	})
}

func countStatus(outcomes []pipeline.Outcome, status pipeline.Status) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// dumpEnvironment prints every environment variable at startup, matching the
// CI diagnostic transcript. Sorted for a stable ordering.
func dumpEnvironment(w io.Writer) {
	fmt.Fprintln(w, "All Environment Variables:")
	env := os.Environ()
	sort.Strings(env)
	for _, kv := range env {
		key, val, _ := strings.Cut(kv, "=")
		fmt.Fprintf(w, "%s: %s\n", key, val)
	}
}
