package bootstrap

import (
	"context"
	"testing"

	"vision-batch/internal/shared/config"
	localstore "vision-batch/internal/shared/storage/object/local"
	"vision-batch/internal/vision"
)

func TestBuildDevFallsBackToLocalDependencies(t *testing.T) {
	cfg := config.Config{
		Env:             "dev",
		ObjectStoreType: "s3",
		RecordStoreType: "dynamodb",
		VisionProvider:  "rekognition",
		LocalStoreDir:   t.TempDir(),
		S3Prefix:        config.DefaultS3Prefix,
		Branch:          "main",
	}

	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(app.Close)

	if _, ok := app.Store.(*localstore.Store); !ok {
		t.Fatalf("expected local object store fallback, got %T", app.Store)
	}
	if _, ok := app.Vision.(vision.Placeholder); !ok {
		t.Fatalf("expected placeholder vision client fallback, got %T", app.Vision)
	}
	if app.Records == nil || app.Orchestrator == nil {
		t.Fatal("expected recorder and orchestrator to be wired")
	}
	if app.Orchestrator.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestBuildMemoryRecordStore(t *testing.T) {
	cfg := config.Config{
		Env:             "local",
		ObjectStoreType: "local",
		RecordStoreType: "memory",
		VisionProvider:  "placeholder",
		LocalStoreDir:   t.TempDir(),
		Branch:          "feature-x",
	}

	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(app.Close)

	if app.Records.Branch != "feature-x" {
		t.Fatalf("expected branch carried into recorder, got %q", app.Records.Branch)
	}
	if app.DB != nil {
		t.Fatal("expected no database for memory record store")
	}
}

func TestBuildProductionRequiresBucket(t *testing.T) {
	cfg := config.Config{
		Env:             "production",
		ObjectStoreType: "s3",
		RecordStoreType: "dynamodb",
		VisionProvider:  "rekognition",
	}

	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing bucket in production")
	}
}

func TestBuildProductionRequiresTable(t *testing.T) {
	cfg := config.Config{
		Env:             "production",
		ObjectStoreType: "local",
		RecordStoreType: "dynamodb",
		VisionProvider:  "placeholder",
		LocalStoreDir:   t.TempDir(),
	}

	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing DynamoDB table in production")
	}
}
