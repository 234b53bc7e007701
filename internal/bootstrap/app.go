package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"vision-batch/internal/pipeline"
	"vision-batch/internal/records"
	"vision-batch/internal/shared/config"
	"vision-batch/internal/shared/storage/db"
	"vision-batch/internal/shared/storage/object"
	localstore "vision-batch/internal/shared/storage/object/local"
	s3store "vision-batch/internal/shared/storage/object/s3"
	"vision-batch/internal/vision"
	"vision-batch/internal/vision/rekognition"
)

// App holds shared dependencies for one batch run.
type App struct {
	Config       config.Config
	DB           *sql.DB
	Store        object.Store
	Vision       vision.Client
	Records      *records.Service
	Orchestrator *pipeline.Orchestrator
}

// Build prepares shared dependencies from configuration. External clients are
// constructed once here and passed into the orchestrator by reference.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	visionClient, err := buildVision(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, repo, err := buildRecordRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	recorder := &records.Service{Repo: repo, Branch: cfg.Branch}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Vision:  visionClient,
		Records: recorder,
	}
	app.Orchestrator = &pipeline.Orchestrator{
		Store:         store,
		Vision:        visionClient,
		Recorder:      recorder,
		Bucket:        cfg.S3Bucket,
		Prefix:        cfg.S3Prefix,
		MaxImageBytes: cfg.MaxImageBytes,
		RunID:         uuid.NewString(),
		Out:           os.Stdout,
	}

	return app, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "local":
		return localstore.New(cfg.LocalStoreDir, cfg.S3Prefix), nil
	default:
		if strings.TrimSpace(cfg.S3Bucket) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: S3_BUCKET empty; using local object store")
			return localstore.New(cfg.LocalStoreDir, cfg.S3Prefix), nil
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	}
}

func buildVision(ctx context.Context, cfg config.Config) (vision.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.VisionProvider)) {
	case "rekognition":
		if strings.TrimSpace(cfg.S3Bucket) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: S3_BUCKET empty; using placeholder vision client")
			return vision.Placeholder{}, nil
		}
		return rekognition.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return vision.Placeholder{}, nil
	}
}

func buildRecordRepo(ctx context.Context, cfg config.Config) (*sql.DB, records.Repo, error) {
	switch cfg.RecordStoreType {
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: DATABASE_URL empty; using in-memory record repo")
				return nil, records.NewMemoryRepo(), nil
			}
			return nil, nil, fmt.Errorf("RECORD_STORE=postgres requires DATABASE_URL")
		}
		opts := db.OptionsFromEnv(db.DefaultBatchOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, &records.PGRepo{DB: sqlDB}, nil
	case "memory":
		return nil, records.NewMemoryRepo(), nil
	default:
		if strings.TrimSpace(cfg.DynamoDBTable) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: DYNAMODB_TABLE empty; using in-memory record repo")
				return nil, records.NewMemoryRepo(), nil
			}
			return nil, nil, fmt.Errorf("RECORD_STORE=dynamodb requires DYNAMODB_TABLE")
		}
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		repo, err := records.NewDynamoRepo(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable)
		if err != nil {
			return nil, nil, err
		}
		return nil, repo, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
