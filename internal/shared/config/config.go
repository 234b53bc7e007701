package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultMaxImageBytes is the largest image the pipeline will upload (5 MiB).
const DefaultMaxImageBytes int64 = 5242880

// DefaultS3Prefix is the namespace under which every uploaded image lands.
const DefaultS3Prefix = "rekognition-input/"

// Config holds application configuration.
type Config struct {
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	DynamoDBTable   string
	ImagesDir       string
	MaxImageBytes   int64
	Branch          string
	ObjectStoreType string
	RecordStoreType string
	VisionProvider  string
	LocalStoreDir   string
	SSEKMSKeyID     string
	DatabaseURL     string
	MetricsFile     string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", DefaultS3Prefix),
		DynamoDBTable:   getEnv("DYNAMODB_TABLE", ""),
		ImagesDir:       getEnv("IMAGES_FOLDER", "images/"),
		MaxImageBytes:   getEnvInt64("MAX_IMAGE_BYTES", DefaultMaxImageBytes),
		Branch:          BranchFromRef(getEnv("GITHUB_REF", "refs/heads/main")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "s3")),
		RecordStoreType: normalizeRecordType(getEnv("RECORD_STORE", "dynamodb")),
		VisionProvider:  getEnv("VISION_PROVIDER", "rekognition"),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MetricsFile:     getEnv("METRICS_FILE", ""),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
	}
}

// BranchFromRef extracts the branch name from a source-control ref such as
// "refs/heads/main". The branch is the last path segment; an empty ref or
// segment maps to "main".
func BranchFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "main"
	}
	parts := strings.Split(ref, "/")
	branch := parts[len(parts)-1]
	if branch == "" {
		return "main"
	}
	return branch
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "local":
		return "local"
	default:
		return "s3"
	}
}

func normalizeRecordType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "memory":
		return "memory"
	default:
		return "dynamodb"
	}
}
