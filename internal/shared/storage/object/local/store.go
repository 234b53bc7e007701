package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vision-batch/internal/shared/storage/object"
)

// Store implements object.Store using the local filesystem. It is the dev
// counterpart of the S3 store; objects land under baseDir at the same
// prefix-joined key the S3 store would use.
type Store struct {
	baseDir string
	prefix  string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir, prefix string) *Store {
	return &Store{baseDir: baseDir, prefix: strings.Trim(strings.TrimSpace(prefix), "/")}
}

// Save writes the reader contents to disk under the prefix-joined key,
// truncating any prior object at that key.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", 0, fmt.Errorf("file name is required")
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	clean := filepath.Base(filepath.Clean(fileName))
	objectKey := clean
	if s.prefix != "" {
		objectKey = s.prefix + "/" + clean
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}

	return objectKey, written, nil
}

var _ object.Store = (*Store)(nil)
