package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Labels are stored as a jsonb array.
type PGRepo struct {
	DB *sql.DB
}

// Put upserts the record keyed by filename.
func (r *PGRepo) Put(ctx context.Context, rec AnalysisRecord) error {
	const query = `
INSERT INTO image_analyses (filename, labels, analyzed_at, branch, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (filename) DO UPDATE
SET labels = EXCLUDED.labels,
    analyzed_at = EXCLUDED.analyzed_at,
    branch = EXCLUDED.branch,
    updated_at = now()`

	labels := rec.Labels
	if labels == nil {
		labels = []Label{}
	}
	payload, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, query, rec.Filename, payload, rec.Timestamp, rec.Branch); err != nil {
		return fmt.Errorf("upsert image analysis filename=%s: %w", rec.Filename, err)
	}
	return nil
}

// GetByFilename returns the record for a filename.
func (r *PGRepo) GetByFilename(ctx context.Context, filename string) (AnalysisRecord, error) {
	const query = `
SELECT labels, analyzed_at, branch
FROM image_analyses
WHERE filename = $1`

	var payload []byte
	rec := AnalysisRecord{Filename: filename}
	err := r.DB.QueryRowContext(ctx, query, filename).Scan(&payload, &rec.Timestamp, &rec.Branch)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("get image analysis filename=%s: %w", filename, err)
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rec.Labels); err != nil {
			return AnalysisRecord{}, fmt.Errorf("unmarshal labels filename=%s: %w", filename, err)
		}
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
