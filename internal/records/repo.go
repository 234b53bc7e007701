package records

import "context"

// Repo persists analysis records keyed by filename.
type Repo interface {
	// Put writes the record unconditionally; an existing record with the
	// same filename is replaced (last-write-wins, no merge).
	Put(ctx context.Context, rec AnalysisRecord) error
	// GetByFilename returns the record for a filename or ErrNotFound.
	GetByFilename(ctx context.Context, filename string) (AnalysisRecord, error)
}
