package object

import (
	"context"
	"io"
)

// Store defines the contract for saving image objects.
//
// Save uploads the reader contents under the store's namespace prefix joined
// with fileName. The mapping from fileName to object key is deterministic, so
// saving the same file again overwrites the prior object; there is no
// versioning.
type Store interface {
	Save(ctx context.Context, fileName string, r io.Reader) (objectKey string, sizeBytes int64, err error)
}
