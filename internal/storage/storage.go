package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists under the given name.
var ErrNotFound = errors.New("object not found")

// Store abstracts where uploaded profile photos live. The default backend is
// local disk under the configured upload directory; a MinIO backend can be
// selected via config for deployments that want object storage.
type Store interface {
	// Save writes the object under name, replacing any previous content.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Open returns a reader for the stored object, or ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes the object. A missing object is not an error.
	Remove(ctx context.Context, name string) error
}
