package storage

import (
	"context"
	"io"
)

// Store persists uploaded image blobs under generated names. Implementations
// must not interpret the name beyond treating it as an opaque key.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
