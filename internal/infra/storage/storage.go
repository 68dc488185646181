package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded painting images live. The local
// filesystem implementation below is the default; an S3/R2 implementation
// can be swapped in without touching the handlers.
type Storage interface {
	// Save writes the file under key and returns the public URL.
	Save(ctx context.Context, key string, data io.Reader) (url string, err error)

	// Delete removes the file stored under key.
	Delete(ctx context.Context, key string) error
}
