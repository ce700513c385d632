// Package blobstore moves frame files and diff reports between local
// disk and object storage providers.
package blobstore

import (
	"context"
	"io"
)

type Store interface {
	// Upload writes the contents of r under key and returns a location
	// string for the stored object.
	Upload(ctx context.Context, r io.Reader, key string) (string, error)
	// Reader opens the object stored under key.
	Reader(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// URL returns the location string for key without touching storage.
	URL(key string) string
}
