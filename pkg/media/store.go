// Package media stores uploaded images and videos and serves them back by key.
package media

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no object exists under a key.
var ErrObjectNotFound = errors.New("media: object not found")

// Object is an open stored object. Callers must close it.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStore provides access to binary object storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
