// Package blobstore defines the object storage contract used for uploaded
// images: named buckets holding keyed objects with derivable public URLs.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

type Store interface {
	// Put writes the object, overwriting any existing object at key, and
	// returns its absolute public URL.
	Put(ctx context.Context, bucket, key, contentType string, r io.Reader) (url string, err error)
	Delete(ctx context.Context, bucket, key string) error
	// Locate reverses a public URL issued by this store. ok is false for
	// URLs the store did not issue.
	Locate(url string) (bucket, key string, ok bool)
}

// StatusError carries a rejection reported by the storage service itself, as
// opposed to a transport failure.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage returned status %d: %s", e.StatusCode, e.Message)
}
