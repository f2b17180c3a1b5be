package storage

import "context"

// Service archives uploaded image originals to remote object storage.
// Archival is best effort; the sqlite BLOB remains the source of truth.
type Service interface {
	// PutObject stores body under bucket/key and returns its s3:// location.
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) (string, error)
}
