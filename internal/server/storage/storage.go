// Package storage abstracts the blob store holding car images. The
// production implementation targets an S3-compatible backend; services
// depend only on the BlobStore interface.
package storage

import "context"

// ImagePayload is one uploaded image as received from the client.
type ImagePayload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// BlobStore stores an image payload and returns a stable URL for it.
type BlobStore interface {
	Upload(ctx context.Context, payload ImagePayload) (string, error)
}
