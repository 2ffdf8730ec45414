// Package storage uploads generated cover images to the object storage
// collaborator and hands back a public URL.
package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// Uploader writes objects into one bucket.
type Uploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewUploader(bucket *gcs.BucketHandle, bucketName string) *Uploader {
	return &Uploader{bucket: bucket, bucketName: bucketName}
}

// Store writes data under path and returns the object's URL. With public
// set, the object is made world-readable via its predefined ACL.
func (u *Uploader) Store(ctx context.Context, data []byte, contentType, path string, public bool) (string, error) {
	if u.bucket == nil {
		return "", fmt.Errorf("no storage bucket configured")
	}

	w := u.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if public {
		w.PredefinedACL = "publicRead"
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, path), nil
}
