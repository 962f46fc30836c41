// Package receipts archives uploaded receipt images in a GCS bucket so
// scans can be audited later. Archival is best effort: callers log failures
// and proceed with analysis regardless.
package receipts

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Archive stores receipt images as objects under receipts/ in one bucket.
type Archive struct {
	client *storage.Client
	bucket string
}

// NewArchive creates an archive backed by the given bucket. It assumes
// Application Default Credentials are configured.
func NewArchive(ctx context.Context, bucket string) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Archive{client: client, bucket: bucket}, nil
}

// Save uploads the image and returns its gs:// URI. The object name is
// derived from the upload date and a fresh id so names never collide.
func (a *Archive) Save(ctx context.Context, image []byte, mimeType string) (string, error) {
	objectName := ObjectName(time.Now(), mimeType)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(image); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write receipt to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// Fetch downloads the image bytes from the given gs:// URI.
func (a *Archive) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectPath, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	rc, err := a.client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading bytes: %w", err)
	}

	return data, nil
}

// Close releases the underlying storage client.
func (a *Archive) Close() error {
	return a.client.Close()
}

// ObjectName builds a unique object name for a receipt uploaded at t.
// e.g. receipts/2025-03-11/9f0c….jpg
func ObjectName(t time.Time, mimeType string) string {
	ext := extensionFor(mimeType)
	return path.Join("receipts", t.Format("2006-01-02"), uuid.NewString()+ext)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func splitURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
