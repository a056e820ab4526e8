package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const publicURLBase = "https://storage.googleapis.com"

// FirebaseStorage stores menu images in the project's Cloud Storage bucket.
type FirebaseStorage struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStorage(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStorage, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketName, err)
	}
	return NewBucketStorage(bucket, bucketName), nil
}

// NewBucketStorage wraps a bucket handle from any Cloud Storage client, such
// as one pointed at an emulator.
func NewBucketStorage(bucket *gcs.BucketHandle, bucketName string) *FirebaseStorage {
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStorage) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", domain.NewTransportError("storage: write object", err)
	}
	if err := w.Close(); err != nil {
		return "", domain.NewTransportError("storage: finalize object", err)
	}
	return PublicURL(s.bucketName, path), nil
}

func (s *FirebaseStorage) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return domain.NewTransportError("storage: delete object", err)
}

func PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", publicURLBase, bucket, (&url.URL{Path: path}).EscapedPath())
}
