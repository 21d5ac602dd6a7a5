package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// GCSConfig configures the Google Cloud Storage asset store.
type GCSConfig struct {
	Bucket string
	// PublicBaseURL overrides the default storage.googleapis.com address,
	// e.g. a CDN domain fronting the bucket.
	PublicBaseURL string
	// CredentialsFile optionally points at a service-account key. When empty
	// the client falls back to application default credentials.
	CredentialsFile string
	// CacheControl applied to uploaded objects.
	CacheControl string
}

// GCSStore implements types.AssetStore on a GCS bucket.
type GCSStore struct {
	client       *storage.Client
	bucket       string
	baseURL      string
	cacheControl string
}

// NewGCSStore builds the store and its underlying client.
func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("go-directory: gcs bucket required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("go-directory: gcs client: %w", err)
	}
	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}
	return &GCSStore{
		client:       client,
		bucket:       cfg.Bucket,
		baseURL:      baseURL,
		cacheControl: cfg.CacheControl,
	}, nil
}

var _ types.AssetStore = (*GCSStore)(nil)

// Put streams the content into the bucket, overwriting any object already at
// the path.
func (s *GCSStore) Put(ctx context.Context, path string, content io.Reader, contentType string) error {
	writer := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	writer.ContentType = contentType
	if s.cacheControl != "" {
		writer.CacheControl = s.cacheControl
	}
	if _, err := io.Copy(writer, content); err != nil {
		_ = writer.Close()
		return fmt.Errorf("go-directory: gcs upload %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("go-directory: gcs upload %s: %w", path, err)
	}
	return nil
}

// PublicURL returns the object's public address.
func (s *GCSStore) PublicURL(_ context.Context, path string) (string, error) {
	return s.baseURL + "/" + path, nil
}

// Remove deletes the object at the path. Missing objects map to ErrNotFound.
func (s *GCSStore) Remove(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
