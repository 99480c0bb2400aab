package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/ternarybob/arbor"
	"google.golang.org/api/iterator"
)

// GCSLoader reads the corpus from a Google Cloud Storage bucket.
// Credentials come from Application Default Credentials.
type GCSLoader struct {
	client *storage.Client
	bucket string
	prefix string
	logger arbor.ILogger
}

// NewGCSLoader creates a storage client for bucket. prefix may be empty.
func NewGCSLoader(ctx context.Context, bucket, prefix string, logger arbor.ILogger) (*GCSLoader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Debug().
		Str("bucket", bucket).
		Str("prefix", prefix).
		Msg("GCS corpus loader initialized")

	return &GCSLoader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// List enumerates every object under the prefix
func (l *GCSLoader) List(ctx context.Context) ([]string, error) {
	it := l.client.Bucket(l.bucket).Objects(ctx, &storage.Query{Prefix: l.prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in gs://%s: %w", l.bucket, err)
		}
		// Folder placeholders have no content
		if attrs.Size == 0 && len(attrs.Name) > 0 && attrs.Name[len(attrs.Name)-1] == '/' {
			continue
		}
		names = append(names, attrs.Name)
	}

	l.logger.Debug().
		Str("bucket", l.bucket).
		Int("objects", len(names)).
		Msg("Listed corpus bucket")

	return names, nil
}

// Fetch downloads one object
func (l *GCSLoader) Fetch(ctx context.Context, name string) ([]byte, error) {
	reader, err := l.client.Bucket(l.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", l.bucket, name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to download gs://%s/%s: %w", l.bucket, name, err)
	}
	return data, nil
}

// Location returns the gs:// URL of the corpus
func (l *GCSLoader) Location() string {
	return fmt.Sprintf("gs://%s/%s", l.bucket, l.prefix)
}

// Close releases the storage client
func (l *GCSLoader) Close() error {
	return l.client.Close()
}
