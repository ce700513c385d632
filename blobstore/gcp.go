package blobstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type gcsStore struct {
	logger zerolog.Logger
	bucket string
	client *storage.Client
	creds  *google.Credentials
}

// NewGCSStoreFromCredentials dials a storage client with the given
// credentials and returns a Store over it.
func NewGCSStoreFromCredentials(
	ctx context.Context, logger zerolog.Logger, creds *google.Credentials, bucket string,
) (Store, error) {
	client, err := storage.NewClient(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}
	return NewGCSStore(logger, client, creds, bucket), nil
}

// NewGCSStore returns a Store backed by a Google Cloud Storage bucket.
func NewGCSStore(
	logger zerolog.Logger, client *storage.Client, creds *google.Credentials, bucket string,
) Store {
	return &gcsStore{
		logger: logger,
		bucket: bucket,
		client: client,
		creds:  creds,
	}
}

func (s *gcsStore) Upload(ctx context.Context, r io.Reader, key string) (string, error) {
	s.logger.Debug().Str("key", key).Msgf("uploading to gcs")
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	s.logger.Debug().Str("key", key).Msgf("gcs upload complete")
	return s.URL(key), nil
}

func (s *gcsStore) Reader(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	return s.client.Bucket(s.bucket).Object(key).Delete(ctx)
}

func (s *gcsStore) URL(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}
