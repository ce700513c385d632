package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

type s3Store struct {
	logger  zerolog.Logger
	bucket  string
	session *session.Session
}

// NewS3Store returns a Store backed by an S3 bucket. Custom endpoints
// (e.g. DigitalOcean Spaces) are configured on the session.
func NewS3Store(logger zerolog.Logger, session *session.Session, bucket string) Store {
	return &s3Store{
		logger:  logger,
		bucket:  bucket,
		session: session,
	}
}

func (s *s3Store) Upload(ctx context.Context, r io.Reader, key string) (string, error) {
	s.logger.Debug().Str("key", key).Msgf("uploading to s3")
	if _, err := s3manager.NewUploader(s.session).UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}); err != nil {
		return "", err
	}
	s.logger.Debug().Str("key", key).Msgf("s3 upload complete")
	return s.URL(key), nil
}

func (s *s3Store) Reader(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s3.New(s.session).GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s3.New(s.session).DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *s3Store) URL(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
