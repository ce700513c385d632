package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type localStore struct {
	logger   zerolog.Logger
	basePath string
}

// NewLocalStore returns a Store rooted at basePath on the local
// filesystem.
func NewLocalStore(logger zerolog.Logger, basePath string) (Store, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &localStore{logger: logger, basePath: basePath}, nil
}

func (l *localStore) Upload(ctx context.Context, r io.Reader, key string) (string, error) {
	p := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return "", err
	}
	l.logger.Debug().Str("path", p).Msgf("creating file")
	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.URL(key), nil
}

func (l *localStore) Reader(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(l.basePath, filepath.FromSlash(key)))
}

func (l *localStore) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(l.basePath, filepath.FromSlash(key)))
}

func (l *localStore) URL(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}
