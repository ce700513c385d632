package frameio

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var schemeRE = regexp.MustCompile(`^https?://`)

// IsURL reports whether path points at a remote http(s) resource rather
// than a local file.
func IsURL(path string) bool {
	return schemeRE.MatchString(path)
}

// DownloadFile fetches url into dest.
func DownloadFile(ctx context.Context, rawURL string, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "error downloading %s", rawURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("error downloading %s: status %d", rawURL, resp.StatusCode)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// fetchIfURL makes a remote path usable as a local one: URLs are
// downloaded to a temp file, local paths pass through. The returned
// cleanup is always safe to call.
func fetchIfURL(ctx context.Context, logger zerolog.Logger, path string) (string, func(), error) {
	if !IsURL(path) {
		return path, func() {}, nil
	}
	tmp, err := os.CreateTemp("", "framediff-download-*")
	if err != nil {
		return "", func() {}, err
	}
	_ = tmp.Close()
	logger.Debug().Str("url", path).Str("tmp", tmp.Name()).Msgf("downloading remote file")
	if err := DownloadFile(ctx, path, tmp.Name()); err != nil {
		_ = os.Remove(tmp.Name())
		return "", func() {}, err
	}
	return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
}

// BaseURL returns the base of an arbitrary URL path, e.g.
// "https://example.com/some/path" -> "https://example.com". URLs missing
// a scheme are assumed http.
func BaseURL(rawURL string, includeScheme bool) (string, error) {
	if !schemeRE.MatchString(rawURL) {
		rawURL = "http://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "error parsing url %s", rawURL)
	}
	if includeScheme {
		return parsed.Scheme + "://" + parsed.Host, nil
	}
	return parsed.Host, nil
}

// formatOf guesses the input format from the path extension.
func formatOf(path string) string {
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, ".csv"):
		return "csv"
	case strings.HasSuffix(path, ".json"):
		return "json"
	case strings.HasSuffix(path, ".xlsx"), strings.HasSuffix(path, ".xls"):
		return "excel"
	}
	return ""
}
