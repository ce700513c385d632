package frameio

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Decompress extracts a local or remote zip archive into outputDir.
// Existing extracted content is an error unless overwrite is set.
func Decompress(ctx context.Context, logger zerolog.Logger, input string, outputDir string, overwrite bool) error {
	local, cleanup, err := fetchIfURL(ctx, logger, input)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := zip.OpenReader(local)
	if err != nil {
		return errors.Wrapf(err, "error opening archive %s", input)
	}
	defer func() {
		_ = r.Close()
	}()

	if len(r.File) > 0 && !overwrite {
		first := filepath.Join(outputDir, filepath.FromSlash(r.File[0].Name))
		if _, err := os.Stat(first); err == nil {
			return errors.Newf(
				"output already exists; either change the output folder or set overwrite")
		}
	}

	for _, f := range r.File {
		if err := extractOne(f, outputDir); err != nil {
			return errors.Wrapf(err, "error extracting %s", f.Name)
		}
	}
	return nil
}

func extractOne(f *zip.File, outputDir string) error {
	dest := filepath.Join(outputDir, filepath.FromSlash(f.Name))
	// Guard against entries escaping the output directory.
	if !strings.HasPrefix(dest, filepath.Clean(outputDir)+string(os.PathSeparator)) {
		return errors.Newf("illegal path %q", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, os.ModePerm)
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
