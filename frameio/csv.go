package frameio

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// KeyFields names the columns to declare as the row key.
	KeyFields []string
}

// ReadCSV reads a CSV file or URL into a frame, using the first record as
// the header row and inferring column kinds.
func ReadCSV(ctx context.Context, logger zerolog.Logger, path string, opts CSVOptions) (*frame.Frame, error) {
	local, cleanup, err := fetchIfURL(ctx, logger, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(local)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Newf("%s has no header row", path)
	}
	rowsRead.WithLabelValues("csv").Add(float64(len(records) - 1))
	logger.Debug().Str("path", path).Int("num_rows", len(records)-1).Msgf("read csv")
	return fromRecords(records[0], records[1:], opts.KeyFields)
}

// WriteCSV writes a frame as CSV, rendering nulls as empty cells.
func WriteCSV(path string, f *frame.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	w := csv.NewWriter(out)
	if err := w.Write(f.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(f.Columns()))
	for i := 0; i < f.NumRows(); i++ {
		for j, c := range f.Columns() {
			if c.IsNull(i) {
				record[j] = ""
			} else {
				record[j] = c.Render(i)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return out.Close()
}
