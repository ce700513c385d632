package frameio

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures ReadExcel.
type ExcelOptions struct {
	// Sheet selects the worksheet; empty means the first sheet.
	Sheet string
	// KeyFields names the columns to declare as the row key.
	KeyFields []string
}

// ReadExcel reads an xlsx file or URL into a frame, using the first row
// as the header and inferring column kinds from the cell text.
func ReadExcel(ctx context.Context, logger zerolog.Logger, path string, opts ExcelOptions) (*frame.Frame, error) {
	local, cleanup, err := fetchIfURL(ctx, logger, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	wb, err := excelize.OpenFile(local)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer func() {
		_ = wb.Close()
	}()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sheet %q of %s", sheet, path)
	}
	if len(rows) == 0 {
		return nil, errors.Newf("sheet %q of %s has no header row", sheet, path)
	}
	rowsRead.WithLabelValues("excel").Add(float64(len(rows) - 1))
	logger.Debug().Str("path", path).Str("sheet", sheet).
		Int("num_rows", len(rows)-1).Msgf("read excel sheet")
	return fromRecords(rows[0], rows[1:], opts.KeyFields)
}
