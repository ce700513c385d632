package frameio

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetOptions configures ReadSheet.
type SheetOptions struct {
	// CredentialsFile points at a service account JSON file; empty uses
	// application default credentials.
	CredentialsFile string
	// Range is an A1-notation range; empty reads the whole first sheet.
	Range string
	// KeyFields names the columns to declare as the row key.
	KeyFields []string
}

// ReadSheet reads a Google Sheets range into a frame. The first row of
// the range is the header.
func ReadSheet(ctx context.Context, logger zerolog.Logger, spreadsheetID string, opts SheetOptions) (*frame.Frame, error) {
	var clientOpts []option.ClientOption
	clientOpts = append(clientOpts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "error creating sheets service")
	}

	readRange := opts.Range
	if readRange == "" {
		meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, errors.Wrapf(err, "error fetching spreadsheet %s", spreadsheetID)
		}
		if len(meta.Sheets) == 0 {
			return nil, errors.Newf("spreadsheet %s has no sheets", spreadsheetID)
		}
		readRange = meta.Sheets[0].Properties.Title
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading range %q of %s", readRange, spreadsheetID)
	}
	if len(resp.Values) == 0 {
		return nil, errors.Newf("range %q of %s has no header row", readRange, spreadsheetID)
	}

	records := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = fmt.Sprint(cell)
		}
		records[i] = rec
	}
	rowsRead.WithLabelValues("sheets").Add(float64(len(records) - 1))
	logger.Debug().Str("spreadsheet", spreadsheetID).Str("range", readRange).
		Int("num_rows", len(records)-1).Msgf("read sheet")
	return fromRecords(records[0], records[1:], opts.KeyFields)
}
