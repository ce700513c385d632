package frameio

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
)

// Read loads a frame from a local path or URL, picking the format from
// the file extension (csv, json, xlsx/xls).
func Read(ctx context.Context, logger zerolog.Logger, path string, keyFields []string) (*frame.Frame, error) {
	switch formatOf(path) {
	case "csv":
		return ReadCSV(ctx, logger, path, CSVOptions{KeyFields: keyFields})
	case "json":
		return ReadJSON(ctx, logger, path, keyFields)
	case "excel":
		return ReadExcel(ctx, logger, path, ExcelOptions{KeyFields: keyFields})
	}
	return nil, errors.Newf("cannot determine format of %s", path)
}
