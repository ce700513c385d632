package frameio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
)

// LoadJSON loads arbitrary JSON data from a file or URL. Duplicated keys
// within an object keep their last value; when warnOnDuplicates is set
// they are also logged.
func LoadJSON(ctx context.Context, logger zerolog.Logger, path string, warnOnDuplicates bool) (any, error) {
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

	dec := json.NewDecoder(f)
	var dups []string
	data, err := decodeValue(dec, &dups)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding %s", path)
	}
	if warnOnDuplicates && len(dups) > 0 {
		logger.Warn().
			Str("path", path).
			Strs("keys", dups).
			Msgf("duplicated keys found, keeping last values")
	}
	return data, nil
}

// decodeValue walks the token stream so duplicated object keys can be
// observed before the map swallows them.
func decodeValue(dec *json.Decoder, dups *[]string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := make(map[string]any)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key := keyTok.(string)
			if _, seen := obj[key]; seen {
				*dups = append(*dups, key)
			}
			val, err := decodeValue(dec, dups)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec, dups)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, errors.Newf("unexpected token %v", tok)
}

// SaveJSON writes data as JSON, creating parent directories as needed.
func SaveJSON(data any, path string, indent bool) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadJSON reads an array of flat objects into a frame. Column set is the
// sorted union of keys; objects missing a key contribute a null.
func ReadJSON(ctx context.Context, logger zerolog.Logger, path string, keyFields []string) (*frame.Frame, error) {
	data, err := LoadJSON(ctx, logger, path, true)
	if err != nil {
		return nil, err
	}
	records, ok := data.([]any)
	if !ok {
		return nil, errors.Newf("%s is not an array of records", path)
	}

	nameSet := make(map[string]struct{})
	objs := make([]map[string]any, len(records))
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, errors.Newf("%s record %d is not an object", path, i)
		}
		objs[i] = obj
		for name := range obj {
			nameSet[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		values := make([]any, len(objs))
		for i, obj := range objs {
			values[i] = obj[name]
		}
		c, err := frame.NewColumn(name, values)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		cols[j] = c
	}
	f, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	if len(keyFields) > 0 {
		if err := f.SetKey(keyFields...); err != nil {
			return nil, err
		}
	}
	rowsRead.WithLabelValues("json").Add(float64(len(objs)))
	return f, nil
}
