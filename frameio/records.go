// Package frameio loads frames from external collaborators: CSV, JSON,
// Excel and Google Sheets sources, local paths or URLs. The diff engine
// itself never touches I/O; everything here only produces in-memory
// frames for it.
package frameio

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rowsRead = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "framediff",
	Subsystem: "frameio",
	Name:      "rows_read",
	Help:      "Number of rows read into frames",
}, []string{"format"})

// fromRecords builds a frame from a header row plus string records,
// inferring each column's kind: int, then float, then bool, falling back
// to string. Empty cells are null. Short records are padded with nulls,
// matching how spreadsheet sources omit trailing cells.
func fromRecords(header []string, records [][]string, keyFields []string) (*frame.Frame, error) {
	if len(header) == 0 {
		return nil, errors.New("no header row")
	}
	cols := make([]*frame.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(records))
		nulls := make([]bool, len(records))
		for i, rec := range records {
			if j >= len(rec) || rec[j] == "" {
				nulls[i] = true
				continue
			}
			raw[i] = rec[j]
		}
		cols[j] = inferColumn(name, raw, nulls)
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
	return f, nil
}

func inferColumn(name string, raw []string, nulls []bool) *frame.Column {
	if ints, ok := tryInts(raw, nulls); ok {
		c, _ := frame.NewColumn(name, ints)
		return c
	}
	if floats, ok := tryFloats(raw, nulls); ok {
		c, _ := frame.NewColumn(name, floats)
		return c
	}
	if bools, ok := tryBools(raw, nulls); ok {
		c, _ := frame.NewColumn(name, bools)
		return c
	}
	values := make([]any, len(raw))
	for i, v := range raw {
		if nulls[i] {
			continue
		}
		values[i] = v
	}
	c, _ := frame.NewColumn(name, values)
	return c
}

func tryInts(raw []string, nulls []bool) ([]any, bool) {
	out := make([]any, len(raw))
	for i, v := range raw {
		if nulls[i] {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func tryFloats(raw []string, nulls []bool) ([]any, bool) {
	out := make([]any, len(raw))
	for i, v := range raw {
		if nulls[i] {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func tryBools(raw []string, nulls []bool) ([]any, bool) {
	out := make([]any, len(raw))
	for i, v := range raw {
		if nulls[i] {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, false
		}
		out[i] = b
	}
	return out, true
}
