// Package report fans diff findings out to consumers as typed objects:
// a zerolog-backed reporter for operators, a writer-backed reporter for
// plain output, and a combinator over both.
package report

import (
	"fmt"
	"io"

	"github.com/dataglue/framediff/diff"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
)

type ReportableObject interface{}

// MissingColumns reports columns absent from one frame.
type MissingColumns struct {
	// In names the frame the columns are missing from ("A" or "B").
	In      string
	Columns []string
}

// MissingKeyFields reports key fields absent from one frame.
type MissingKeyFields struct {
	In     string
	Fields []string
}

// MissingRows reports row keys absent from one frame's key set.
type MissingRows struct {
	In        string
	KeyFields []string
	Keys      []frame.Key
}

// DuplicateRows reports row keys occurring more than once within a frame.
type DuplicateRows struct {
	In   string
	Keys []frame.Key
}

// MismatchingCell reports one cell disagreement inside the structural
// overlap.
type MismatchingCell struct {
	Key    frame.Key
	Column string
	ValueA string
	ValueB string
}

type StatusReport struct {
	Info string
}

type Reporter interface {
	Report(obj ReportableObject)
	Close()
}

type CombinedReporter struct {
	Reporters []Reporter
}

func (c CombinedReporter) Report(obj ReportableObject) {
	for _, r := range c.Reporters {
		r.Report(obj)
	}
}

func (c CombinedReporter) Close() {
	for _, r := range c.Reporters {
		r.Close()
	}
}

// LogReporter reports to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case MissingColumns:
		l.Warn().
			Str("missing_in", obj.In).
			Strs("columns", obj.Columns).
			Msgf("missing columns detected")
	case MissingKeyFields:
		l.Warn().
			Str("missing_in", obj.In).
			Strs("key_fields", obj.Fields).
			Msgf("missing key fields detected")
	case MissingRows:
		l.Warn().
			Str("missing_in", obj.In).
			Strs("row_keys", renderKeys(obj.Keys)).
			Msgf("missing rows detected")
	case DuplicateRows:
		l.Warn().
			Str("duplicated_in", obj.In).
			Strs("row_keys", renderKeys(obj.Keys)).
			Msgf("duplicate row keys detected")
	case MismatchingCell:
		l.Warn().
			Str("row_key", obj.Key.String()).
			Str("column", obj.Column).
			Str("value_a", obj.ValueA).
			Str("value_b", obj.ValueB).
			Msgf("mismatching cell value")
	case StatusReport:
		l.Info().Msg(obj.Info)
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", obj)).
			Msgf("unknown object type")
	}
}

func (l LogReporter) Close() {
}

// WriterReporter writes one plain line per finding, for piping to files.
type WriterReporter struct {
	Writer io.Writer
}

func (w WriterReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case MissingColumns:
		fmt.Fprintf(w.Writer, "missing columns in frame %s: %v\n", obj.In, obj.Columns)
	case MissingKeyFields:
		fmt.Fprintf(w.Writer, "missing key fields in frame %s: %v\n", obj.In, obj.Fields)
	case MissingRows:
		fmt.Fprintf(w.Writer, "missing rows in frame %s: %v\n", obj.In, renderKeys(obj.Keys))
	case DuplicateRows:
		fmt.Fprintf(w.Writer, "duplicate row keys in frame %s: %v\n", obj.In, renderKeys(obj.Keys))
	case MismatchingCell:
		fmt.Fprintf(w.Writer, "mismatching cell at key %s, column %s: %s != %s\n",
			obj.Key, obj.Column, obj.ValueA, obj.ValueB)
	case StatusReport:
		fmt.Fprintln(w.Writer, obj.Info)
	}
}

func (w WriterReporter) Close() {
}

func renderKeys(keys []frame.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// ReportDiff walks a computed diff and emits each finding to the
// reporter, structural findings first.
func ReportDiff(d *diff.Diff, r Reporter) {
	if d.Equal() {
		tol := d.Tolerance()
		r.Report(StatusReport{Info: fmt.Sprintf(
			"frames are identical (within absolute tolerance %v and relative tolerance %v)",
			tol.Abs, tol.Rel)})
		return
	}
	if cols := d.ColumnsMissingInA(); len(cols) > 0 {
		r.Report(MissingColumns{In: "A", Columns: cols})
	}
	if cols := d.ColumnsMissingInB(); len(cols) > 0 {
		r.Report(MissingColumns{In: "B", Columns: cols})
	}
	if fields := d.KeyFieldsMissingInA(); len(fields) > 0 {
		r.Report(MissingKeyFields{In: "A", Fields: fields})
	}
	if fields := d.KeyFieldsMissingInB(); len(fields) > 0 {
		r.Report(MissingKeyFields{In: "B", Fields: fields})
	}
	if keys := d.RowKeysMissingInA(); len(keys) > 0 {
		r.Report(MissingRows{In: "A", KeyFields: d.KeyFieldHeaders(), Keys: keys})
	}
	if keys := d.RowKeysMissingInB(); len(keys) > 0 {
		r.Report(MissingRows{In: "B", KeyFields: d.KeyFieldHeaders(), Keys: keys})
	}
	if keys := d.DuplicateKeysInA(); len(keys) > 0 {
		r.Report(DuplicateRows{In: "A", Keys: keys})
	}
	if keys := d.DuplicateKeysInB(); len(keys) > 0 {
		r.Report(DuplicateRows{In: "B", Keys: keys})
	}
	for _, cell := range d.Differences() {
		r.Report(MismatchingCell{
			Key:    cell.Key,
			Column: cell.Column,
			ValueA: cell.A,
			ValueB: cell.B,
		})
	}
}
