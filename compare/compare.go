// Package compare implements tolerant element-wise equality between
// columns and between equal-length frames. Textual and boolean columns
// compare by exact value; numeric columns compare within an absolute and
// a relative tolerance; two nulls are always equal.
package compare

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
)

// DefaultTolerance is the default absolute and relative tolerance.
const DefaultTolerance = 1e-8

var (
	// ErrNotAFrame is returned when an input frame is nil.
	ErrNotAFrame = errors.New("objects to compare are not frames")
	// ErrLengthMismatch is returned when two frames cannot be compared
	// positionally because they have different numbers of rows.
	ErrLengthMismatch = errors.New("frames have different numbers of rows")
)

// Tolerance bounds how far apart two numeric cells may be while still
// comparing equal: |a-b| <= max(Abs, Rel*|b|). Rel scales against the
// second operand only.
type Tolerance struct {
	Abs float64
	Rel float64
}

// Default returns the tolerance used when callers have no opinion.
func Default() Tolerance {
	return Tolerance{Abs: DefaultTolerance, Rel: DefaultTolerance}
}

// Validate rejects negative tolerances eagerly rather than producing
// silently wrong comparisons.
func (t Tolerance) Validate() error {
	if t.Abs < 0 {
		return errors.Newf("absolute tolerance must be >= 0, got %v", t.Abs)
	}
	if t.Rel < 0 {
		return errors.Newf("relative tolerance must be >= 0, got %v", t.Rel)
	}
	return nil
}

func (t Tolerance) close(a, b float64) bool {
	return math.Abs(a-b) <= math.Max(t.Abs, t.Rel*math.Abs(b))
}

// Columns compares two equal-length columns element-wise and returns one
// bool per row, true where the values are considered equal. Tolerance
// applies only when both columns are numeric; otherwise values compare by
// their exact rendered form. Positions that are null on both sides are
// equal regardless of kind or tolerance.
func Columns(a, b *frame.Column, tol Tolerance) ([]bool, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, ErrNotAFrame
	}
	if a.Len() != b.Len() {
		return nil, errors.Wrapf(ErrLengthMismatch,
			"column %s has %d rows, column %s has %d", a.Name, a.Len(), b.Name, b.Len())
	}
	numeric := a.Kind.Numeric() && b.Kind.Numeric()
	eq := make([]bool, a.Len())
	for i := range eq {
		aNull, bNull := a.IsNull(i), b.IsNull(i)
		switch {
		case aNull && bNull:
			eq[i] = true
		case aNull != bNull:
			eq[i] = false
		case numeric:
			eq[i] = tol.close(a.Float(i), b.Float(i))
		default:
			eq[i] = a.Render(i) == b.Render(i)
		}
	}
	return eq, nil
}

// Result is the dense outcome of an equal-shape frame comparison: one
// bool vector per compared column.
type Result struct {
	Columns []string
	equal   map[string][]bool
}

// Column returns the equality vector for the named column, nil if the
// column was not compared.
func (r *Result) Column(name string) []bool {
	return r.equal[name]
}

// AllEqual reports whether every compared cell was equal.
func (r *Result) AllEqual() bool {
	for _, eq := range r.equal {
		for _, ok := range eq {
			if !ok {
				return false
			}
		}
	}
	return true
}

// Frames compares two frames positionally, column by column. Both frames
// must be non-nil and have the same number of rows; this comparator does
// no key-based alignment. cols selects the columns to compare, all of
// which must exist in both frames; nil means the sorted set of columns
// common to both.
func Frames(a, b *frame.Frame, cols []string, tol Tolerance) (*Result, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, ErrNotAFrame
	}
	if a.NumRows() != b.NumRows() {
		return nil, errors.Wrapf(ErrLengthMismatch,
			"%d rows vs %d rows", a.NumRows(), b.NumRows())
	}
	if cols == nil {
		cols = SharedColumns(a, b)
	}
	res := &Result{
		Columns: cols,
		equal:   make(map[string][]bool, len(cols)),
	}
	for _, name := range cols {
		colA, okA := a.Column(name)
		colB, okB := b.Column(name)
		if !okA || !okB {
			return nil, errors.Newf("column %q does not exist in both frames", name)
		}
		eq, err := Columns(colA, colB, tol)
		if err != nil {
			return nil, err
		}
		res.equal[name] = eq
	}
	return res, nil
}

// SharedColumns returns the sorted intersection of the two frames'
// column sets.
func SharedColumns(a, b *frame.Frame) []string {
	inB := make(map[string]struct{})
	for _, name := range b.ColumnNames() {
		inB[name] = struct{}{}
	}
	var shared []string
	for _, name := range a.ColumnNames() {
		if _, ok := inB[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}
