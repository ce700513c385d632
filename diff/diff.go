// Package diff computes a navigable description of how two frames differ:
// in columns, in key fields, in row keys, and in cell values under a
// configurable numeric tolerance. Structural mismatches are data, not
// errors; the only error conditions are nil frames and invalid tolerances.
package diff

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/compare"
	"github.com/dataglue/framediff/frame"
)

// Diff is the eagerly computed, immutable result of comparing frame A
// against frame B. Multiple readers may share one instance.
type Diff struct {
	a, b *frame.Frame
	tol  compare.Tolerance

	columnsMissingInA []string
	columnsMissingInB []string

	keyFieldsMissingInA []string
	keyFieldsMissingInB []string

	rowKeysMissingInA []frame.Key
	rowKeysMissingInB []frame.Key

	duplicateKeysInA []frame.Key
	duplicateKeysInB []frame.Key

	sharedColumns []string
	sharedKeys    []frame.Key

	// Minimized disagreement frontier; diffRows/diffCols are nil when the
	// value diff is absent. different is row-major over diffRows x diffCols,
	// true where the cell disagrees.
	diffRows  []frame.Key
	diffCols  []string
	different [][]bool
}

// New diffs a against b. The structural pass always runs; the value pass
// runs only when the frames share at least one column and at least one
// non-duplicated row key.
func New(a, b *frame.Frame, tol compare.Tolerance) (*Diff, error) {
	if a == nil || b == nil {
		return nil, compare.ErrNotAFrame
	}
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	d := &Diff{a: a, b: b, tol: tol}
	d.structuralPass()
	if err := d.valuePass(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Diff) structuralPass() {
	d.columnsMissingInA = missingStrings(d.b.ColumnNames(), d.a.ColumnNames())
	d.columnsMissingInB = missingStrings(d.a.ColumnNames(), d.b.ColumnNames())
	d.sharedColumns = compare.SharedColumns(d.a, d.b)

	d.keyFieldsMissingInA = missingStrings(d.b.KeyFields(), d.a.KeyFields())
	d.keyFieldsMissingInB = missingStrings(d.a.KeyFields(), d.b.KeyFields())

	keysA := d.a.Keys()
	keysB := d.b.Keys()
	d.rowKeysMissingInA = missingKeys(keysB, keysA)
	d.rowKeysMissingInB = missingKeys(keysA, keysB)

	d.duplicateKeysInA = d.a.DuplicateKeys()
	d.duplicateKeysInB = d.b.DuplicateKeys()

	// Keys duplicated in either frame cannot be aligned and are excluded
	// from the value comparison; they are already reported as duplicates.
	excluded := make(map[string]struct{})
	for _, k := range d.duplicateKeysInA {
		excluded[k.Encode()] = struct{}{}
	}
	for _, k := range d.duplicateKeysInB {
		excluded[k.Encode()] = struct{}{}
	}
	inB := make(map[string]struct{}, len(keysB))
	for _, k := range keysB {
		inB[k.Encode()] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, k := range keysA {
		enc := k.Encode()
		if _, ok := inB[enc]; !ok {
			continue
		}
		if _, ok := excluded[enc]; ok {
			continue
		}
		if _, ok := seen[enc]; ok {
			continue
		}
		seen[enc] = struct{}{}
		d.sharedKeys = append(d.sharedKeys, k)
	}
	frame.SortKeys(d.sharedKeys)
}

func (d *Diff) valuePass() error {
	if len(d.sharedColumns) == 0 || len(d.sharedKeys) == 0 {
		return nil
	}
	subA, err := d.a.Select(d.sharedKeys, d.sharedColumns)
	if err != nil {
		return errors.Wrap(err, "slicing frame A")
	}
	subB, err := d.b.Select(d.sharedKeys, d.sharedColumns)
	if err != nil {
		return errors.Wrap(err, "slicing frame B")
	}
	res, err := compare.Frames(subA, subB, d.sharedColumns, d.tol)
	if err != nil {
		return err
	}

	// Minimize the disagreement matrix: drop all-equal rows, then drop
	// all-equal columns among the remaining rows.
	var keptRows []int
	for i := range d.sharedKeys {
		for _, col := range d.sharedColumns {
			if !res.Column(col)[i] {
				keptRows = append(keptRows, i)
				break
			}
		}
	}
	if len(keptRows) == 0 {
		return nil
	}
	var keptCols []string
	for _, col := range d.sharedColumns {
		eq := res.Column(col)
		for _, i := range keptRows {
			if !eq[i] {
				keptCols = append(keptCols, col)
				break
			}
		}
	}

	d.diffCols = keptCols
	d.diffRows = make([]frame.Key, len(keptRows))
	d.different = make([][]bool, len(keptRows))
	for out, i := range keptRows {
		d.diffRows[out] = d.sharedKeys[i]
		row := make([]bool, len(keptCols))
		for j, col := range keptCols {
			row[j] = !res.Column(col)[i]
		}
		d.different[out] = row
	}
	return nil
}

// Tolerance returns the tolerance the diff was computed under.
func (d *Diff) Tolerance() compare.Tolerance {
	return d.tol
}

func (d *Diff) ColumnsMissingInA() []string { return d.columnsMissingInA }
func (d *Diff) ColumnsMissingInB() []string { return d.columnsMissingInB }

func (d *Diff) KeyFieldsMissingInA() []string { return d.keyFieldsMissingInA }
func (d *Diff) KeyFieldsMissingInB() []string { return d.keyFieldsMissingInB }

func (d *Diff) RowKeysMissingInA() []frame.Key { return d.rowKeysMissingInA }
func (d *Diff) RowKeysMissingInB() []frame.Key { return d.rowKeysMissingInB }

func (d *Diff) DuplicateKeysInA() []frame.Key { return d.duplicateKeysInA }
func (d *Diff) DuplicateKeysInB() []frame.Key { return d.duplicateKeysInB }

// SharedColumns returns the sorted columns present in both frames.
func (d *Diff) SharedColumns() []string { return d.sharedColumns }

// SharedKeys returns the sorted row keys present in both frames and
// duplicated in neither.
func (d *Diff) SharedKeys() []frame.Key { return d.sharedKeys }

// KeyFieldHeaders returns the key field names of frame A, used to label
// key components when rendering findings.
func (d *Diff) KeyFieldHeaders() []string { return d.a.KeyFields() }

// StructurallyEqual reports whether the frames agree on columns, key
// fields and row keys, with no duplicate keys in either frame.
func (d *Diff) StructurallyEqual() bool {
	return len(d.columnsMissingInA) == 0 &&
		len(d.columnsMissingInB) == 0 &&
		len(d.keyFieldsMissingInA) == 0 &&
		len(d.keyFieldsMissingInB) == 0 &&
		len(d.rowKeysMissingInA) == 0 &&
		len(d.rowKeysMissingInB) == 0 &&
		len(d.duplicateKeysInA) == 0 &&
		len(d.duplicateKeysInB) == 0
}

// OverlappingValuesEqual reports whether the value diff is absent, i.e.
// no cell in the structural overlap disagrees.
func (d *Diff) OverlappingValuesEqual() bool {
	return d.diffRows == nil
}

// Equal reports full equality: structural equality plus an absent value
// diff.
func (d *Diff) Equal() bool {
	return d.StructurallyEqual() && d.OverlappingValuesEqual()
}

// ValueDiffCount returns the number of disagreeing cells, 0 when the
// value diff is absent.
func (d *Diff) ValueDiffCount() int {
	n := 0
	for _, row := range d.different {
		for _, diff := range row {
			if diff {
				n++
			}
		}
	}
	return n
}

// ColumnsWithDifferences returns the columns appearing in the value diff.
func (d *Diff) ColumnsWithDifferences() []string {
	return d.diffCols
}

// RowsWithDifferences returns the row keys appearing in the value diff.
func (d *Diff) RowsWithDifferences() []frame.Key {
	return d.diffRows
}

// SliceA returns frame A restricted to the disagreement frontier, nil
// when the value diff is absent.
func (d *Diff) SliceA() *frame.Frame {
	return d.slice(d.a)
}

// SliceB returns frame B restricted to the disagreement frontier, nil
// when the value diff is absent.
func (d *Diff) SliceB() *frame.Frame {
	return d.slice(d.b)
}

func (d *Diff) slice(f *frame.Frame) *frame.Frame {
	if d.diffRows == nil {
		return nil
	}
	// Keys and columns come from the value pass, so the selection cannot
	// fail.
	sub, err := f.Select(d.diffRows, d.diffCols)
	if err != nil {
		panic(err)
	}
	return sub
}

// CellDifference is one disagreeing cell, with both sides rendered.
type CellDifference struct {
	Key    frame.Key
	Column string
	A, B   string
}

// Differences enumerates the disagreeing cells in key order.
func (d *Diff) Differences() []CellDifference {
	if d.diffRows == nil {
		return nil
	}
	subA := d.SliceA()
	subB := d.SliceB()
	var out []CellDifference
	for i, key := range d.diffRows {
		for j, col := range d.diffCols {
			if !d.different[i][j] {
				continue
			}
			colA, _ := subA.Column(col)
			colB, _ := subB.Column(col)
			out = append(out, CellDifference{
				Key:    key,
				Column: col,
				A:      colA.Render(i),
				B:      colB.Render(i),
			})
		}
	}
	return out
}

// missingStrings returns the sorted elements of from that are absent
// from in.
func missingStrings(from, in []string) []string {
	present := make(map[string]struct{}, len(in))
	for _, s := range in {
		present[s] = struct{}{}
	}
	var missing []string
	for _, s := range from {
		if _, ok := present[s]; !ok {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	return missing
}

// missingKeys returns the sorted unique keys of from that are absent
// from in.
func missingKeys(from, in []frame.Key) []frame.Key {
	present := make(map[string]struct{}, len(in))
	for _, k := range in {
		present[k.Encode()] = struct{}{}
	}
	seen := make(map[string]struct{})
	var missing []frame.Key
	for _, k := range from {
		enc := k.Encode()
		if _, ok := present[enc]; ok {
			continue
		}
		if _, ok := seen[enc]; ok {
			continue
		}
		seen[enc] = struct{}{}
		missing = append(missing, k)
	}
	frame.SortKeys(missing)
	return missing
}
