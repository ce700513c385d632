package diff

import (
	"fmt"
	"iter"
	"strings"

	"github.com/dataglue/framediff/frame"
)

// DescribeOptions controls report rendering.
type DescribeOptions struct {
	// MaxListItems caps rendered lists; longer lists are shortened in the
	// middle. Zero means the default of 20.
	MaxListItems int
	// ShowShared also reports what overlaps, not just what differs.
	ShowShared bool
	// Preview appends the sliced A/B value tables for inspection.
	Preview bool
}

const defaultMaxListItems = 20

// Describe renders the diff as a finite sequence of human-readable lines,
// one unit of output per logical finding: structural differences first,
// then value differences. The sequence is regenerated deterministically
// on every iteration.
func (d *Diff) Describe(opts DescribeOptions) iter.Seq[string] {
	max := opts.MaxListItems
	if max <= 0 {
		max = defaultMaxListItems
	}
	return func(yield func(string) bool) {
		if d.Equal() {
			yield(fmt.Sprintf(
				"frames are identical (within absolute tolerance %v and relative tolerance %v)",
				d.tol.Abs, d.tol.Rel))
			return
		}

		if !d.describeStructural(yield, max) {
			return
		}
		if !d.describeValues(yield, max) {
			return
		}
		if opts.ShowShared && !d.describeShared(yield, max) {
			return
		}
		if opts.Preview {
			d.describePreview(yield)
		}
	}
}

func (d *Diff) describeStructural(yield func(string) bool, max int) bool {
	if n := len(d.columnsMissingInA); n > 0 {
		desc := fmt.Sprintf("%d %s in frame B missing in frame A",
			n, pluralize(n, "column", "columns"))
		if !yieldList(yield, desc, d.columnsMissingInA) {
			return false
		}
	}
	if n := len(d.columnsMissingInB); n > 0 {
		desc := fmt.Sprintf("%d %s in frame A missing in frame B",
			n, pluralize(n, "column", "columns"))
		if !yieldList(yield, desc, d.columnsMissingInB) {
			return false
		}
	}
	if n := len(d.keyFieldsMissingInA); n > 0 {
		desc := fmt.Sprintf("%d key %s in frame B missing in frame A",
			n, pluralize(n, "field", "fields"))
		if !yieldList(yield, desc, d.keyFieldsMissingInA) {
			return false
		}
	}
	if n := len(d.keyFieldsMissingInB); n > 0 {
		desc := fmt.Sprintf("%d key %s in frame A missing in frame B",
			n, pluralize(n, "field", "fields"))
		if !yieldList(yield, desc, d.keyFieldsMissingInB) {
			return false
		}
	}
	if n := len(d.rowKeysMissingInA); n > 0 {
		desc := fmt.Sprintf("%d row %s in frame B missing in frame A",
			n, pluralize(n, "key", "keys"))
		if !yieldList(yield, desc, compactKeys(d.rowKeysMissingInA, d.b.KeyFields(), max)) {
			return false
		}
	}
	if n := len(d.rowKeysMissingInB); n > 0 {
		desc := fmt.Sprintf("%d row %s in frame A missing in frame B",
			n, pluralize(n, "key", "keys"))
		if !yieldList(yield, desc, compactKeys(d.rowKeysMissingInB, d.a.KeyFields(), max)) {
			return false
		}
	}
	if n := len(d.duplicateKeysInA); n > 0 {
		desc := fmt.Sprintf("%d duplicated row %s in frame A",
			n, pluralize(n, "key", "keys"))
		if !yieldList(yield, desc, compactKeys(d.duplicateKeysInA, d.a.KeyFields(), max)) {
			return false
		}
	}
	if n := len(d.duplicateKeysInB); n > 0 {
		desc := fmt.Sprintf("%d duplicated row %s in frame B",
			n, pluralize(n, "key", "keys"))
		if !yieldList(yield, desc, compactKeys(d.duplicateKeysInB, d.b.KeyFields(), max)) {
			return false
		}
	}
	return true
}

func (d *Diff) describeValues(yield func(string) bool, max int) bool {
	if d.OverlappingValuesEqual() {
		return true
	}
	if !yield("values differ by more than the given absolute and relative tolerances") {
		return false
	}
	if !yield(fmt.Sprintf("differing cells: %d", d.ValueDiffCount())) {
		return false
	}
	if !yieldList(yield, "columns with differences", d.diffCols) {
		return false
	}
	return yieldList(yield, "rows with differences",
		compactKeys(d.diffRows, d.a.KeyFields(), max))
}

func (d *Diff) describeShared(yield func(string) bool, max int) bool {
	if !yieldList(yield, "shared columns", d.sharedColumns) {
		return false
	}
	return yieldList(yield, "shared row keys",
		compactKeys(d.sharedKeys, d.a.KeyFields(), max))
}

func (d *Diff) describePreview(yield func(string) bool) {
	if d.diffRows == nil {
		return
	}
	if !yield("frame A values with differences:") {
		return
	}
	for _, line := range previewLines(d.SliceA(), d.diffRows) {
		if !yield("  " + line) {
			return
		}
	}
	if !yield("frame B values with differences:") {
		return
	}
	for _, line := range previewLines(d.SliceB(), d.diffRows) {
		if !yield("  " + line) {
			return
		}
	}
}

// yieldList emits a multi-item list as a header line followed by indented
// items; a single-item list collapses to "description: item".
func yieldList(yield func(string) bool, description string, items []string) bool {
	switch len(items) {
	case 0:
		return true
	case 1:
		return yield(fmt.Sprintf("%s: %s", description, items[0]))
	default:
		if !yield(description + ":") {
			return false
		}
		for _, item := range items {
			if item == "" {
				continue
			}
			if !yield("  " + item) {
				return false
			}
		}
		return true
	}
}

func previewLines(f *frame.Frame, keys []frame.Key) []string {
	header := append([]string{"key"}, f.ColumnNames()...)
	lines := []string{strings.Join(header, " | ")}
	for i, key := range keys {
		row := []string{key.String()}
		for _, c := range f.Columns() {
			row = append(row, c.Render(i))
		}
		lines = append(lines, strings.Join(row, " | "))
	}
	return lines
}
