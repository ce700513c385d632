package diff

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/compare"
	"github.com/dataglue/framediff/frame"
	"github.com/stretchr/testify/require"
)

func keyedFrame(t *testing.T, keys []string, cols ...*frame.Column) *frame.Frame {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	if len(keys) > 0 {
		require.NoError(t, f.SetKey(keys...))
	}
	return f
}

func TestNewErrors(t *testing.T) {
	f := frame.MustNew(frame.IntColumn("c", []int64{1}))

	_, err := New(nil, f, compare.Default())
	require.True(t, errors.Is(err, compare.ErrNotAFrame))

	_, err = New(f, nil, compare.Default())
	require.True(t, errors.Is(err, compare.ErrNotAFrame))

	_, err = New(f, f, compare.Tolerance{Abs: -1})
	require.Error(t, err)
}

func TestReflexivity(t *testing.T) {
	build := func() *frame.Frame {
		return keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a", "b", "c"}),
			frame.FloatColumn("v", []float64{1.5, 2.5, 3.5}),
			frame.BoolColumn("flag", []bool{true, false, true}),
		)
	}
	for _, tol := range []compare.Tolerance{{}, compare.Default(), {Abs: 10, Rel: 10}} {
		d, err := New(build(), build(), tol)
		require.NoError(t, err)
		require.True(t, d.StructurallyEqual())
		require.True(t, d.OverlappingValuesEqual())
		require.True(t, d.Equal())
		require.Zero(t, d.ValueDiffCount())
		require.Nil(t, d.SliceA())
		require.Nil(t, d.SliceB())
	}
}

func TestMissingColumn(t *testing.T) {
	a := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b"}),
		frame.IntColumn("col_01", []int64{1, 2}),
		frame.IntColumn("col_04", []int64{9, 9}),
	)
	b := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b"}),
		frame.IntColumn("col_01", []int64{1, 5}),
	)

	d, err := New(a, b, compare.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"col_04"}, d.ColumnsMissingInB())
	require.Empty(t, d.ColumnsMissingInA())
	require.False(t, d.StructurallyEqual())
	require.False(t, d.Equal())

	// The value diff is still computed over the remaining shared columns.
	require.Equal(t, 1, d.ValueDiffCount())
	require.Equal(t, []string{"col_01"}, d.ColumnsWithDifferences())
	require.Equal(t, []frame.Key{{"b"}}, d.RowsWithDifferences())
}

func TestRowKeyMismatch(t *testing.T) {
	a := keyedFrame(t, []string{"col_02"},
		frame.IntColumn("col_01", []int64{1, 2, 3}),
		frame.StringColumn("col_02", []string{"a", "b", "c"}),
	)
	b := keyedFrame(t, []string{"col_02"},
		frame.IntColumn("col_01", []int64{1, 2, 3}),
		frame.StringColumn("col_02", []string{"a", "b", "z"}),
	)

	d, err := New(a, b, compare.Default())
	require.NoError(t, err)
	require.False(t, d.StructurallyEqual())
	require.False(t, d.Equal())
	require.Equal(t, []frame.Key{{"z"}}, d.RowKeysMissingInA())
	require.Equal(t, []frame.Key{{"c"}}, d.RowKeysMissingInB())

	// The overlap ("a" and "b") agrees on every value.
	require.True(t, d.OverlappingValuesEqual())
	require.Equal(t, []frame.Key{{"a"}, {"b"}}, d.SharedKeys())
}

func TestKeyFieldMismatch(t *testing.T) {
	a := keyedFrame(t, []string{"country"},
		frame.StringColumn("country", []string{"spain"}),
		frame.IntColumn("year", []int64{2000}),
		frame.FloatColumn("v", []float64{1}),
	)
	b := keyedFrame(t, []string{"country", "year"},
		frame.StringColumn("country", []string{"spain"}),
		frame.IntColumn("year", []int64{2000}),
		frame.FloatColumn("v", []float64{1}),
	)

	d, err := New(a, b, compare.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"year"}, d.KeyFieldsMissingInA())
	require.Empty(t, d.KeyFieldsMissingInB())
	require.False(t, d.StructurallyEqual())
}

func TestDetectionSymmetry(t *testing.T) {
	x := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b"}),
		frame.IntColumn("p", []int64{1, 2}),
	)
	y := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "c"}),
		frame.IntColumn("q", []int64{1, 2}),
	)

	xy, err := New(x, y, compare.Default())
	require.NoError(t, err)
	yx, err := New(y, x, compare.Default())
	require.NoError(t, err)

	require.Equal(t, xy.ColumnsMissingInA(), yx.ColumnsMissingInB())
	require.Equal(t, xy.ColumnsMissingInB(), yx.ColumnsMissingInA())
	require.Equal(t, xy.RowKeysMissingInA(), yx.RowKeysMissingInB())
	require.Equal(t, xy.RowKeysMissingInB(), yx.RowKeysMissingInA())
}

func TestIdempotence(t *testing.T) {
	build := func() [2]*frame.Frame {
		a := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a", "b", "c"}),
			frame.FloatColumn("v", []float64{1, 2, 3}),
		)
		b := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a", "b", "d"}),
			frame.FloatColumn("v", []float64{1, 9, 3}),
		)
		return [2]*frame.Frame{a, b}
	}
	f1 := build()
	f2 := build()
	d1, err := New(f1[0], f1[1], compare.Default())
	require.NoError(t, err)
	d2, err := New(f2[0], f2[1], compare.Default())
	require.NoError(t, err)

	require.Equal(t, d1.RowKeysMissingInA(), d2.RowKeysMissingInA())
	require.Equal(t, d1.RowKeysMissingInB(), d2.RowKeysMissingInB())
	require.Equal(t, d1.ValueDiffCount(), d2.ValueDiffCount())
	require.Equal(t, d1.ColumnsWithDifferences(), d2.ColumnsWithDifferences())
	require.Equal(t, d1.RowsWithDifferences(), d2.RowsWithDifferences())
	require.Equal(t, d1.Differences(), d2.Differences())
}

func TestSparsityInvariant(t *testing.T) {
	// Only (b, v2) and (d, v3) disagree: rows a/c and column v1 must be
	// minimized away.
	a := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b", "c", "d"}),
		frame.IntColumn("v1", []int64{1, 1, 1, 1}),
		frame.IntColumn("v2", []int64{2, 2, 2, 2}),
		frame.IntColumn("v3", []int64{3, 3, 3, 3}),
	)
	b := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b", "c", "d"}),
		frame.IntColumn("v1", []int64{1, 1, 1, 1}),
		frame.IntColumn("v2", []int64{2, 9, 2, 2}),
		frame.IntColumn("v3", []int64{3, 3, 3, 9}),
	)

	d, err := New(a, b, compare.Default())
	require.NoError(t, err)
	require.True(t, d.StructurallyEqual())
	require.False(t, d.OverlappingValuesEqual())
	require.Equal(t, 2, d.ValueDiffCount())
	require.Equal(t, []string{"v2", "v3"}, d.ColumnsWithDifferences())
	require.Equal(t, []frame.Key{{"b"}, {"d"}}, d.RowsWithDifferences())

	// Every surviving row and column carries at least one disagreement.
	for i := range d.RowsWithDifferences() {
		found := false
		for j := range d.ColumnsWithDifferences() {
			found = found || d.different[i][j]
		}
		require.True(t, found)
	}
	for j := range d.ColumnsWithDifferences() {
		found := false
		for i := range d.RowsWithDifferences() {
			found = found || d.different[i][j]
		}
		require.True(t, found)
	}

	sliceA := d.SliceA()
	require.Equal(t, 2, sliceA.NumRows())
	require.Equal(t, []string{"v2", "v3"}, sliceA.ColumnNames())

	diffs := d.Differences()
	require.Equal(t, []CellDifference{
		{Key: frame.Key{"b"}, Column: "v2", A: "2", B: "9"},
		{Key: frame.Key{"d"}, Column: "v3", A: "3", B: "9"},
	}, diffs)
}

func TestDuplicateKeys(t *testing.T) {
	a := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "a", "b"}),
		frame.IntColumn("v", []int64{1, 1, 2}),
	)
	b := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"a", "b"}),
		frame.IntColumn("v", []int64{1, 99}),
	)

	d, err := New(a, b, compare.Default())
	require.NoError(t, err)
	require.Equal(t, []frame.Key{{"a"}}, d.DuplicateKeysInA())
	require.Empty(t, d.DuplicateKeysInB())
	require.False(t, d.StructurallyEqual())

	// The duplicated key is excluded from the value comparison; "b" still
	// gets compared.
	require.Equal(t, []frame.Key{{"b"}}, d.SharedKeys())
	require.Equal(t, 1, d.ValueDiffCount())
	require.Equal(t, []frame.Key{{"b"}}, d.RowsWithDifferences())
}

func TestNoOverlapSkipsValueDiff(t *testing.T) {
	t.Run("disjoint columns", func(t *testing.T) {
		a := frame.MustNew(frame.IntColumn("p", []int64{1}))
		b := frame.MustNew(frame.IntColumn("q", []int64{2}))
		d, err := New(a, b, compare.Default())
		require.NoError(t, err)
		require.True(t, d.OverlappingValuesEqual())
		require.False(t, d.StructurallyEqual())
		require.Zero(t, d.ValueDiffCount())
	})

	t.Run("disjoint keys", func(t *testing.T) {
		a := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a"}),
			frame.IntColumn("v", []int64{1}),
		)
		b := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"z"}),
			frame.IntColumn("v", []int64{2}),
		)
		d, err := New(a, b, compare.Default())
		require.NoError(t, err)
		require.True(t, d.OverlappingValuesEqual())
		require.False(t, d.StructurallyEqual())
	})
}

func TestToleranceMonotonicity(t *testing.T) {
	build := func() [2]*frame.Frame {
		a := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a", "b", "c"}),
			frame.FloatColumn("v", []float64{1, 2, 3}),
		)
		b := keyedFrame(t, []string{"id"},
			frame.StringColumn("id", []string{"a", "b", "c"}),
			frame.FloatColumn("v", []float64{1.2, 2.8, 30}),
		)
		return [2]*frame.Frame{a, b}
	}
	prev := -1
	for _, abs := range []float64{30, 1, 0.5, 0} {
		f := build()
		d, err := New(f[0], f[1], compare.Tolerance{Abs: abs})
		require.NoError(t, err)
		if prev >= 0 {
			require.GreaterOrEqual(t, d.ValueDiffCount(), prev,
				"shrinking tolerance must not reduce differences")
		}
		prev = d.ValueDiffCount()
	}
}

func TestBothNullCellsEqual(t *testing.T) {
	colA, err := frame.NewColumn("v", []any{nil, 1.0})
	require.NoError(t, err)
	colB, err := frame.NewColumn("v", []any{nil, 1.0})
	require.NoError(t, err)
	a := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"x", "y"}), colA)
	b := keyedFrame(t, []string{"id"},
		frame.StringColumn("id", []string{"x", "y"}), colB)

	d, err := New(a, b, compare.Tolerance{})
	require.NoError(t, err)
	require.True(t, d.Equal())
}
