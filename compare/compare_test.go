package compare

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dataglue/framediff/frame"
	"github.com/stretchr/testify/require"
)

func TestColumnsTolerance(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		a, b     *frame.Column
		tol      Tolerance
		expected []bool
	}{
		{
			desc:     "large absolute tolerance all equal",
			a:        frame.IntColumn("col_01", []int64{1, 2}),
			b:        frame.IntColumn("col_01", []int64{2, 3}),
			tol:      Tolerance{Abs: 1, Rel: 1e-8},
			expected: []bool{true, true},
		},
		{
			desc:     "absolute tolerance just below the gap",
			a:        frame.IntColumn("col_01", []int64{1, 2}),
			b:        frame.IntColumn("col_01", []int64{2, 3}),
			tol:      Tolerance{Abs: 0.9, Rel: 1e-8},
			expected: []bool{false, false},
		},
		{
			desc:     "relative tolerance scales against second operand",
			a:        frame.FloatColumn("c", []float64{10}),
			b:        frame.FloatColumn("c", []float64{100}),
			tol:      Tolerance{Abs: 0, Rel: 0.9},
			expected: []bool{true},
		},
		{
			desc:     "relative tolerance mixed",
			a:        frame.FloatColumn("c", []float64{1, 2, 3}),
			b:        frame.FloatColumn("c", []float64{1.1, 2.1, 3.1}),
			tol:      Tolerance{Abs: 1e-8, Rel: 0.05},
			expected: []bool{false, true, true},
		},
		{
			desc:     "int vs float compare numerically",
			a:        frame.IntColumn("c", []int64{1, 2}),
			b:        frame.FloatColumn("c", []float64{1.0, 2.5}),
			tol:      Default(),
			expected: []bool{true, false},
		},
		{
			desc:     "strings bypass tolerance",
			a:        frame.StringColumn("c", []string{"1", "a"}),
			b:        frame.StringColumn("c", []string{"2", "a"}),
			tol:      Tolerance{Abs: 100, Rel: 100},
			expected: []bool{false, true},
		},
		{
			desc:     "numeric vs string compares exactly",
			a:        frame.IntColumn("c", []int64{1, 2}),
			b:        frame.StringColumn("c", []string{"1", "x"}),
			tol:      Tolerance{Abs: 100, Rel: 100},
			expected: []bool{true, false},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			eq, err := Columns(tc.a, tc.b, tc.tol)
			require.NoError(t, err)
			require.Equal(t, tc.expected, eq)
		})
	}
}

func TestColumnsNullEquivalence(t *testing.T) {
	a, err := frame.NewColumn("c", []any{nil, 1.0, nil})
	require.NoError(t, err)
	b, err := frame.NewColumn("c", []any{nil, nil, 2.0})
	require.NoError(t, err)

	// Two nulls compare equal regardless of tolerance; a null against a
	// value never does.
	for _, tol := range []Tolerance{{}, Default(), {Abs: 1e9, Rel: 1e9}} {
		eq, err := Columns(a, b, tol)
		require.NoError(t, err)
		require.Equal(t, []bool{true, false, false}, eq)
	}
}

func TestColumnsStringNulls(t *testing.T) {
	a, err := frame.NewColumn("c", []any{"a", nil})
	require.NoError(t, err)
	b, err := frame.NewColumn("c", []any{"a", nil})
	require.NoError(t, err)
	eq, err := Columns(a, b, Default())
	require.NoError(t, err)
	require.Equal(t, []bool{true, true}, eq)
}

func TestColumnsErrors(t *testing.T) {
	a := frame.IntColumn("c", []int64{1})
	b := frame.IntColumn("c", []int64{1, 2})

	_, err := Columns(a, b, Default())
	require.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = Columns(nil, b, Default())
	require.True(t, errors.Is(err, ErrNotAFrame))

	_, err = Columns(a, a, Tolerance{Abs: -1})
	require.Error(t, err)

	_, err = Columns(a, a, Tolerance{Rel: -1})
	require.Error(t, err)
}

func TestFrames(t *testing.T) {
	a := frame.MustNew(
		frame.IntColumn("col_01", []int64{1, 2, 3}),
		frame.StringColumn("col_02", []string{"a", "b", "c"}),
		frame.IntColumn("only_a", []int64{1, 2, 3}),
	)
	b := frame.MustNew(
		frame.IntColumn("col_01", []int64{1, 2, 0}),
		frame.StringColumn("col_02", []string{"a", "b", "c"}),
	)

	res, err := Frames(a, b, nil, Default())
	require.NoError(t, err)
	// nil columns means the sorted shared columns.
	require.Equal(t, []string{"col_01", "col_02"}, res.Columns)
	require.Equal(t, []bool{true, true, false}, res.Column("col_01"))
	require.Equal(t, []bool{true, true, true}, res.Column("col_02"))
	require.False(t, res.AllEqual())
	require.Nil(t, res.Column("only_a"))
}

func TestFramesEqualValuesDifferentKeys(t *testing.T) {
	// Positional comparison ignores key mismatches entirely.
	a := frame.MustNew(
		frame.IntColumn("col_01", []int64{1, 2, 3}),
		frame.StringColumn("col_02", []string{"a", "b", "c"}),
	)
	require.NoError(t, a.SetKey("col_02"))
	b := frame.MustNew(
		frame.IntColumn("col_01", []int64{1, 2, 3}),
		frame.StringColumn("col_02", []string{"a", "b", "z"}),
	)
	require.NoError(t, b.SetKey("col_02"))

	res, err := Frames(a, b, []string{"col_01"}, Default())
	require.NoError(t, err)
	require.True(t, res.AllEqual())
}

func TestFramesErrors(t *testing.T) {
	a := frame.MustNew(frame.IntColumn("c", []int64{1}))
	b := frame.MustNew(frame.IntColumn("c", []int64{1, 2}))

	_, err := Frames(a, b, nil, Default())
	require.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = Frames(nil, b, nil, Default())
	require.True(t, errors.Is(err, ErrNotAFrame))

	_, err = Frames(a, a, []string{"nope"}, Default())
	require.Error(t, err)
}

func TestToleranceMonotonicity(t *testing.T) {
	a := frame.FloatColumn("c", []float64{1, 2, 3, 4})
	b := frame.FloatColumn("c", []float64{1.5, 2, 2, 8})

	prev := 0
	for _, abs := range []float64{0, 0.5, 1, 4} {
		eq, err := Columns(a, b, Tolerance{Abs: abs})
		require.NoError(t, err)
		n := 0
		for _, ok := range eq {
			if ok {
				n++
			}
		}
		require.GreaterOrEqual(t, n, prev, "equal count must not drop as tolerance grows")
		prev = n
	}
}
