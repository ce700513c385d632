package frameio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(`country,year,value,flag
spain,2000,1.5,true
france,2001,,false
spain,2002,3,true
`), 0644))

	f, err := ReadCSV(context.Background(), zerolog.New(os.Stdout), path, CSVOptions{
		KeyFields: []string{"country", "year"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, f.NumRows())
	require.Equal(t, []string{"country", "year", "value", "flag"}, f.ColumnNames())
	require.Equal(t, []string{"country", "year"}, f.KeyFields())

	year, ok := f.Column("year")
	require.True(t, ok)
	require.Equal(t, frame.KindInt, year.Kind)

	value, ok := f.Column("value")
	require.True(t, ok)
	require.Equal(t, frame.KindFloat, value.Kind)
	require.True(t, value.IsNull(1))

	flag, ok := f.Column("flag")
	require.True(t, ok)
	require.Equal(t, frame.KindBool, flag.Kind)

	country, ok := f.Column("country")
	require.True(t, ok)
	require.Equal(t, frame.KindString, country.Kind)
	require.Equal(t, frame.Key{"france", "2001"}, f.KeyAt(1))
}

func TestReadCSVNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err := ReadCSV(context.Background(), zerolog.New(os.Stdout), path, CSVOptions{})
	require.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := frame.MustNew(
		frame.StringColumn("id", []string{"a", "b"}),
		frame.FloatColumn("v", []float64{1.5, 2.5}),
	)
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, f))

	read, err := ReadCSV(context.Background(), zerolog.New(os.Stdout), path, CSVOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, read.NumRows())
	v, ok := read.Column("v")
	require.True(t, ok)
	require.Equal(t, "2.5", v.Render(1))
}

func TestWriteCSVCreateError(t *testing.T) {
	f := frame.MustNew(frame.IntColumn("v", []int64{1}))
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), f)
	require.Error(t, err)
}
