package report

import (
	"bytes"
	"testing"

	"github.com/dataglue/framediff/compare"
	"github.com/dataglue/framediff/diff"
	"github.com/dataglue/framediff/frame"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func buildDiff(t *testing.T) *diff.Diff {
	t.Helper()
	a := frame.MustNew(
		frame.StringColumn("id", []string{"x", "y"}),
		frame.IntColumn("v", []int64{1, 2}),
		frame.IntColumn("only_a", []int64{0, 0}),
	)
	require.NoError(t, a.SetKey("id"))
	b := frame.MustNew(
		frame.StringColumn("id", []string{"x", "z"}),
		frame.IntColumn("v", []int64{9, 2}),
	)
	require.NoError(t, b.SetKey("id"))

	d, err := diff.New(a, b, compare.Default())
	require.NoError(t, err)
	return d
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	r := WriterReporter{Writer: &buf}
	ReportDiff(buildDiff(t), r)
	r.Close()

	out := buf.String()
	require.Contains(t, out, "missing columns in frame B: [only_a]")
	require.Contains(t, out, "missing rows in frame A: [z]")
	require.Contains(t, out, "missing rows in frame B: [y]")
	require.Contains(t, out, "mismatching cell at key x, column v: 1 != 9")
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := LogReporter{Logger: zerolog.New(&buf)}
	ReportDiff(buildDiff(t), r)
	r.Close()

	out := buf.String()
	require.Contains(t, out, "missing columns detected")
	require.Contains(t, out, "missing rows detected")
	require.Contains(t, out, "mismatching cell value")
}

func TestCombinedReporter(t *testing.T) {
	var bufA, bufB bytes.Buffer
	r := CombinedReporter{Reporters: []Reporter{
		WriterReporter{Writer: &bufA},
		WriterReporter{Writer: &bufB},
	}}
	r.Report(StatusReport{Info: "in progress"})
	r.Close()
	require.Equal(t, "in progress\n", bufA.String())
	require.Equal(t, bufA.String(), bufB.String())
}

func TestReportDiffEqual(t *testing.T) {
	f := func() *frame.Frame {
		out := frame.MustNew(frame.IntColumn("v", []int64{1, 2}))
		return out
	}
	d, err := diff.New(f(), f(), compare.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	ReportDiff(d, WriterReporter{Writer: &buf})
	require.Contains(t, buf.String(), "frames are identical")
}
