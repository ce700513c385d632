package compare

import (
	"context"
	"fmt"
	"os"

	"github.com/dataglue/framediff/cmd/internal/cmdutil"
	"github.com/dataglue/framediff/compare"
	"github.com/dataglue/framediff/diff"
	"github.com/dataglue/framediff/frame"
	"github.com/dataglue/framediff/frameio"
	"github.com/dataglue/framediff/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func Command() *cobra.Command {
	var (
		keyFields    []string
		absTolerance float64
		relTolerance float64
		maxListItems int
		showShared   bool
		preview      bool
		reportFile   string
	)

	cmd := &cobra.Command{
		Use:   "compare <fileA> <fileB>",
		Short: "Compare two tabular files and report how they differ.",
		Long:  `Compare loads two tabular files (csv, json or xlsx, local paths or URLs), diffs them structurally and by value under the given tolerances, and prints one line per finding. Exits with status 1 when the frames differ.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			ctx := context.Background()
			var frames [2]*frame.Frame
			g, gCtx := errgroup.WithContext(ctx)
			for i, path := range args {
				g.Go(func() error {
					f, err := frameio.Read(gCtx, logger, path, keyFields)
					if err != nil {
						return err
					}
					frames[i] = f
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			tol := compare.Tolerance{Abs: absTolerance, Rel: relTolerance}
			d, err := diff.New(frames[0], frames[1], tol)
			if err != nil {
				return err
			}
			for line := range d.Describe(diff.DescribeOptions{
				MaxListItems: maxListItems,
				ShowShared:   showShared,
				Preview:      preview,
			}) {
				fmt.Println(line)
			}
			if reportFile != "" {
				f, err := os.Create(reportFile)
				if err != nil {
					return err
				}
				reporter := report.CombinedReporter{Reporters: []report.Reporter{
					report.LogReporter{Logger: logger},
					report.WriterReporter{Writer: f},
				}}
				report.ReportDiff(d, reporter)
				reporter.Close()
				if err := f.Close(); err != nil {
					return err
				}
			}
			if !d.Equal() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringSliceVar(
		&keyFields,
		"key",
		nil,
		"column(s) forming the row key used to align rows across the two files",
	)
	cmd.PersistentFlags().Float64Var(
		&absTolerance,
		"absolute-tolerance",
		compare.DefaultTolerance,
		"absolute tolerance for numeric cell comparison",
	)
	cmd.PersistentFlags().Float64Var(
		&relTolerance,
		"relative-tolerance",
		compare.DefaultTolerance,
		"relative tolerance for numeric cell comparison, scaled against the second file",
	)
	cmd.PersistentFlags().IntVar(
		&maxListItems,
		"max-list-items",
		0,
		"maximum items to render per list before truncating (0 uses the default)",
	)
	cmd.PersistentFlags().BoolVar(
		&showShared,
		"show-shared",
		false,
		"also report the shared columns and row keys, not just what differs",
	)
	cmd.PersistentFlags().BoolVar(
		&preview,
		"preview",
		false,
		"append the sliced A/B value tables for inspection",
	)
	cmd.PersistentFlags().StringVar(
		&reportFile,
		"report-file",
		"",
		"also write one line per finding to this file and log each finding",
	)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	return cmd
}
