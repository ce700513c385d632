package cmd

import (
	"fmt"
	"os"

	comparecmd "github.com/dataglue/framediff/cmd/compare"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framediff",
	Short: "Structural and value diffing for tabular datasets",
	Long:  `framediff compares two tabular datasets of possibly different shape and reports how they differ in columns, row keys and cell values, under configurable numeric tolerance.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(comparecmd.Command())
}
