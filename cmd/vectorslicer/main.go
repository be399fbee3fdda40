// Command vectorslicer drives the director-field slicer end to end: read
// CSV/config inputs, fill a pattern (directly, or through the Bayesian
// optimisation loop), sort the resulting paths, write outputs.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zmmyslony/vectorslicer"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "vectorslicer",
		Short: "Fill a director-field pattern with printable paths",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				vectorslicer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newOptimiseCommand())
	root.AddCommand(newSortCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
