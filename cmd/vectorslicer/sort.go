package main

import (
	"github.com/spf13/cobra"

	"github.com/zmmyslony/vectorslicer/ioadapter"
	"github.com/zmmyslony/vectorslicer/pathsort"
)

func newSortCommand() *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Re-order an already-generated path-sequence file by nearest-neighbour travel distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ioadapter.ReadPaths(inputPath)
			if err != nil {
				return err
			}
			ordered := pathsort.NearestNeighbour(paths, false)
			return ioadapter.WritePaths(outputPath, ordered)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "output/paths.csv", "path-sequence file to re-order")
	cmd.Flags().StringVar(&outputPath, "output", "output/paths_sorted.csv", "where to write the re-ordered path-sequence file")
	return cmd
}
