package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zmmyslony/vectorslicer/fill"
	"github.com/zmmyslony/vectorslicer/ioadapter"
	"github.com/zmmyslony/vectorslicer/pathsort"
	"github.com/zmmyslony/vectorslicer/quantify"
)

func newRunCommand() *cobra.Command {
	var inputDir, configPath, outputDir string
	var seedLineAware bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill a single pattern and write its paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			dp, fillCfgs, simCfg, err := loadDesiredPattern(inputDir, configPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}

			// Seed | PRNG seed (one or many; multiple seeds expand to
			// multiple configurations): each one gets its own set of
			// output files, suffixed by seed once there's more than one.
			for _, fillCfg := range fillCfgs {
				suffix := ""
				if len(fillCfgs) > 1 {
					suffix = fmt.Sprintf("_seed%d", fillCfg.Seed)
				}

				fp := fill.New(dp, fillCfg, simCfg.Method)
				fp.Run()
				fp.PostProcess()

				paths := fp.Paths
				if seedLineAware {
					paths = pathsort.SeedLineAware(paths, fillCfg.SeedSpacing)
				} else {
					paths = pathsort.NearestNeighbour(paths, simCfg.Method.VectorSorting)
				}

				if err := ioadapter.WritePaths(filepath.Join(outputDir, "paths"+suffix+".csv"), paths); err != nil {
					return err
				}
				if err := ioadapter.WriteOverlap(filepath.Join(outputDir, "overlap"+suffix+".csv"), paths); err != nil {
					return err
				}
				if err := ioadapter.WriteSeeds(filepath.Join(outputDir, "seeds"+suffix+".csv"), fp); err != nil {
					return err
				}
				if err := ioadapter.WriteFilledMatrix(filepath.Join(outputDir, "filled"+suffix+".csv"), fp.Coverage); err != nil {
					return err
				}

				metrics := quantify.Measure(fp)
				scalar := quantify.Scalar(metrics, simCfg.Weights)
				if err := ioadapter.WriteWinningConfig(filepath.Join(outputDir, "result"+suffix+".txt"), fillCfg, metrics, scalar); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", ".", "directory containing shape.csv and the director field")
	cmd.Flags().StringVar(&configPath, "config", "config.txt", "path to the filling/simulation config file")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory to write paths/overlap/seeds/result files to")
	cmd.Flags().BoolVar(&seedLineAware, "seed-line-aware", false, "sort output paths by originating seed line instead of nearest-neighbour")
	return cmd
}
