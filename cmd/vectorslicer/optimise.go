package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zmmyslony/vectorslicer/bayesopt"
	"github.com/zmmyslony/vectorslicer/fill"
	"github.com/zmmyslony/vectorslicer/ioadapter"
	"github.com/zmmyslony/vectorslicer/quantify"
)

func newOptimiseCommand() *cobra.Command {
	var inputDir, configPath, outputDir string

	cmd := &cobra.Command{
		Use:   "optimise",
		Short: "Run the Bayesian driver to tune the filling parameters and write the winning config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dp, fillCfgs, simCfg, err := loadDesiredPattern(inputDir, configPath)
			if err != nil {
				return err
			}
			// optimise tunes a single configuration; when Seed lists
			// several values only the first is used as the base to tune.
			fillCfg := fillCfgs[0]

			seedsPerEval := make([]uint64, simCfg.Aggregation.SeedsPerEval)
			for i := range seedsPerEval {
				seedsPerEval[i] = uint64(i)
			}

			evalAt := func(params []float64) float64 {
				cfg := fillCfg
				for i, d := range simCfg.Bayesian.Dimensions {
					bayesopt.Apply(d, params[i], &cfg)
				}
				return quantify.Aggregate(seedsPerEval, simCfg.Aggregation.Percentile, simCfg.Aggregation.Threads, func(seed uint64) float64 {
					cfg.Seed = seed
					fp := fill.New(dp, cfg, simCfg.Method)
					fp.Run()
					fp.PostProcess()
					return quantify.Scalar(quantify.Measure(fp), simCfg.Weights)
				})
			}

			trace := bayesopt.Run(fillCfg.PrintRadius, simCfg.Bayesian, evalAt)
			best, ok := bayesopt.Best(trace)
			if !ok {
				return nil
			}

			winningCfg := fillCfg
			for i, d := range simCfg.Bayesian.Dimensions {
				bayesopt.Apply(d, best.Params[i], &winningCfg)
			}

			finalSeeds := make([]uint64, simCfg.Aggregation.FinalSeeds)
			for i := range finalSeeds {
				finalSeeds[i] = uint64(i)
			}
			finalResults := bayesopt.FinalRun(best, simCfg.Aggregation.LayerCount, func(params []float64) []bayesopt.Result {
				results := make([]bayesopt.Result, len(finalSeeds))
				for i, seed := range finalSeeds {
					cfg := winningCfg
					cfg.Seed = seed
					fp := fill.New(dp, cfg, simCfg.Method)
					fp.Run()
					fp.PostProcess()
					results[i] = bayesopt.Result{Params: params, Disagreement: quantify.Scalar(quantify.Measure(fp), simCfg.Weights)}
				}
				return results
			})

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}
			if err := ioadapter.WriteOptimisationTrace(filepath.Join(outputDir, "trace.csv"), trace); err != nil {
				return err
			}

			fp := fill.New(dp, winningCfg, simCfg.Method)
			fp.Run()
			fp.PostProcess()
			metrics := quantify.Measure(fp)
			scalar := quantify.Scalar(metrics, simCfg.Weights)
			if err := ioadapter.WriteWinningConfig(filepath.Join(outputDir, "winning_config.txt"), winningCfg, metrics, scalar); err != nil {
				return err
			}
			return ioadapter.WriteOptimisationTrace(filepath.Join(outputDir, "layers.csv"), finalResults)
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", ".", "directory containing shape.csv and the director field")
	cmd.Flags().StringVar(&configPath, "config", "config.txt", "path to the filling/simulation config file")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory to write the optimisation trace and winning config to")
	return cmd
}
