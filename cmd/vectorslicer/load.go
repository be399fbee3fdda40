package main

import (
	"path/filepath"

	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/ioadapter"
	"github.com/zmmyslony/vectorslicer/pattern"
)

// loadDesiredPattern reads shape.csv, the director field and an optional
// splay pair from dir, and the FillingConfig + SimulationConfig from
// configPath, building a pattern.DesiredPattern ready for filling.
//
// configPath's Seed key may list more than one value (spec.md §6:
// "one or many; multiple seeds expand to multiple configurations"), so
// this returns every expanded FillingConfig; callers that only want one
// run should use fillCfgs[0]. The DesiredPattern itself is built once,
// seeded from the first config, since seed-line geometry doesn't depend
// on which seed a given filling run uses.
func loadDesiredPattern(dir, configPath string) (*pattern.DesiredPattern, []pattern.FillingConfig, pattern.SimulationConfig, error) {
	var zeroSim pattern.SimulationConfig

	mask, err := ioadapter.ReadShapeMask(filepath.Join(dir, "shape.csv"))
	if err != nil {
		return nil, nil, zeroSim, err
	}
	dx, dy, err := ioadapter.ReadDirectorField(dir)
	if err != nil {
		return nil, nil, zeroSim, err
	}
	field, err := director.NewField(dx, dy)
	if err != nil {
		return nil, nil, zeroSim, err
	}

	var providedSplay *director.SplayField
	if vx, vy, ok, err := ioadapter.ReadSplay(dir); err != nil {
		return nil, nil, zeroSim, err
	} else if ok {
		providedSplay = &director.SplayField{Vx: vx, Vy: vy, W: field.W, H: field.H}
	}

	if err := ioadapter.WarnUnrecognisedKeys(configPath); err != nil {
		return nil, nil, zeroSim, err
	}
	fillCfgs, err := ioadapter.ParseFillingConfigs(configPath)
	if err != nil {
		return nil, nil, zeroSim, err
	}
	simCfg, err := ioadapter.ParseSimulationConfig(configPath)
	if err != nil {
		return nil, nil, zeroSim, err
	}

	dp, err := pattern.NewDesiredPattern(mask, field, providedSplay, fillCfgs[0].Method, simCfg.Method.SplayLineBehaviour, fillCfgs[0].Seed)
	if err != nil {
		return nil, nil, zeroSim, err
	}
	return dp, fillCfgs, simCfg, nil
}
