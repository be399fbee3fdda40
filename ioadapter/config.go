package ioadapter

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zmmyslony/vectorslicer"
	"github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/seedline"
)

// knownConfigKeys lists every key ParseFillingConfig and
// ParseSimulationConfig recognise, plus the legacy RepulsionRadius
// (spec.md §6: "legacy (ignored by the engine)"), which must not be
// flagged even though nothing reads it.
var knownConfigKeys = map[string]struct{}{
	"Method":                  {},
	"TerminationRadius":       {},
	"StepLength":              {},
	"PrintRadius":             {},
	"SeedSpacing":             {},
	"Repulsion":               {},
	"RepulsionAngle":          {},
	"Seed":                    {},
	"RepulsionRadius":         {},
	"VectorFilling":           {},
	"VectorSorting":           {},
	"DropIsolatedPoints":      {},
	"MinLineLengthFactor":     {},
	"DiscontinuityAngle":      {},
	"Discontinuity":           {},
	"SplayLineBehaviour":      {},
	"TotalIterationCap":       {},
	"ImprovementIterationCap": {},
	"Noise":                   {},
	"Threads":                 {},
	"SeedsPerEval":            {},
	"FinalSeeds":              {},
	"Percentile":              {},
	"LayerCount":              {},
}

// WarnUnrecognisedKeys logs a warning for every key in path's key-value
// file that ParseFillingConfig/ParseSimulationConfig don't recognise,
// per spec.md §6's "Unknown keys log a warning and are skipped" and §7's
// "Unrecognised configuration key / value: log and continue with
// defaults".
func WarnUnrecognisedKeys(path string) error {
	kv, err := KeyValues(path)
	if err != nil {
		return err
	}
	for key := range kv {
		if _, ok := knownConfigKeys[key]; !ok {
			vectorslicer.Logger().Warn("unrecognised configuration key", "key", key, "file", path)
		}
	}
	return nil
}

// ParseFillingConfig reads a FillingConfig from a config.txt-style
// key-value file, per spec.md §4.K / SPEC_FULL.md §6.
func ParseFillingConfig(path string) (pattern.FillingConfig, error) {
	kv, err := KeyValues(path)
	if err != nil {
		return pattern.FillingConfig{}, err
	}

	var cfg pattern.FillingConfig
	var ferr error
	method, err := parseMethod(kv["Method"])
	ferr = firstErr(ferr, err)
	cfg.Method = method
	cfg.TerminationRadius, err = parseFloatOr(kv, "TerminationRadius", 0)
	ferr = firstErr(ferr, err)
	cfg.StepLength, err = parseFloatOr(kv, "StepLength", 1)
	ferr = firstErr(ferr, err)
	cfg.PrintRadius, err = parseFloatOr(kv, "PrintRadius", 1)
	ferr = firstErr(ferr, err)
	cfg.SeedSpacing, err = parseFloatOr(kv, "SeedSpacing", 2*cfg.PrintRadius)
	ferr = firstErr(ferr, err)
	cfg.Repulsion, err = parseFloatOr(kv, "Repulsion", 0)
	ferr = firstErr(ferr, err)
	cfg.RepulsionAngle, err = parseFloatOr(kv, "RepulsionAngle", 0)
	ferr = firstErr(ferr, err)

	var seed int64
	seed, err = parseIntOr(kv, "Seed", 0)
	ferr = firstErr(ferr, err)
	cfg.Seed = uint64(seed)

	return cfg, ferr
}

// ParseSeeds extracts every value on the Seed line of a config.txt-style
// file, per spec.md §6 "Seed | PRNG seed (one or many; multiple seeds
// expand to multiple configurations)", mirroring the original's
// readMultiSeedConfig. KeyValues keeps only the first token of a
// multi-value line, so this re-reads the raw lines directly. Returns an
// empty slice when there is no Seed line at all.
func ParseSeeds(path string) ([]uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seeds []uint64
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		fields := strings.Fields(strings.ReplaceAll(line, "=", " "))
		if len(fields) < 2 || fields[0] != "Seed" {
			continue
		}
		for _, tok := range fields[1:] {
			v, err := strconv.ParseUint(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ioadapter: field Seed: %w", err)
			}
			seeds = append(seeds, v)
		}
	}
	return seeds, nil
}

// ParseFillingConfigs reads config.txt and expands it into one
// FillingConfig per value in the Seed key, per spec.md §6. A Seed line
// with a single value (or no Seed line at all) yields a single-element
// result equal to what ParseFillingConfig alone would return.
func ParseFillingConfigs(path string) ([]pattern.FillingConfig, error) {
	base, err := ParseFillingConfig(path)
	if err != nil {
		return nil, err
	}
	seeds, err := ParseSeeds(path)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return []pattern.FillingConfig{base}, nil
	}
	configs := make([]pattern.FillingConfig, len(seeds))
	for i, seed := range seeds {
		cfg := base
		cfg.Seed = seed
		configs[i] = cfg
	}
	return configs, nil
}

func parseMethod(s string) (pattern.FillingMethod, error) {
	switch s {
	case "", "Perimeter":
		return pattern.Perimeter, nil
	case "Splay":
		return pattern.Splay, nil
	case "Dual":
		return pattern.Dual, nil
	default:
		return 0, fmt.Errorf("ioadapter: unknown filling method %q", s)
	}
}

func parseFloatOr(kv map[string]string, key string, def float64) (float64, error) {
	v, ok := kv[key]
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("ioadapter: field %s: %w", key, err)
	}
	return f, nil
}

func parseIntOr(kv map[string]string, key string, def int64) (int64, error) {
	v, ok := kv[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("ioadapter: field %s: %w", key, err)
	}
	return n, nil
}

func firstErr(existing, next error) error {
	if existing != nil {
		return existing
	}
	return next
}

// ParseSimulationConfig reads the expanded SimulationConfig groups from
// a single key-value file, per SPEC_FULL.md §6, defaulting any field it
// doesn't find to pattern.DefaultSimulationConfig()'s value.
func ParseSimulationConfig(path string) (pattern.SimulationConfig, error) {
	kv, err := KeyValues(path)
	if err != nil {
		return pattern.SimulationConfig{}, err
	}
	cfg := pattern.DefaultSimulationConfig()
	var ferr error

	cfg.Method.VectorFilling = parseBoolOr(kv, "VectorFilling", cfg.Method.VectorFilling)
	cfg.Method.VectorSorting = parseBoolOr(kv, "VectorSorting", cfg.Method.VectorSorting)
	cfg.Method.DropIsolatedPoints = parseBoolOr(kv, "DropIsolatedPoints", cfg.Method.DropIsolatedPoints)
	cfg.Method.MinLineLengthFactor, err = parseFloatOr(kv, "MinLineLengthFactor", cfg.Method.MinLineLengthFactor)
	ferr = firstErr(ferr, err)
	cfg.Method.DiscontinuityAngle, err = parseFloatOr(kv, "DiscontinuityAngle", cfg.Method.DiscontinuityAngle)
	ferr = firstErr(ferr, err)
	if v, ok := kv["Discontinuity"]; ok {
		cfg.Method.Discontinuity = parseDiscontinuity(v)
	}
	if v, ok := kv["SplayLineBehaviour"]; ok && v == "Boundaries" {
		cfg.Method.SplayLineBehaviour = seedline.Boundaries
	}

	var n int64
	n, err = parseIntOr(kv, "TotalIterationCap", int64(cfg.Bayesian.TotalIterationCap))
	ferr = firstErr(ferr, err)
	cfg.Bayesian.TotalIterationCap = int(n)
	n, err = parseIntOr(kv, "ImprovementIterationCap", int64(cfg.Bayesian.ImprovementIterationCap))
	ferr = firstErr(ferr, err)
	cfg.Bayesian.ImprovementIterationCap = int(n)
	cfg.Bayesian.Noise, err = parseFloatOr(kv, "Noise", cfg.Bayesian.Noise)
	ferr = firstErr(ferr, err)

	n, err = parseIntOr(kv, "Threads", int64(cfg.Aggregation.Threads))
	ferr = firstErr(ferr, err)
	cfg.Aggregation.Threads = int(n)
	n, err = parseIntOr(kv, "SeedsPerEval", int64(cfg.Aggregation.SeedsPerEval))
	ferr = firstErr(ferr, err)
	cfg.Aggregation.SeedsPerEval = int(n)
	n, err = parseIntOr(kv, "FinalSeeds", int64(cfg.Aggregation.FinalSeeds))
	ferr = firstErr(ferr, err)
	cfg.Aggregation.FinalSeeds = int(n)
	cfg.Aggregation.Percentile, err = parseFloatOr(kv, "Percentile", cfg.Aggregation.Percentile)
	ferr = firstErr(ferr, err)
	n, err = parseIntOr(kv, "LayerCount", int64(cfg.Aggregation.LayerCount))
	ferr = firstErr(ferr, err)
	cfg.Aggregation.LayerCount = int(n)

	return cfg, ferr
}

func parseBoolOr(kv map[string]string, key string, def bool) bool {
	v, ok := kv[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseDiscontinuity(s string) pattern.DiscontinuityPolicy {
	switch s {
	case "Stick":
		return pattern.Stick
	case "Terminate":
		return pattern.Terminate
	default:
		return pattern.Ignore
	}
}
