// Package ioadapter reads the external CSV/config-file representation
// of a pattern into the in-memory types the rest of the module operates
// on, and writes the engine's outputs back out, per spec.md §4.K and
// SPEC_FULL.md §6.
package ioadapter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissingField is returned when a required pattern input file is
// absent from the directory being read.
var ErrMissingField = errors.New("ioadapter: missing required field file")

// ReadMatrix reads a CSV file of floats into a [][]float64, one row per
// CSV record. Grounded on
// original_source/source/pattern/importing_and_exporting/OpenFiles.cpp's
// comma-separated row reader.
func ReadMatrix(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(records))
	for i, row := range records {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("ioadapter: %s row %d col %d: %w", path, i, j, err)
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// ReadShapeMask reads shape.csv (non-zero entries are in-shape).
func ReadShapeMask(path string) ([][]bool, error) {
	m, err := ReadMatrix(path)
	if err != nil {
		return nil, err
	}
	mask := make([][]bool, len(m))
	for i, row := range m {
		mask[i] = make([]bool, len(row))
		for j, v := range row {
			mask[i][j] = v != 0
		}
	}
	return mask, nil
}

// ReadDirectorField loads a director field from a directory containing
// either thetaField.csv (an angle in radians per cell) or the pair
// xField.csv/yField.csv, mirroring openPatternFromDirectory's fallback.
func ReadDirectorField(dir string) (dx, dy [][]float64, err error) {
	thetaPath := filepath.Join(dir, "thetaField.csv")
	xPath := filepath.Join(dir, "xField.csv")
	yPath := filepath.Join(dir, "yField.csv")

	if fileExists(thetaPath) {
		theta, err := ReadMatrix(thetaPath)
		if err != nil {
			return nil, nil, err
		}
		dx = make([][]float64, len(theta))
		dy = make([][]float64, len(theta))
		for i, row := range theta {
			dx[i] = make([]float64, len(row))
			dy[i] = make([]float64, len(row))
			for j, t := range row {
				dx[i][j] = math.Cos(t)
				dy[i][j] = math.Sin(t)
			}
		}
		return dx, dy, nil
	}

	if fileExists(xPath) && fileExists(yPath) {
		dx, err = ReadMatrix(xPath)
		if err != nil {
			return nil, nil, err
		}
		dy, err = ReadMatrix(yPath)
		if err != nil {
			return nil, nil, err
		}
		return dx, dy, nil
	}

	return nil, nil, fmt.Errorf("%w: neither thetaField.csv nor xField.csv/yField.csv found in %s", ErrMissingField, dir)
}

// ReadSplay reads an optional splay.csv pair (splayX.csv/splayY.csv); it
// returns ok=false when absent, in which case the caller should compute
// splay from the director field instead (director.ComputeSplay).
func ReadSplay(dir string) (vx, vy [][]float64, ok bool, err error) {
	xPath := filepath.Join(dir, "splayX.csv")
	yPath := filepath.Join(dir, "splayY.csv")
	if !fileExists(xPath) || !fileExists(yPath) {
		return nil, nil, false, nil
	}
	vx, err = ReadMatrix(xPath)
	if err != nil {
		return nil, nil, false, err
	}
	vy, err = ReadMatrix(yPath)
	if err != nil {
		return nil, nil, false, err
	}
	return vx, vy, true, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// KeyValues parses a flat "Key = Value" file with '#'-introduced
// comments and blank lines ignored, the format both config.txt (§4.K)
// and the expanded SimulationConfig file (SPEC_FULL.md §6) share. Only
// the first whitespace-separated token of each value is kept.
func KeyValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if fields := strings.Fields(value); len(fields) > 1 {
			value = fields[0]
		}
		out[key] = value
	}
	return out, nil
}
