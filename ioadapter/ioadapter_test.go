package ioadapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/fill"
	vpattern "github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/quantify"
	"github.com/zmmyslony/vectorslicer/seedline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadMatrix(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "m.csv", "1,2,3\n4,5,6\n")

	m, err := ReadMatrix(p)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, []float64{1, 2, 3}, m[0])
	assert.Equal(t, []float64{4, 5, 6}, m[1])
}

func TestReadShapeMask(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "shape.csv", "0,1\n1,0\n")

	mask, err := ReadShapeMask(p)
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{false, true}, {true, false}}, mask)
}

func TestReadDirectorField_PrefersTheta(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "thetaField.csv", "0,0\n")

	dx, dy, err := ReadDirectorField(dir)
	require.NoError(t, err)
	require.Len(t, dx, 1)
	assert.InDelta(t, 1, dx[0][0], 1e-9)
	assert.InDelta(t, 0, dy[0][0], 1e-9)
}

func TestReadDirectorField_FallsBackToXY(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "xField.csv", "1,1\n")
	writeFile(t, dir, "yField.csv", "0,0\n")

	dx, dy, err := ReadDirectorField(dir)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, dx[0])
	assert.Equal(t, []float64{0, 0}, dy[0])
}

func TestReadDirectorField_MissingReturnsError(t *testing.T) {
	dir := t.TempDir()
	_, _, err := ReadDirectorField(dir)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestReadSplay_AbsentReturnsOkFalse(t *testing.T) {
	dir := t.TempDir()
	_, _, ok, err := ReadSplay(dir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyValues(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.txt", "# comment\nMethod = Splay\n\nSeed = 7 # trailing comment\n")

	kv, err := KeyValues(p)
	require.NoError(t, err)
	assert.Equal(t, "Splay", kv["Method"])
	assert.Equal(t, "7", kv["Seed"])
}

func TestParseFillingConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.txt", "Method = Dual\nPrintRadius = 4\nSeedSpacing = 9\nRepulsion = 0.5\n")

	cfg, err := ParseFillingConfig(p)
	require.NoError(t, err)
	assert.Equal(t, vpattern.Dual, cfg.Method)
	assert.InDelta(t, 4, cfg.PrintRadius, 1e-9)
	assert.InDelta(t, 9, cfg.SeedSpacing, 1e-9)
	assert.InDelta(t, 0.5, cfg.Repulsion, 1e-9)
}

func TestParseSimulationConfig_DefaultsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "simulation.txt", "Threads = 4\nDiscontinuity = Terminate\n")

	cfg, err := ParseSimulationConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Aggregation.Threads)
	assert.Equal(t, vpattern.Terminate, cfg.Method.Discontinuity)
	// untouched field keeps the default.
	assert.Equal(t, vpattern.DefaultSimulationConfig().Bayesian.TotalIterationCap, cfg.Bayesian.TotalIterationCap)
}

func buildFilled(t *testing.T) *fill.FilledPattern {
	t.Helper()
	w, h := 40, 40
	Dx := make([][]float64, h)
	Dy := make([][]float64, h)
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		Dx[y] = make([]float64, w)
		Dy[y] = make([]float64, w)
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			Dx[y][x], Dy[y][x] = 1, 0
			mask[y][x] = x >= 10 && x < 30 && y >= 10 && y < 30
		}
	}
	field, err := director.NewField(Dx, Dy)
	require.NoError(t, err)
	dp, err := vpattern.NewDesiredPattern(mask, field, nil, vpattern.Perimeter, seedline.Centres, 0)
	require.NoError(t, err)

	config := vpattern.FillingConfig{
		Method: vpattern.Perimeter, StepLength: 8, PrintRadius: 4, SeedSpacing: 8, Seed: 0,
	}
	fp := fill.New(dp, config, vpattern.DefaultSimulationConfig().Method)
	fp.Run()
	fp.PostProcess()
	return fp
}

func TestWritePathsAndOverlap(t *testing.T) {
	fp := buildFilled(t)
	require.NotEmpty(t, fp.Paths)

	dir := t.TempDir()
	pathsFile := filepath.Join(dir, "paths.csv")
	overlapFile := filepath.Join(dir, "overlap.csv")

	require.NoError(t, WritePaths(pathsFile, fp.Paths))
	require.NoError(t, WriteOverlap(overlapFile, fp.Paths))

	m, err := ReadMatrix(pathsFile)
	require.NoError(t, err)
	assert.Len(t, m, len(fp.Paths))
	for i, row := range m {
		assert.Equal(t, 2*fp.Paths[i].Len(), len(row))
	}
}

func TestWritePathsAndReadPathsRoundTrip(t *testing.T) {
	fp := buildFilled(t)
	require.NotEmpty(t, fp.Paths)

	dir := t.TempDir()
	pathsFile := filepath.Join(dir, "paths.csv")
	require.NoError(t, WritePaths(pathsFile, fp.Paths))

	readBack, err := ReadPaths(pathsFile)
	require.NoError(t, err)
	require.Len(t, readBack, len(fp.Paths))
	for i, p := range fp.Paths {
		assert.Equal(t, p.Len(), readBack[i].Len())
		assert.InDelta(t, p.First().X, readBack[i].First().X, 1e-9)
		assert.InDelta(t, p.Last().Y, readBack[i].Last().Y, 1e-9)
	}
}

func TestWriteSeeds(t *testing.T) {
	fp := buildFilled(t)
	dir := t.TempDir()
	seedsFile := filepath.Join(dir, "seeds.csv")
	require.NoError(t, WriteSeeds(seedsFile, fp))

	m, err := ReadMatrix(seedsFile)
	require.NoError(t, err)
	assert.Len(t, m, len(fp.Paths))
}

func TestWriteFilledMatrix(t *testing.T) {
	fp := buildFilled(t)
	dir := t.TempDir()
	matrixFile := filepath.Join(dir, "filled.csv")
	require.NoError(t, WriteFilledMatrix(matrixFile, fp.Coverage))

	m, err := ReadMatrix(matrixFile)
	require.NoError(t, err)
	assert.Len(t, m, fp.Coverage.H)
	assert.Len(t, m[0], fp.Coverage.W)
}

func TestWriteWinningConfig(t *testing.T) {
	fp := buildFilled(t)
	metrics := quantify.Measure(fp)
	scalar := quantify.Scalar(metrics, vpattern.DefaultSimulationConfig().Weights)

	dir := t.TempDir()
	configFile := filepath.Join(dir, "winning.txt")
	require.NoError(t, WriteWinningConfig(configFile, fp.Config, metrics, scalar))

	kv, err := KeyValues(configFile)
	require.NoError(t, err)
	assert.Equal(t, "Perimeter", kv["Method"])
}

func TestWriteDirectorDisagreementHistogram(t *testing.T) {
	fp := buildFilled(t)
	dir := t.TempDir()
	histFile := filepath.Join(dir, "hist.csv")
	require.NoError(t, WriteDirectorDisagreementHistogram(histFile, fp, 10))

	m, err := ReadMatrix(histFile)
	require.NoError(t, err)
	assert.Len(t, m, 10)
}
