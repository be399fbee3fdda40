package ioadapter

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/zmmyslony/vectorslicer/bayesopt"
	"github.com/zmmyslony/vectorslicer/fill"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/quantify"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// WritePaths emits the path-sequence output file: one row per path, the
// row alternating x,y pairs for each centre-line node in emission order
// (honouring Path.Reversed), grounded on
// original_source/source/pattern/importing_and_exporting/ExportingPattern.cpp's
// per-path coordinate dump.
func WritePaths(path string, paths []*tracepath.Path) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, p := range paths {
		centre, _, _, _ := p.View()
		row := make([]string, 0, 2*len(centre))
		for _, c := range centre {
			row = append(row, strconv.FormatFloat(c.X, 'g', -1, 64))
			row = append(row, strconv.FormatFloat(c.Y, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteOverlap emits one row per path of the per-node Overlap values, in
// the same emission order WritePaths uses.
func WriteOverlap(path string, paths []*tracepath.Path) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, p := range paths {
		_, _, _, overlap := p.View()
		row := make([]string, len(overlap))
		for i, v := range overlap {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadPaths is the inverse of WritePaths: it reads a path-sequence file
// back into bare Path values (no Seed, edge offsets or overlap data, since
// the flat coordinate format carries only the centre line) for tools that
// only need to re-sort an already-generated path set.
func ReadPaths(path string) ([]*tracepath.Path, error) {
	rows, err := ReadMatrix(path)
	if err != nil {
		return nil, err
	}
	paths := make([]*tracepath.Path, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || len(row)%2 != 0 {
			return nil, fmt.Errorf("ioadapter: %s: malformed path row of length %d", path, len(row))
		}
		n := len(row) / 2
		p := &tracepath.Path{
			Centre:  make([]geom.FCoord, n),
			EdgePos: make([]geom.FCoord, n),
			EdgeNeg: make([]geom.FCoord, n),
			Overlap: make([]float64, n),
		}
		for i := 0; i < n; i++ {
			p.Centre[i] = geom.F(row[2*i], row[2*i+1])
			p.EdgePos[i] = p.Centre[i]
			p.EdgeNeg[i] = p.Centre[i]
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteSeeds emits the integer coordinates of the seed points of a
// FilledPattern, one per row.
func WriteSeeds(path string, fp *fill.FilledPattern) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, p := range fp.Paths {
		row := []string{
			strconv.Itoa(p.Seed.Position.X),
			strconv.Itoa(p.Seed.Position.Y),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteWinningConfig writes the FillingConfig the Bayesian driver settled
// on as a flat Key = Value file, readable back by ParseFillingConfig.
func WriteWinningConfig(path string, cfg pattern.FillingConfig, m quantify.Metrics, scalar float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "Method = %s\n"+
		"TerminationRadius = %g\n"+
		"StepLength = %g\n"+
		"PrintRadius = %g\n"+
		"SeedSpacing = %g\n"+
		"Repulsion = %g\n"+
		"RepulsionAngle = %g\n"+
		"Seed = %d\n"+
		"# metrics\n"+
		"EmptyFraction = %g\n"+
		"OverlapFraction = %g\n"+
		"DirectorDisagreement = %g\n"+
		"PathCount = %d\n"+
		"Scalar = %g\n",
		cfg.Method, cfg.TerminationRadius, cfg.StepLength, cfg.PrintRadius,
		cfg.SeedSpacing, cfg.Repulsion, cfg.RepulsionAngle, cfg.Seed,
		m.EmptyFraction, m.OverlapFraction, m.DirectorDisagreement, m.PathCount, scalar)
	return err
}

// WriteOptimisationTrace emits one row per bayesopt.Result evaluated
// during the search, each row being the evaluated parameters followed by
// the observed disagreement, for post-hoc inspection of the search.
func WriteOptimisationTrace(path string, trace []bayesopt.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, r := range trace {
		row := make([]string, 0, len(r.Params)+1)
		for _, v := range r.Params {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(r.Disagreement, 'g', -1, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteFilledMatrix dumps the Coverage.Fills matrix as a CSV grid of
// fill counts, one row per pattern row.
func WriteFilledMatrix(path string, cov *fill.Coverage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for y := 0; y < cov.H; y++ {
		row := make([]string, cov.W)
		for x := 0; x < cov.W; x++ {
			row[x] = strconv.Itoa(int(cov.Fills[y][x]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteDirectorDisagreementHistogram buckets per-cell director
// disagreement (1 - |F.d|/(|F||d|), as computed in quantify.Measure) into
// nBins equal-width bins over [0, 1] and writes bin-centre,count rows.
func WriteDirectorDisagreementHistogram(path string, fp *fill.FilledPattern, nBins int) error {
	if nBins < 1 {
		nBins = 1
	}
	counts := make([]int, nBins)

	shape := fp.Pattern.Shape
	for y := 0; y < shape.H; y++ {
		for x := 0; x < shape.W; x++ {
			if fp.Coverage.Fills[y][x] == 0 {
				continue
			}
			fx, fy := fp.Coverage.Fx[y][x], fp.Coverage.Fy[y][x]
			fNorm := math.Hypot(fx, fy)
			if fNorm == 0 {
				continue
			}
			d := fp.Pattern.Field.At(geom.C(x, y))
			dNorm := d.Norm()
			if dNorm == 0 {
				continue
			}
			agreement := math.Abs(fx*d.X+fy*d.Y) / (fNorm * dNorm)
			disagreement := 1 - agreement
			bin := int(disagreement * float64(nBins))
			if bin >= nBins {
				bin = nBins - 1
			}
			if bin < 0 {
				bin = 0
			}
			counts[bin]++
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for i, c := range counts {
		centre := (float64(i) + 0.5) / float64(nBins)
		row := []string{
			strconv.FormatFloat(centre, 'g', -1, 64),
			strconv.Itoa(c),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
