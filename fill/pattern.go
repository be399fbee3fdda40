package fill

import (
	"math"
	"math/rand"

	"github.com/zmmyslony/vectorslicer"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/seedline"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// FilledPattern is the filling engine (spec.md §4.G): it grows an ordered
// list of Paths over a DesiredPattern, governed by FillingConfig and the
// SimulationConfig policy flags, bookkeeping Coverage as it goes.
//
// Grounded on original_source/source/pattern/FilledPattern.cpp/.h's state
// layout (desired pattern reference, filling config by value, the three
// coverage matrices, a PRNG seeded from config, precomputed disk/ring,
// growing path list, remaining seed-point stack).
type FilledPattern struct {
	Pattern *pattern.DesiredPattern
	Config  pattern.FillingConfig
	Flags   pattern.FillingMethodFlags

	Coverage *Coverage
	Paths    []*tracepath.Path

	rng  *rand.Rand
	disk []geom.Coord
	ring []geom.Coord

	seedLines    []seedLine
	pendingSeeds []tracepath.Seed
	buckets      [][]geom.Coord

	singlePoints []singlePoint
}

// singlePoint records a seed that grew into no path at all, so that a
// closed disk was marked filled purely for bookkeeping (spec.md §4.G
// point 3); PostProcess can undo it when DropIsolatedPoints is set.
type singlePoint struct {
	Position geom.Coord
	Director geom.FCoord
}

// New builds a FilledPattern: precomputes the print-radius disk and
// termination-radius ring, and seeds the initial line set per
// config.Method, per spec.md §4.G "Setup".
func New(dp *pattern.DesiredPattern, config pattern.FillingConfig, flags pattern.FillingMethodFlags) *FilledPattern {
	fp := &FilledPattern{
		Pattern: dp,
		Config:  config,
		Flags:   flags,

		Coverage: NewCoverage(dp.Shape.W, dp.Shape.H),
		rng:      rand.New(rand.NewSource(int64(config.Seed))),
		disk:     geom.DiskOffsets(config.PrintRadius),
		ring:     geom.RingOffsets(config.TerminationRadius),
	}

	fp.setupSeedLines()
	fp.buckets = cloneBuckets(dp.SplayBuckets())
	return fp
}

func cloneBuckets(src [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, len(src))
	for i, bucket := range src {
		out[i] = append([]geom.Coord(nil), bucket...)
	}
	return out
}

func (fp *FilledPattern) setupSeedLines() {
	switch fp.Config.Method {
	case pattern.Splay:
		lines := fp.Pattern.SplaySeedLines
		if len(lines) == 0 {
			vectorslicer.Logger().Warn("no splay seed lines found, falling back to perimeter lines")
			fp.copyLines(fp.Pattern.PerimeterLines)
			return
		}
		for i, line := range lines {
			if !line.Closed {
				line = fp.extendLine(line)
			}
			fp.seedLines = append(fp.seedLines, seedLine{Index: i, Line: line})
		}
	case pattern.Perimeter:
		fp.copyLines(fp.Pattern.PerimeterLines)
	case pattern.Dual:
		// empty seed-line set; the reseeding fallback does all the work.
	}
}

func (fp *FilledPattern) copyLines(lines []seedline.Line) {
	for i, line := range lines {
		fp.seedLines = append(fp.seedLines, seedLine{Index: i, Line: line})
	}
}

// extendLine grows an open line at both ends by up to 2*SeedSpacing
// pixels along the local dual (perpendicular-to-director) direction,
// stopping at the shape boundary, per spec.md §4.G.
func (fp *FilledPattern) extendLine(line seedline.Line) seedline.Line {
	maxExt := int(math.Ceil(2 * fp.Config.SeedSpacing))
	if len(line.Points) == 0 {
		return line
	}
	before := fp.extendFrom(line.Points[0], tangentAt(line.Points, 0, -1), maxExt)
	after := fp.extendFrom(line.Points[len(line.Points)-1], tangentAt(line.Points, len(line.Points)-1, 1), maxExt)

	points := make([]geom.Coord, 0, len(before)+len(line.Points)+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		points = append(points, before[i])
	}
	points = append(points, line.Points...)
	points = append(points, after...)
	return seedline.Line{Points: points, Closed: line.Closed}
}

func tangentAt(pts []geom.Coord, idx, dir int) geom.FCoord {
	j := idx - dir
	if j < 0 || j >= len(pts) {
		return geom.F(1, 0)
	}
	return pts[idx].ToFCoord().Sub(pts[j].ToFCoord()).Normalize()
}

func (fp *FilledPattern) extendFrom(start geom.Coord, dir geom.FCoord, maxExt int) []geom.Coord {
	if dual := fp.Pattern.Field.At(start).Perp().Normalize(); !dual.IsZeroApprox(1e-12) {
		if dual.Dot(dir) < 0 {
			dual = dual.Neg()
		}
		dir = dual
	}
	if dir.IsZeroApprox(1e-12) {
		return nil
	}
	var out []geom.Coord
	current := start.ToFCoord()
	for i := 0; i < maxExt; i++ {
		current = current.Add(dir)
		cell := current.Round()
		if !fp.Pattern.Shape.InShape(cell) {
			break
		}
		out = append(out, cell)
	}
	return out
}

// Run executes the path-generation loop until findSeedPoint exhausts,
// per spec.md §4.G "Path generation loop".
func (fp *FilledPattern) Run() {
	for {
		seed, ok := fp.nextSeed()
		if !ok {
			vectorslicer.Logger().Info("filling complete", "paths", len(fp.Paths))
			return
		}
		forward := fp.growPath(seed, seed.Director)
		backward := fp.growPath(seed, seed.Director.Neg())
		path := tracepath.Compose(forward, backward)

		if path.Len() == 1 {
			cells := diskAt(path.First(), fp.disk)
			fp.Coverage.AddCells(cells, seed.Director)
			fp.singlePoints = append(fp.singlePoints, singlePoint{Position: path.First().Trunc(), Director: seed.Director})
			continue
		}
		fp.capEnds(path)
		fp.Paths = append(fp.Paths, path)
		vectorslicer.Logger().Debug("path grown", "index", len(fp.Paths)-1, "nodes", path.Len())
	}
}

func (fp *FilledPattern) nextSeed() (tracepath.Seed, bool) {
	if len(fp.pendingSeeds) == 0 {
		if !fp.updateSeedPoints() {
			return tracepath.Seed{}, false
		}
	}
	if len(fp.pendingSeeds) == 0 {
		return tracepath.Seed{}, false
	}
	last := len(fp.pendingSeeds) - 1
	s := fp.pendingSeeds[last]
	fp.pendingSeeds = fp.pendingSeeds[:last]
	return s, true
}

// capEnds marks the two end half-disks as filled once a path is
// complete, per spec.md §4.G point 3.
func (fp *FilledPattern) capEnds(path *tracepath.Path) {
	firstDir := path.Centre[1].Sub(path.Centre[0])
	cells := geom.HalfDisk(path.First(), firstDir.Neg(), fp.Config.PrintRadius)
	fp.Coverage.AddCells(cells, firstDir.Normalize())

	n := path.Len()
	lastDir := path.Centre[n-1].Sub(path.Centre[n-2])
	cells = geom.HalfDisk(path.Last(), lastDir, fp.Config.PrintRadius)
	fp.Coverage.AddCells(cells, lastDir.Normalize())
}

func diskAt(center geom.FCoord, disk []geom.Coord) []geom.Coord {
	cells := make([]geom.Coord, len(disk))
	base := center.Trunc()
	for i, o := range disk {
		cells[i] = base.Add(o)
	}
	return cells
}
