package fill

import (
	"math"

	"github.com/kelindar/bitmap"

	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/seedline"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// seedLine pairs a seed line with the index of its originating
// DesiredPattern source line, carried through to tracepath.Seed so that
// seed-line-aware path sorting (§4.J) can group paths by it.
type seedLine struct {
	Index int
	Line  seedline.Line
}

// updateSeedPoints refills fp.pendingSeeds from the remaining seed lines,
// falling back to the reseeding (dual-line) strategy once they're
// exhausted, per spec.md §4.G "updateSeedPoints". It returns false when
// no more seed points can ever be produced.
func (fp *FilledPattern) updateSeedPoints() bool {
	if len(fp.seedLines) > 0 {
		var withFilled []int
		for i, sl := range fp.seedLines {
			if fp.lineHasFilledCell(sl.Line) {
				withFilled = append(withFilled, i)
			}
		}
		var chosen int
		if len(withFilled) > 0 {
			chosen = withFilled[fp.rng.Intn(len(withFilled))]
		} else {
			chosen = fp.rng.Intn(len(fp.seedLines))
		}
		line := fp.seedLines[chosen]
		fp.seedLines = append(fp.seedLines[:chosen], fp.seedLines[chosen+1:]...)
		fp.pendingSeeds = fp.equidistantSeeds(line.Index, line.Line)
		return true
	}

	for len(fp.buckets) > 0 {
		bucket := fp.buckets[0]
		if len(bucket) == 0 {
			fp.buckets = fp.buckets[1:]
			continue
		}
		cell := bucket[len(bucket)-1]
		fp.buckets[0] = bucket[:len(bucket)-1]
		if fp.terminable(cell, geom.FCoord{}) {
			continue
		}
		dual := fp.findDualLine(cell)
		if len(dual.Points) == 0 {
			continue
		}
		fp.pendingSeeds = fp.equidistantSeeds(-1, dual)
		return true
	}
	return false
}

func (fp *FilledPattern) lineHasFilledCell(line seedline.Line) bool {
	for _, p := range line.Points {
		if fp.Coverage.IsFilled(p) {
			return true
		}
	}
	return false
}

// findDualLine traces the integral curve of the field perpendicular to
// the director through root, in both directions until exit or
// self-encounter, per spec.md §4.G "Compute a dual line through the
// root". Grounded on seedline.traceIntegralCurve, generalised to follow
// the perpendicular field instead of the director itself.
func (fp *FilledPattern) findDualLine(root geom.Coord) seedline.Line {
	forward := fp.traceDual(root, 1)
	backward := fp.traceDual(root, -1)

	points := make([]geom.Coord, 0, len(forward)+len(backward))
	for i := len(backward) - 1; i >= 0; i-- {
		points = append(points, backward[i])
	}
	points = append(points, forward[1:]...)
	return seedline.Line{Points: points}
}

// traceDual walks the perpendicular-field integral curve, using a
// bitmap.Bitmap rather than a map[geom.Coord]struct{} as the
// already-visited scratch state: the grid is bounded by the pattern's
// shape, so a single flattened y*W+x index bit is cheaper to set and
// test than hashing a Coord on every step.
func (fp *FilledPattern) traceDual(start geom.Coord, sign float64) []geom.Coord {
	w := fp.Pattern.Shape.W
	var visited bitmap.Bitmap
	visited.Grow(uint32(w * fp.Pattern.Shape.H))
	visitIdx := func(c geom.Coord) uint32 { return uint32(c.Y*w + c.X) }
	visited.Set(visitIdx(start))

	points := []geom.Coord{start}
	current := start.ToFCoord()
	for step := 0; step < 4*(fp.Pattern.Shape.W+fp.Pattern.Shape.H); step++ {
		d := fp.Pattern.Field.Interpolate(current)
		perp := d.Perp().Normalize()
		if perp.IsZeroApprox(1e-12) {
			break
		}
		current = current.Add(perp.Mul(sign))
		cell := current.Round()
		if !fp.Pattern.Shape.InShape(cell) {
			break
		}
		idx := visitIdx(cell)
		if visited.Contains(idx) {
			break
		}
		visited.Set(idx)
		points = append(points, cell)
	}
	return points
}

// equidistantSeeds extracts seed points at anisotropic-distance intervals
// along line, walking forward from a starting index and, for open lines,
// walking backward from the same index and reversing that half, per
// spec.md §4.G "Equidistant seed extraction along a line".
func (fp *FilledPattern) equidistantSeeds(lineIndex int, line seedline.Line) []tracepath.Seed {
	pts := line.Points
	if len(pts) == 0 {
		return nil
	}
	startIdx := fp.chooseStartIndex(pts)

	forward := fp.walkEquidistant(lineIndex, pts, startIdx, 1, line.Closed)
	if line.Closed {
		return forward
	}
	backward := fp.walkEquidistant(lineIndex, pts, startIdx, -1, false)
	seeds := make([]tracepath.Seed, 0, len(forward)+len(backward))
	for i := len(backward) - 1; i >= 0; i-- {
		seeds = append(seeds, backward[i])
	}
	seeds = append(seeds, forward...)
	return seeds
}

func (fp *FilledPattern) chooseStartIndex(pts []geom.Coord) int {
	for i, p := range pts {
		if fp.Coverage.IsFilled(p) {
			return i
		}
	}
	return fp.rng.Intn(len(pts))
}

func (fp *FilledPattern) walkEquidistant(lineIndex int, pts []geom.Coord, start, dir int, closed bool) []tracepath.Seed {
	n := len(pts)
	if n == 0 {
		return nil
	}
	var seeds []tracepath.Seed
	last := pts[start]
	seeds = append(seeds, fp.makeSeed(lineIndex, start, last))

	threshold := fp.Config.SeedSpacing
	i := start
	steps := n
	if !closed {
		steps = n - 1
	}
	for s := 0; s < steps; s++ {
		i += dir
		if closed {
			i = ((i % n) + n) % n
		} else if i < 0 || i >= n {
			break
		}
		current := pts[i]
		if fp.anisotropicDistance(last, current) >= threshold {
			seeds = append(seeds, fp.makeSeed(lineIndex, i, current))
			last = current
			if fp.Coverage.IsFilled(current) {
				threshold = fp.Config.SeedSpacing / 2
			} else {
				threshold = fp.Config.SeedSpacing
			}
		}
	}
	return seeds
}

func (fp *FilledPattern) makeSeed(lineIndex, idx int, p geom.Coord) tracepath.Seed {
	return tracepath.Seed{
		Position:  p,
		Director:  fp.Pattern.Field.At(p),
		LineIndex: lineIndex,
		Index:     idx,
	}
}

// anisotropicDistance implements spec.md §4.G's anisotropic metric: the
// larger of the projections of (b-a) onto the perpendicular-unit
// direction at each endpoint, and twice their harmonic mean.
func (fp *FilledPattern) anisotropicDistance(a, b geom.Coord) float64 {
	delta := b.ToFCoord().Sub(a.ToFCoord())
	dA := math.Abs(fp.Pattern.Field.At(a).Perp().Normalize().Dot(delta))
	dB := math.Abs(fp.Pattern.Field.At(b).Perp().Normalize().Dot(delta))
	hmean := 0.0
	if dA+dB > 0 {
		hmean = 2 * dA * dB / (dA + dB)
	}
	return math.Max(math.Max(dA, dB), 2*hmean)
}
