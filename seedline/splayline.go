package seedline

import (
	"math/rand"

	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/skeleton"
)

// SplayLineBehaviour selects how a maximal zero-splay segment bounded by a
// domain boundary is resolved into seed points.
type SplayLineBehaviour int

const (
	// Centres keeps only the segment's midpoint.
	Centres SplayLineBehaviour = iota
	// Boundaries keeps the boundary-adjacent nodes of the segment.
	Boundaries
)

// zeroSplayEpsilon is the numerical threshold below which directed splay is
// treated as zero (spec.md §4.D, §9 "the zero-splay threshold (10⁻⁶)... is
// load-bearing"). It is deliberately small: too large a value merges
// distinct splay features, too small makes the segmentation brittle to
// floating point noise in the finite-difference splay computation.
const zeroSplayEpsilon = 1e-6

// getMove returns the director at position, oriented to agree with the
// previous travel direction (non-negative dot product), matching the
// original's two getMove overloads.
func getMove(field *director.Field, position geom.FCoord, previous geom.FCoord) geom.FCoord {
	d := field.Interpolate(position)
	if d.Dot(previous) >= 0 {
		return d
	}
	return d.Neg()
}

// traceIntegralCurve follows the director field forward and backward from
// start until each branch exits the shape or encounters a coordinate
// already present in the curve (aside from immediately repeating the last
// coordinate), per updateIntegralCurve/updateIntegralCurveInDirection in
// the original desired_pattern.cpp.
func traceIntegralCurve(shape ShapeMask, field *director.Field, start geom.Coord) []geom.Coord {
	inCurve := make(map[geom.Coord]bool)

	trace := func(startPos geom.FCoord, startCoord geom.Coord, dir geom.FCoord) []geom.Coord {
		var curve []geom.Coord
		pos, c, travel := startPos, startCoord, dir
		for shape.InShape(c) {
			last := len(curve) > 0 && curve[len(curve)-1] == c
			if inCurve[c] && !last {
				break
			}
			inCurve[c] = true
			if len(curve) == 0 || curve[len(curve)-1] != c {
				curve = append(curve, c)
			}
			travel = getMove(field, pos, travel)
			pos = pos.Add(travel)
			c = pos.Trunc()
		}
		return curve
	}

	startPos := start.ToFCoord()
	initialDir := field.Interpolate(startPos)

	forward := trace(startPos, start, initialDir)
	delete(inCurve, start)
	reversed := make([]geom.Coord, len(forward))
	for i, c := range forward {
		reversed[len(forward)-1-i] = c
	}

	backward := trace(startPos, start, initialDir.Neg())
	for _, c := range backward {
		delete(inCurve, c)
	}

	curve := reversed
	if len(backward) > 0 {
		if len(curve) > 0 && len(backward) > 0 && curve[len(curve)-1] == backward[0] {
			backward = backward[1:]
		}
		curve = append(curve, backward...)
	}
	return curve
}

// directedSplayMagnitude returns, for each node of the curve, the dot
// product of the local splay with the local travel direction (consistent
// with the previous step), i.e. "splay in the direction from back to
// front".
func directedSplayMagnitude(curve []geom.Coord, splay *director.SplayField) []float64 {
	out := make([]float64, len(curve))
	if len(curve) == 0 {
		return out
	}
	var displacement geom.FCoord
	if len(curve) > 1 {
		displacement = curve[0].Sub(curve[1]).ToFCoord()
	}
	for i, c := range curve {
		s := splay.At(c)
		if s.Dot(displacement) < 0 {
			displacement = displacement.Neg()
		}
		out[i] = s.Dot(displacement)
		if i+1 < len(curve) {
			displacement = curve[i+1].Sub(c).ToFCoord()
		}
	}
	return out
}

func isBoundary(shape ShapeMask, c geom.Coord) bool {
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			if !shape.InShape(c.Add(geom.C(i, j))) {
				return true
			}
		}
	}
	return false
}

// isLoopedAnywhere reports whether the last coordinate of the line
// neighbours any of its first three coordinates, for lines longer than 6
// points — mirroring isLoopedAnywhere in desired_pattern.cpp.
func isLoopedAnywhere(line []geom.Coord) bool {
	if len(line) <= 6 {
		return false
	}
	front := map[geom.Coord]bool{line[0]: true, line[1]: true, line[2]: true}
	last := line[len(line)-1]
	for _, off := range eightNeighbourOffsets {
		if front[last.Add(off)] {
			return true
		}
	}
	return false
}

// findPointsOfZeroSplay walks a traced integral curve back-to-front,
// accumulating maximal contiguous zero-splay segments bounded by a
// positive-to-negative directed-splay transition, per spec.md §4.D.
func findPointsOfZeroSplay(shape ShapeMask, field *director.Field, splay *director.SplayField, start geom.Coord, behaviour SplayLineBehaviour) map[geom.Coord]bool {
	curve := traceIntegralCurve(shape, field, start)
	if len(curve) == 0 {
		return nil
	}
	directedSplay := directedSplayMagnitude(curve, splay)

	valid := make(map[geom.Coord]bool)
	var currentLine []geom.Coord
	var boundaryNodes []geom.Coord
	isLooped := isLoopedAnywhere(curve)
	isLastInCurve := !isLooped

	for i := len(curve) - 1; i >= 0; i-- {
		coordinate := curve[i]
		s := directedSplay[i]
		isCurrentBoundary := isBoundary(shape, coordinate)
		if isCurrentBoundary {
			boundaryNodes = append(boundaryNodes, coordinate)
		}

		endCondition := isCurrentBoundary && isLastInCurve
		var isEnd bool
		if endCondition {
			isEnd = s > -zeroSplayEpsilon
		} else {
			isEnd = s < -zeroSplayEpsilon
		}
		if isEnd && len(currentLine) > 0 {
			currentLine = append(currentLine, coordinate)
			if !isLoopedAnywhere(currentLine) {
				if len(boundaryNodes) == 0 || behaviour == Centres {
					valid[currentLine[len(currentLine)/2]] = true
				} else {
					for _, b := range boundaryNodes {
						valid[b] = true
					}
				}
			}
			boundaryNodes = nil
			currentLine = nil
		}

		if len(currentLine) > 0 && abs(s) < zeroSplayEpsilon {
			currentLine = append(currentLine, coordinate)
		}

		var isStart bool
		if endCondition {
			isStart = s < zeroSplayEpsilon
		} else {
			isStart = s > zeroSplayEpsilon
		}
		if isStart {
			currentLine = []geom.Coord{coordinate}
			if isCurrentBoundary {
				boundaryNodes = []geom.Coord{coordinate}
			} else {
				boundaryNodes = nil
			}
		}

		isLastInCurve = false
	}
	return valid
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ExtractSplayLines traces the integral curve from every shape cell (in
// randomised order, skipping cells already visited by a previous trace),
// collects the union of zero-splay nodes, grows it by a 10px disk, thins
// it with Zhang-Suen skeletonisation, and segments the result into
// polylines, per spec.md §4.D.
func ExtractSplayLines(shape ShapeMask, field *director.Field, splay *director.SplayField, w, h int, seed uint64, behaviour SplayLineBehaviour) []Line {
	cells := make([]geom.Coord, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := geom.C(x, y)
			if shape.InShape(c) {
				cells = append(cells, c)
			}
		}
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	used := make(map[geom.Coord]bool, len(cells))
	for _, c := range cells {
		used[c] = true
	}

	union := make(map[geom.Coord]bool)
	for len(cells) > 0 {
		c := cells[len(cells)-1]
		cells = cells[:len(cells)-1]
		if !used[c] {
			continue
		}
		for _, v := range traceIntegralCurve(shape, field, c) {
			used[v] = false
		}
		points := findPointsOfZeroSplay(shape, field, splay, c, behaviour)
		for p := range points {
			union[p] = true
		}
	}

	if len(union) == 0 {
		return nil
	}

	nodes := make([]geom.Coord, 0, len(union))
	for c := range union {
		nodes = append(nodes, c)
	}
	grown := skeleton.Grow(skeleton.NewSet(nodes), 10, shape.InShape)
	thin := skeleton.Skeletonize(grown, 0, shape.InShape)

	return SeparateIntoLines(thin.Slice(), geom.C(0, 0), 2)
}
