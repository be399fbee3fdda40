// Package seedline extracts ordered seed lines from a pattern: perimeter
// lines (geometric edge points whose outward normal agrees with splay) and
// zero-splay skeleton lines traced from the director field, per spec.md
// §4.D.
package seedline

import (
	"math"
	"sort"

	"github.com/zmmyslony/vectorslicer/geom"
)

// Line is an ordered sequence of integer coordinates, possibly closed; for
// an open line the first and last points are within √2 pixels of their
// immediate neighbours, for a closed line the endpoints are within 2
// pixels of each other.
type Line struct {
	Points []geom.Coord
	Closed bool
}

// minLineLength is the discard threshold for extracted polylines, per
// spec.md §4.D ("lines shorter than a fixed threshold (20 points) are
// discarded").
const minLineLength = 20

// isLooped reports whether the first and last points of a polyline are
// close enough (≤2px) to call the line closed, mirroring the original
// isLooped in line_operations.cpp.
func isLooped(points []geom.Coord) bool {
	if len(points) < 2 {
		return false
	}
	d := points[0].Sub(points[len(points)-1])
	return d.Norm() <= 2
}

// SeparateIntoLines segments an unordered point set into ordered polylines
// using repeated nearest-neighbour walks, starting from whichever point is
// closest to `start`. A gap larger than separationDistance breaks the
// current polyline; lines shorter than minLineLength are dropped.
//
// Grounded on original_source/source/pattern/auxiliary/line_operations.cpp
// (`separateIntoLines`): each walk grows both forward and backward from
// its seed, then the two halves are joined (forward half reversed,
// deduplicating the shared seed point) before segmentation by gap size.
func SeparateIntoLines(points []geom.Coord, start geom.Coord, separationDistance float64) []Line {
	if len(points) == 0 {
		return nil
	}
	remaining := append([]geom.Coord(nil), points...)

	current := popClosest(&remaining, start)
	var forwardPaths, backwardPaths [][]geom.Coord
	currentPath := []geom.Coord{current}
	backwardFilled := false

	for len(remaining) > 0 {
		current = popClosest(&remaining, current)
		distance := current.Sub(currentPath[len(currentPath)-1]).Norm()
		if distance > separationDistance {
			if backwardFilled {
				backwardFilled = false
				backwardPaths = append(backwardPaths, currentPath)
			} else {
				backwardFilled = true
				forwardPaths = append(forwardPaths, currentPath)
				current = currentPath[0]
			}
			currentPath = nil
		}
		currentPath = append(currentPath, current)
	}
	if backwardFilled {
		backwardPaths = append(backwardPaths, currentPath)
	} else {
		forwardPaths = append(forwardPaths, currentPath)
		backwardPaths = append(backwardPaths, currentPath[:1])
	}

	lines := make([]Line, 0, len(forwardPaths))
	for i := range forwardPaths {
		joined := make([]geom.Coord, 0, len(forwardPaths[i])+len(backwardPaths[i]))
		if len(forwardPaths[i]) > 1 {
			for j := len(forwardPaths[i]) - 1; j >= 1; j-- {
				joined = append(joined, forwardPaths[i][j])
			}
		}
		joined = append(joined, backwardPaths[i]...)
		if len(joined) >= minLineLength {
			lines = append(lines, Line{Points: joined, Closed: isLooped(joined)})
		}
	}
	return lines
}

func popClosest(points *[]geom.Coord, from geom.Coord) geom.Coord {
	pts := *points
	best := 0
	bestDist := math.Inf(1)
	for i, p := range pts {
		d := p.Sub(from).Norm()
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	closest := pts[best]
	pts[best] = pts[len(pts)-1]
	*points = pts[:len(pts)-1]
	return closest
}

// SortedByX returns a copy of points sorted left-to-right then top-to-bottom,
// a stable iteration order used where the original relies on std::set's
// lexicographic ordering.
func SortedByX(points []geom.Coord) []geom.Coord {
	out := append([]geom.Coord(nil), points...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
