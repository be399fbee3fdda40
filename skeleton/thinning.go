// Package skeleton implements Zhang–Suen skeletonisation of a pixel set,
// preceded by a "grow" step that dilates the set by a disk intersected
// with the shape mask, per spec.md §4.C.
//
// Grounded on original_source/source/pattern/auxiliary/line_thinning.cpp:
// the two Zhang-Suen sub-passes (east-south, then north-west removal) and
// the grow_pattern/skeletonize driver loop are carried over unchanged in
// substance, translated from std::set<coord> to a Go map[geom.Coord]struct{}.
package skeleton

import "github.com/zmmyslony/vectorslicer/geom"

// Set is an unordered pixel set, the Go analogue of the original's
// std::set<coord>.
type Set map[geom.Coord]struct{}

// NewSet builds a Set from a slice of coordinates.
func NewSet(coords []geom.Coord) Set {
	s := make(Set, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Slice returns the set's members as a slice, in no particular order.
func (s Set) Slice() []geom.Coord {
	out := make([]geom.Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}

var eightNeighbourOffsets = [8]geom.Coord{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// neighbourhood reads P1 (the pixel itself) and P2..P9 (its eight
// neighbours in clockwise order starting east), matching the original's
// naming.
func neighbourhood(shape Set, c geom.Coord) (p1 bool, p [8]bool) {
	_, p1 = shape[c]
	for i, off := range eightNeighbourOffsets {
		_, p[i] = shape[c.Add(off)]
	}
	return p1, p
}

func transitions(p [8]bool) int {
	count := 0
	for i := 0; i < 8; i++ {
		if !p[i] && p[(i+1)%8] {
			count++
		}
	}
	return count
}

// isRemovedEastSouth is the Zhang-Suen step-1 removal condition.
func isRemovedEastSouth(shape Set, c geom.Coord) bool {
	p1, p := neighbourhood(shape, c)
	if !p1 {
		return false
	}
	filled := 0
	for _, b := range p {
		if b {
			filled++
		}
	}
	if filled < 2 || filled > 6 {
		return false
	}
	if transitions(p) != 1 {
		return false
	}
	// p[0]=P2(east), p[2]=P4(south), p[4]=P6(west), p[6]=P8(north)
	first := !p[0] || !p[2] || !p[4]
	second := !p[2] || !p[4] || !p[6]
	return first && second
}

// isRemovedNorthWest is the Zhang-Suen step-2 removal condition.
func isRemovedNorthWest(shape Set, c geom.Coord) bool {
	p1, p := neighbourhood(shape, c)
	if !p1 {
		return false
	}
	filled := 0
	for _, b := range p {
		if b {
			filled++
		}
	}
	if filled < 2 || filled > 6 {
		return false
	}
	if transitions(p) != 1 {
		return false
	}
	first := !p[0] || !p[2] || !p[6]
	second := !p[0] || !p[4] || !p[6]
	return first && second
}

// Grow dilates shape by a closed disk of the given radius, intersected
// with the shape mask (only cells within the printable pattern are added).
func Grow(shape Set, radius float64, inShape func(geom.Coord) bool) Set {
	disk := geom.DiskOffsets(radius)
	grown := make(Set, len(shape))
	for c := range shape {
		for _, d := range disk {
			candidate := c.Add(d)
			if inShape(candidate) {
				grown[candidate] = struct{}{}
			}
		}
	}
	return grown
}

// Skeletonize grows shape by growRadius then repeatedly applies the two
// Zhang-Suen sub-passes until a fixed point is reached.
func Skeletonize(shape Set, growRadius float64, inShape func(geom.Coord) bool) Set {
	current := Grow(shape, growRadius, inShape)

	for {
		removedAny := false

		toRemove := make([]geom.Coord, 0)
		for c := range current {
			if isRemovedEastSouth(current, c) {
				toRemove = append(toRemove, c)
			}
		}
		for _, c := range toRemove {
			delete(current, c)
		}
		if len(toRemove) > 0 {
			removedAny = true
		}

		toRemove = toRemove[:0]
		for c := range current {
			if isRemovedNorthWest(current, c) {
				toRemove = append(toRemove, c)
			}
		}
		for _, c := range toRemove {
			delete(current, c)
		}
		if len(toRemove) > 0 {
			removedAny = true
		}

		if !removedAny {
			break
		}
	}

	return current
}
