// Package pathsort orders a FilledPattern's paths for emission, per
// spec.md §4.J: nearest-neighbour or seed-line-aware strategies, each
// producing a sequence with each path's Reversed flag set appropriately.
package pathsort

import (
	"sort"

	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// NearestNeighbour repeatedly picks the unprocessed path whose start (or
// whichever end is closer, when vectorSorting is false) is nearest to
// the previous path's end, marking it Reversed when the closer endpoint
// was its last node. Grounded on
// original_source/source/pattern/IndexedPath.cpp's nearest-neighbour
// walk.
func NearestNeighbour(paths []*tracepath.Path, vectorSorting bool) []*tracepath.Path {
	remaining := append([]*tracepath.Path(nil), paths...)
	if len(remaining) == 0 {
		return nil
	}

	ordered := make([]*tracepath.Path, 0, len(remaining))
	current := geom.F(0, 0)
	for len(remaining) > 0 {
		bestIdx, bestReversed := 0, false
		bestDist := infinity
		for i, p := range remaining {
			startDist := p.First().Sub(current).Norm()
			if startDist < bestDist {
				bestDist, bestIdx, bestReversed = startDist, i, false
			}
			if !vectorSorting {
				endDist := p.Last().Sub(current).Norm()
				if endDist < bestDist {
					bestDist, bestIdx, bestReversed = endDist, i, true
				}
			}
		}
		chosen := remaining[bestIdx]
		chosen.Reversed = bestReversed
		ordered = append(ordered, chosen)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		c, _, _, _ := chosen.View()
		current = c[len(c)-1]
	}
	return ordered
}

const infinity = 1e18

// group is one originating seed-line's paths, ordered by their index
// within the line.
type group struct {
	lineIndex int
	paths     []*tracepath.Path
	closed    bool
}

// SeedLineAware groups paths by originating seed-line index, sorts each
// group by its within-line index, and walks groups choosing the entry
// point and orientation that minimises travel distance, per spec.md
// §4.J "Seed-line aware".
func SeedLineAware(paths []*tracepath.Path, seedSpacing float64) []*tracepath.Path {
	groups := groupBySeedLine(paths, seedSpacing)

	ordered := make([]*tracepath.Path, 0, len(paths))
	current := geom.F(0, 0)
	remaining := groups
	for len(remaining) > 0 {
		bestIdx, bestEntry, bestReversed := 0, 0, false
		bestDist := infinity
		for gi, g := range remaining {
			for pi, p := range g.paths {
				if d := p.First().Sub(current).Norm(); d < bestDist {
					bestDist, bestIdx, bestEntry, bestReversed = d, gi, pi, false
				}
				if d := p.Last().Sub(current).Norm(); d < bestDist {
					bestDist, bestIdx, bestEntry, bestReversed = d, gi, pi, true
				}
			}
		}
		g := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		walked := walkGroup(g, bestEntry, bestReversed)
		for _, p := range walked {
			ordered = append(ordered, p)
			c, _, _, _ := p.View()
			current = c[len(c)-1]
		}
	}
	return ordered
}

func groupBySeedLine(paths []*tracepath.Path, seedSpacing float64) []*group {
	byIndex := map[int]*group{}
	var order []int
	for _, p := range paths {
		li := p.Seed.LineIndex
		g, ok := byIndex[li]
		if !ok {
			g = &group{lineIndex: li}
			byIndex[li] = g
			order = append(order, li)
		}
		g.paths = append(g.paths, p)
	}

	groups := make([]*group, 0, len(order))
	for _, li := range order {
		g := byIndex[li]
		sort.Slice(g.paths, func(i, j int) bool { return g.paths[i].Seed.Index < g.paths[j].Seed.Index })
		if len(g.paths) > 1 {
			first, last := g.paths[0].Seed.Index, g.paths[len(g.paths)-1].Seed.Index
			span := float64(last - first)
			if span < 0 {
				span = -span
			}
			g.closed = span <= 2*seedSpacing
		}
		groups = append(groups, g)
	}
	return groups
}

// walkGroup emits a group's paths starting from entry, choosing each
// subsequent path's orientation by proximity to the previous emission's
// end.
func walkGroup(g *group, entry int, entryReversed bool) []*tracepath.Path {
	n := len(g.paths)
	order := make([]int, 0, n)
	if g.closed {
		for i := 0; i < n; i++ {
			order = append(order, (entry+i)%n)
		}
	} else {
		if entryReversed {
			for i := entry; i >= 0; i-- {
				order = append(order, i)
			}
			for i := entry + 1; i < n; i++ {
				order = append(order, i)
			}
		} else {
			for i := entry; i < n; i++ {
				order = append(order, i)
			}
			for i := entry - 1; i >= 0; i-- {
				order = append(order, i)
			}
		}
	}

	walked := make([]*tracepath.Path, 0, n)
	var current geom.FCoord
	for i, idx := range order {
		p := g.paths[idx]
		if i == 0 {
			p.Reversed = entryReversed
		} else {
			distStart := p.First().Sub(current).Norm()
			distEnd := p.Last().Sub(current).Norm()
			p.Reversed = distEnd < distStart
		}
		walked = append(walked, p)
		c, _, _, _ := p.View()
		current = c[len(c)-1]
	}
	return walked
}
