// Package tracepath holds the Path record the filling engine grows one
// step at a time, and the seed point it is grown from, per spec.md §3-§4.F.
package tracepath

import "github.com/zmmyslony/vectorslicer/geom"

// Seed is an integer coordinate plus the director at that coordinate and
// the originating seed line's identity, per spec.md §3 "Seed point".
type Seed struct {
	Position geom.Coord
	Director geom.FCoord
	LineIndex int
	Index     int
}

// Path is an ordered sequence of floating centre-line nodes, two parallel
// sequences of ±print-radius offset edges, and a per-node overlap array,
// all four sharing length, plus the seed point the path grew from
// (spec.md §3 "Path"). Reversed selects traversal direction at emission
// time without mutating the stored sequences, mirroring the original
// DirectorIndexedPath's is_path_reversed flag
// (original_source/source/pattern/DirectorIndexedPath.h).
type Path struct {
	Seed Seed

	Centre  []geom.FCoord
	EdgePos []geom.FCoord
	EdgeNeg []geom.FCoord
	Overlap []float64

	Reversed bool
}

// NewPath starts a path at seed with an initial tangent: the first node is
// the seed position, and the first pair of offset edges are the seed
// position shifted by ±(print radius) along the tangent's perpendicular
// unit vector, per spec.md §4.F.
func NewPath(seed Seed, tangent geom.FCoord, printRadius float64) *Path {
	centre := geom.F(float64(seed.Position.X), float64(seed.Position.Y))
	perp := tangent.Perp().Normalize()
	offset := perp.Mul(printRadius)

	return &Path{
		Seed:    seed,
		Centre:  []geom.FCoord{centre},
		EdgePos: []geom.FCoord{centre.Add(offset)},
		EdgeNeg: []geom.FCoord{centre.Sub(offset)},
		Overlap: []float64{0},
	}
}

// Len returns the number of nodes in the path.
func (p *Path) Len() int {
	return len(p.Centre)
}

// AddPoint extends all four parallel sequences by one node.
func (p *Path) AddPoint(position, edgePos, edgeNeg geom.FCoord, overlap float64) {
	p.Centre = append(p.Centre, position)
	p.EdgePos = append(p.EdgePos, edgePos)
	p.EdgeNeg = append(p.EdgeNeg, edgeNeg)
	p.Overlap = append(p.Overlap, overlap)
}

// First returns the first centre-line node.
func (p *Path) First() geom.FCoord { return p.Centre[0] }

// Last returns the last centre-line node.
func (p *Path) Last() geom.FCoord { return p.Centre[len(p.Centre)-1] }

// SecondToLast returns the node immediately before Last, used to derive
// the current propagation tangent.
func (p *Path) SecondToLast() geom.FCoord { return p.Centre[len(p.Centre)-2] }

// Length returns the summed Euclidean length of the centre line.
func (p *Path) Length() float64 {
	var length float64
	for i := 1; i < len(p.Centre); i++ {
		length += p.Centre[i].Sub(p.Centre[i-1]).Norm()
	}
	return length
}

// Compose builds a single path by walking backward's nodes in reverse
// then forward's nodes from index 1 on, so the seed node the two halves
// share is not duplicated. Grounded on
// original_source/source/pattern/Path.cpp's `Path(forward_path,
// backward_path)` constructor, generalised from a single integer position
// sequence to the four parallel sequences this Path carries.
func Compose(forward, backward *Path) *Path {
	n := backward.Len() + forward.Len() - 1
	p := &Path{
		Seed:    forward.Seed,
		Centre:  make([]geom.FCoord, 0, n),
		EdgePos: make([]geom.FCoord, 0, n),
		EdgeNeg: make([]geom.FCoord, 0, n),
		Overlap: make([]float64, 0, n),
	}
	for i := backward.Len() - 1; i >= 0; i-- {
		p.Centre = append(p.Centre, backward.Centre[i])
		p.EdgePos = append(p.EdgePos, backward.EdgePos[i])
		p.EdgeNeg = append(p.EdgeNeg, backward.EdgeNeg[i])
		p.Overlap = append(p.Overlap, backward.Overlap[i])
	}
	for i := 1; i < forward.Len(); i++ {
		p.Centre = append(p.Centre, forward.Centre[i])
		p.EdgePos = append(p.EdgePos, forward.EdgePos[i])
		p.EdgeNeg = append(p.EdgeNeg, forward.EdgeNeg[i])
		p.Overlap = append(p.Overlap, forward.Overlap[i])
	}
	return p
}

// View returns the sequence a consumer should iterate given the Reversed
// flag, without mutating the path's stored order.
func (p *Path) View() (centre, edgePos, edgeNeg []geom.FCoord, overlap []float64) {
	if !p.Reversed {
		return p.Centre, p.EdgePos, p.EdgeNeg, p.Overlap
	}
	n := p.Len()
	centre = make([]geom.FCoord, n)
	edgePos = make([]geom.FCoord, n)
	edgeNeg = make([]geom.FCoord, n)
	overlap = make([]float64, n)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		centre[i] = p.Centre[j]
		edgePos[i] = p.EdgeNeg[j]
		edgeNeg[i] = p.EdgePos[j]
		overlap[i] = p.Overlap[j]
	}
	return centre, edgePos, edgeNeg, overlap
}
