package geom

import (
	"errors"
	"math"
)

// ErrDegenerateQuad is returned by CheckQuad for a quadrilateral repairQuad
// can't meaningfully salvage; SweepRectangle itself never returns it — it
// silently repairs degenerate quadrilaterals per spec.md §4.A.
var ErrDegenerateQuad = errors.New("geom: degenerate sweep quadrilateral")

// PixelisedLine rasterises the displacement (dx, dy) with Bresenham's
// algorithm, returning one pixel per column (or row, for steep lines) of
// the major axis, starting at (0,0). All eight octants are handled by
// swapping/negating axes before rasterising the first octant and undoing
// the transform on the way out.
//
// PixelisedLine((dx,dy)) and PixelisedLine((-dx,-dy)) are idempotent: the
// second call yields the first call's pixel set in reverse order (spec.md
// §8 property 5).
func PixelisedLine(dx, dy float64) []Coord {
	steep := math.Abs(dy) > math.Abs(dx)
	if steep {
		dx, dy = dy, dx
	}
	xSign := 1
	if dx < 0 {
		xSign = -1
		dx = -dx
	}
	ySign := 1
	if dy < 0 {
		ySign = -1
		dy = -dy
	}

	n := int(math.Round(dx))
	if n == 0 {
		return []Coord{{0, 0}}
	}
	slope := dy / dx

	pts := make([]Coord, 0, n+1)
	for i := 0; i <= n; i++ {
		x := i * xSign
		y := int(math.Round(float64(i)*slope)) * ySign
		if steep {
			pts = append(pts, Coord{X: y, Y: x})
		} else {
			pts = append(pts, Coord{X: x, Y: y})
		}
	}
	return pts
}

// DiskOffsets returns every integer offset (i, j) with i²+j² ≤ r², i.e. the
// pixels of a closed disk of radius r centred on the origin.
func DiskOffsets(r float64) []Coord {
	ir := int(math.Ceil(r))
	rSq := r * r
	offsets := make([]Coord, 0, int(math.Pi*r*r)+8)
	for i := -ir; i <= ir; i++ {
		for j := -ir; j <= ir; j++ {
			if float64(i*i+j*j) <= rSq {
				offsets = append(offsets, Coord{i, j})
			}
		}
	}
	return offsets
}

// RingOffsets returns the one-pixel-wide circle outline: offsets (i, j)
// with ⌈√(i²+j²)⌉ = ⌈r⌉.
func RingOffsets(r float64) []Coord {
	ir := int(math.Ceil(r))
	offsets := make([]Coord, 0, int(2*math.Pi*r)+8)
	for i := -ir; i <= ir; i++ {
		for j := -ir; j <= ir; j++ {
			d := math.Ceil(math.Sqrt(float64(i*i + j*j)))
			if int(d) == ir {
				offsets = append(offsets, Coord{i, j})
			}
		}
	}
	return offsets
}

// CheckQuad reports ErrDegenerateQuad when the quadrilateral is twisted on
// both the 1-2 and 3-4 edges at once (the diagonals cross), collapsing the
// whole shape to a single point rather than just trimming one corner pair.
// SweepRectangle repairs and rasterises such quads anyway (returning
// whatever now-thin cell set that leaves); callers that want to log the
// condition call CheckQuad themselves before or after. Uses the same
// straddle test as repairQuad, so the two always agree.
func CheckQuad(p1, p2, p3, p4 FCoord) error {
	edge12 := p2.Sub(p1)
	edge34 := p4.Sub(p3)
	bad12 := edge12.Cross(p3.Sub(p1))*edge12.Cross(p4.Sub(p1)) < 0
	bad34 := edge34.Cross(p1.Sub(p3))*edge34.Cross(p2.Sub(p3)) < 0
	if bad12 && bad34 {
		return ErrDegenerateQuad
	}
	return nil
}

// repairQuad substitutes midpoints for corners that fall on the wrong side
// of the 1-2 or 3-4 edge, per spec.md §4.A. For a properly wound convex
// quad, 3 and 4 sit on the same side of the 1-2 line (and likewise 1, 2 on
// the same side of 3-4); a negative product of their cross products means
// they straddle it instead, i.e. the quad is twisted there, and we replace
// the straddling pair with their shared midpoint, collapsing the quad to a
// triangle (equivalent to zero interior-segment width there).
func repairQuad(p1, p2, p3, p4 FCoord) (FCoord, FCoord, FCoord, FCoord) {
	edge12 := p2.Sub(p1)
	edge34 := p4.Sub(p3)
	if edge12.Cross(p3.Sub(p1))*edge12.Cross(p4.Sub(p1)) < 0 {
		mid := p3.Lerp(p4, 0.5)
		p3, p4 = mid, mid
	}
	if edge34.Cross(p1.Sub(p3))*edge34.Cross(p2.Sub(p3)) < 0 {
		mid := p1.Lerp(p2, 0.5)
		p1, p2 = mid, mid
	}
	return p1, p2, p3, p4
}

// SweepRectangle rasterises the convex quadrilateral with corners
// p1, p2, p3, p4 (in order), returning every integer cell inside it.
// Inclusion is strict on the 1-2 edge when isExclusive is true (so that
// adjoining segments of the same swept path do not double-count their
// shared edge), inclusive on the remaining edges.
//
// Degenerate quadrilaterals (corners on the wrong side of the 1-2 or 3-4
// edge, which can happen when propagation bounces sharply) are repaired by
// midpoint substitution before enumeration, per spec.md §4.A.
func SweepRectangle(p1, p2, p3, p4 FCoord, isExclusive bool) []Coord {
	p1, p2, p3, p4 = repairQuad(p1, p2, p3, p4)

	minX := math.Floor(min4(p1.X, p2.X, p3.X, p4.X))
	maxX := math.Ceil(max4(p1.X, p2.X, p3.X, p4.X))
	minY := math.Floor(min4(p1.Y, p2.Y, p3.Y, p4.Y))
	maxY := math.Ceil(max4(p1.Y, p2.Y, p3.Y, p4.Y))

	edges := [4][2]FCoord{{p1, p2}, {p2, p3}, {p3, p4}, {p4, p1}}
	cells := make([]Coord, 0, 32)
	for y := int(minY); y <= int(maxY); y++ {
		for x := int(minX); x <= int(maxX); x++ {
			center := FCoord{float64(x), float64(y)}
			if insideQuad(center, edges, isExclusive) {
				cells = append(cells, Coord{x, y})
			}
		}
	}
	return cells
}

func insideQuad(p FCoord, edges [4][2]FCoord, isExclusive bool) bool {
	// Shoelace-orientation half-plane test against every edge; the
	// quadrilateral is convex by construction (parallel offset edges of a
	// polyline segment), so "same-side of every edge" is sufficient.
	var area float64
	for _, e := range edges {
		area += e[0].Cross(e[1])
	}
	sign := signOf(area)
	if sign == 0 {
		sign = 1
	}
	for i, e := range edges {
		edgeVec := e[1].Sub(e[0])
		toP := p.Sub(e[0])
		cr := edgeVec.Cross(toP) * sign
		if i == 0 && isExclusive {
			if cr <= 0 {
				return false
			}
			continue
		}
		if cr < 0 {
			return false
		}
	}
	return true
}

func signOf(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// HalfDisk rasterises the integer cells of a half-disk of radius r centred
// on last, restricted to the side opposite to the direction prevDir
// (offsets whose dot product with prevDir is <= 0), per spec.md §4.A
// "half-disk at path end". A zero prevDir yields the full disk around last.
func HalfDisk(last FCoord, prevDir FCoord, r float64) []Coord {
	dir := prevDir.Normalize()
	if dir.IsZeroApprox(1e-12) {
		disk := DiskOffsets(r)
		cells := make([]Coord, len(disk))
		for i, o := range disk {
			cells[i] = last.Add(o.ToFCoord()).Trunc()
		}
		return cells
	}
	ir := int(math.Ceil(r))
	rSq := r * r
	cells := make([]Coord, 0, int(math.Pi*r*r/2)+8)
	for i := -ir; i <= ir; i++ {
		for j := -ir; j <= ir; j++ {
			if float64(i*i+j*j) > rSq {
				continue
			}
			offset := FCoord{float64(i), float64(j)}
			// Keep the half on the side opposite the incoming direction:
			// dot(offset, dir) <= 0 means "behind or level with" the
			// direction of travel.
			if offset.Dot(dir) <= 0 {
				cells = append(cells, last.Add(offset).Trunc())
			}
		}
	}
	return cells
}

// IsZeroApprox reports whether f is within epsilon of the zero vector.
func (f FCoord) IsZeroApprox(epsilon float64) bool {
	return math.Abs(f.X) < epsilon && math.Abs(f.Y) < epsilon
}

func min4(a, b, c, d float64) float64 { return math.Min(math.Min(a, b), math.Min(c, d)) }
func max4(a, b, c, d float64) float64 { return math.Max(math.Max(a, b), math.Max(c, d)) }
