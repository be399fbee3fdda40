// Package fill implements the FilledPattern engine (spec.md §4.G): it
// grows an ordered list of paths over a DesiredPattern, bookkeeping
// coverage as it goes, per FillingConfig and the engine-wide
// SimulationConfig policy flags.
package fill

import "github.com/zmmyslony/vectorslicer/geom"

// Coverage holds the three matrices the engine writes to as paths are
// committed: a fill count and an accumulated, sign-tracked direction,
// per spec.md §4.G "Coverage bookkeeping".
type Coverage struct {
	Fills [][]uint8
	Fx    [][]float64
	Fy    [][]float64
	W, H  int
}

// NewCoverage allocates a zeroed W×H coverage state.
func NewCoverage(w, h int) *Coverage {
	c := &Coverage{W: w, H: h}
	c.Fills = make([][]uint8, h)
	c.Fx = make([][]float64, h)
	c.Fy = make([][]float64, h)
	for y := 0; y < h; y++ {
		c.Fills[y] = make([]uint8, w)
		c.Fx[y] = make([]float64, w)
		c.Fy[y] = make([]float64, w)
	}
	return c
}

func (c *Coverage) inBounds(p geom.Coord) bool {
	return p.X >= 0 && p.X < c.W && p.Y >= 0 && p.Y < c.H
}

// IsFilled reports whether the cell has been covered at least once.
func (c *Coverage) IsFilled(p geom.Coord) bool {
	return c.inBounds(p) && c.Fills[p.Y][p.X] > 0
}

// FillsAt returns the raw fill count at p, or 0 outside bounds.
func (c *Coverage) FillsAt(p geom.Coord) int {
	if !c.inBounds(p) {
		return 0
	}
	return int(c.Fills[p.Y][p.X])
}

// canonicalDirection picks a sign for dir from its own components alone
// (positive x, or zero x and positive y), independent of any
// accumulated state. Add and Remove both canonicalize through this
// before touching Fx/Fy, so Remove always undoes the exact contribution
// Add made, regardless of what other paths have accumulated at p since.
// Mirrors the original's normalizeDirection.
func canonicalDirection(dir geom.FCoord) geom.FCoord {
	if dir.X > 0 || (dir.X == 0 && dir.Y > 0) {
		return dir
	}
	return dir.Neg()
}

// Add writes one fill increment at p with accumulated direction dir,
// canonicalizing dir's sign per canonicalDirection, per spec.md §4.G:
// "the sign is chosen to preserve continuity with any existing
// accumulated direction".
func (c *Coverage) Add(p geom.Coord, dir geom.FCoord, value int) {
	if !c.inBounds(p) {
		return
	}
	dir = canonicalDirection(dir)
	c.Fills[p.Y][p.X] += uint8(value)
	c.Fx[p.Y][p.X] += dir.X * float64(value)
	c.Fy[p.Y][p.X] += dir.Y * float64(value)
}

// Remove undoes a previous Add with the same direction and value,
// used when a committed path is later dropped by post-processing. It
// canonicalizes dir exactly as Add did, so it is a true inverse even
// after later Add calls at p have shifted the stored Fx/Fy.
func (c *Coverage) Remove(p geom.Coord, dir geom.FCoord, value int) {
	if !c.inBounds(p) {
		return
	}
	dir = canonicalDirection(dir)
	if c.Fills[p.Y][p.X] >= uint8(value) {
		c.Fills[p.Y][p.X] -= uint8(value)
	} else {
		c.Fills[p.Y][p.X] = 0
	}
	c.Fx[p.Y][p.X] -= dir.X * float64(value)
	c.Fy[p.Y][p.X] -= dir.Y * float64(value)
}

// AddCells marks every cell in cells with the given direction, value 1.
func (c *Coverage) AddCells(cells []geom.Coord, dir geom.FCoord) {
	for _, cell := range cells {
		c.Add(cell, dir, 1)
	}
}

// RemoveCells is the inverse of AddCells.
func (c *Coverage) RemoveCells(cells []geom.Coord, dir geom.FCoord) {
	for _, cell := range cells {
		c.Remove(cell, dir, 1)
	}
}
