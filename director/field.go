// Package director holds the director field (the programmed orientation
// pattern) and derives the splay vector field from it (spec.md §4.B).
package director

import (
	"fmt"

	"github.com/zmmyslony/vectorslicer/geom"
)

// ErrDimensionMismatch is returned when Dx and Dy (or a field and a shape
// matrix) have incompatible dimensions.
type ErrDimensionMismatch struct {
	WantW, WantH int
	GotW, GotH   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("director: dimension mismatch: want %dx%d, got %dx%d",
		e.WantW, e.WantH, e.GotW, e.GotH)
}

// Field is a two-dimensional director field: at every interior cell, |D| is
// either 1 (director present) or 0 (no director).
type Field struct {
	Dx, Dy [][]float64
	W, H   int
}

// NewField constructs a Field from the two component matrices, validating
// that their dimensions agree.
func NewField(dx, dy [][]float64) (*Field, error) {
	h := len(dx)
	if h == 0 || len(dy) != h {
		return nil, &ErrDimensionMismatch{GotH: h, GotW: 0}
	}
	w := len(dx[0])
	for i := range dx {
		if len(dx[i]) != w || len(dy[i]) != w {
			return nil, &ErrDimensionMismatch{WantW: w, WantH: h, GotW: len(dx[i]), GotH: h}
		}
	}
	return &Field{Dx: dx, Dy: dy, W: w, H: h}, nil
}

// At returns the director at integer cell (x, y).
func (f *Field) At(c geom.Coord) geom.FCoord {
	return geom.F(f.Dx[c.Y][c.X], f.Dy[c.Y][c.X])
}

// HasDirector reports whether the cell carries a director (|D| == 1) as
// opposed to being outside the pattern (|D| == 0).
func (f *Field) HasDirector(c geom.Coord) bool {
	d := f.At(c)
	return d.NormSq() > 0.5
}

// InBounds reports whether c lies within the field's grid.
func (f *Field) InBounds(c geom.Coord) bool {
	return c.X >= 0 && c.X < f.W && c.Y >= 0 && c.Y < f.H
}

// Interpolate performs bilinear interpolation of the director at a
// subpixel position, per spec.md §3 "Bilinear interpolation is used for
// queries at subpixel positions."
func (f *Field) Interpolate(p geom.FCoord) geom.FCoord {
	pv := p.ToVec2()
	x0 := int(pv[0])
	y0 := int(pv[1])
	x1, y1 := x0+1, y0+1

	x0 = clamp(x0, 0, f.W-1)
	x1 = clamp(x1, 0, f.W-1)
	y0 = clamp(y0, 0, f.H-1)
	y1 = clamp(y1, 0, f.H-1)

	tx := pv[0] - float64(x0)
	ty := pv[1] - float64(y0)
	if tx < 0 {
		tx = 0
	}
	if ty < 0 {
		ty = 0
	}

	d00 := geom.F(f.Dx[y0][x0], f.Dy[y0][x0])
	d10 := geom.F(f.Dx[y0][x1], f.Dy[y0][x1])
	d01 := geom.F(f.Dx[y1][x0], f.Dy[y1][x0])
	d11 := geom.F(f.Dx[y1][x1], f.Dy[y1][x1])

	top := d00.Lerp(d10, tx)
	bottom := d01.Lerp(d11, tx)
	result := top.Lerp(bottom, ty)
	return geom.FromVec2(result.ToVec2())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
