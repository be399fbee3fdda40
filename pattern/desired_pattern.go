package pattern

import (
	"fmt"

	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/seedline"
)

// ErrDimensionMismatch signals that the shape matrix and director field
// passed to NewDesiredPattern have incompatible dimensions.
type ErrDimensionMismatch struct {
	ShapeW, ShapeH int
	FieldW, FieldH int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("pattern: shape is %dx%d but director field is %dx%d",
		e.ShapeW, e.ShapeH, e.FieldW, e.FieldH)
}

// Shape is a W×H boolean mask of cells to be filled. The invariant from
// spec.md §3 — cells with |D|=0 never carry shape value 1 — is enforced at
// construction time by ANDing the supplied mask with the director field's
// own presence flag.
type Shape struct {
	Mask [][]bool
	W, H int
}

// InShape implements seedline.ShapeMask.
func (s *Shape) InShape(c geom.Coord) bool {
	if c.X < 0 || c.X >= s.W || c.Y < 0 || c.Y >= s.H {
		return false
	}
	return s.Mask[c.Y][c.X]
}

const trimPadding = 10

// trimBounds finds the smallest bounding box containing every shape cell,
// then pads it by trimPadding pixels (clamped to the original dimensions).
func trimBounds(mask [][]bool) (x0, y0, x1, y1 int, nonEmpty bool) {
	h := len(mask)
	if h == 0 {
		return 0, 0, 0, 0, false
	}
	w := len(mask[0])
	x0, y0 = w, h
	x1, y1 = -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y][x] {
				nonEmpty = true
				if x < x0 {
					x0 = x
				}
				if x > x1 {
					x1 = x
				}
				if y < y0 {
					y0 = y
				}
				if y > y1 {
					y1 = y
				}
			}
		}
	}
	if !nonEmpty {
		return 0, 0, w, h, false
	}
	x0 = maxInt(0, x0-trimPadding)
	y0 = maxInt(0, y0-trimPadding)
	x1 = minInt(w-1, x1+trimPadding)
	y1 = minInt(h-1, y1+trimPadding)
	return x0, y0, x1, y1, true
}

func trimMatrix2D[T any](m [][]T, x0, y0, x1, y1 int) [][]T {
	out := make([][]T, y1-y0+1)
	for y := y0; y <= y1; y++ {
		out[y-y0] = append([]T(nil), m[y][x0:x1+1]...)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DesiredPattern is the read-only container for the shape mask, director
// field, splay field, seed lines and policy flags that the filling engine
// consumes by shared immutable reference (spec.md §3, §4.E).
//
// All accessors are pure functions once constructed. There is nothing to
// assert a mutation guard against in Go — DesiredPattern carries no
// exported mutators, so "is updated" is enforced by the type system rather
// than a runtime check, per spec.md §9's preference for explicit ownership
// over the original's asserted invariant.
type DesiredPattern struct {
	Shape  *Shape
	Field  *director.Field
	Splay  *director.SplayField
	Method FillingMethod

	PerimeterLines []seedline.Line
	SplaySeedLines []seedline.Line

	splayBuckets [][]geom.Coord
}

// NewDesiredPattern builds a DesiredPattern: trims null rows/columns (with
// padding), computes or accepts splay, extracts perimeter and splay seed
// lines, and bins interior cells by ascending splay magnitude, per
// spec.md §4.E.
func NewDesiredPattern(shapeMask [][]bool, field *director.Field, providedSplay *director.SplayField, method FillingMethod, behaviour seedline.SplayLineBehaviour, seed uint64) (*DesiredPattern, error) {
	h := len(shapeMask)
	if h != field.H || (h > 0 && len(shapeMask[0]) != field.W) {
		return nil, &ErrDimensionMismatch{ShapeW: len(shapeMask[0]), ShapeH: h, FieldW: field.W, FieldH: field.H}
	}

	// Enforce "cells with |D|=0 never have shape value 1".
	masked := make([][]bool, h)
	for y := 0; y < h; y++ {
		masked[y] = make([]bool, len(shapeMask[y]))
		for x := range shapeMask[y] {
			masked[y][x] = shapeMask[y][x] && field.HasDirector(geom.C(x, y))
		}
	}

	x0, y0, x1, y1, nonEmpty := trimBounds(masked)
	if !nonEmpty {
		x1, y1 = field.W-1, field.H-1
	}

	trimmedMask := trimMatrix2D(masked, x0, y0, x1, y1)
	trimmedDx := trimMatrix2D(field.Dx, x0, y0, x1, y1)
	trimmedDy := trimMatrix2D(field.Dy, x0, y0, x1, y1)
	trimmedField, err := director.NewField(trimmedDx, trimmedDy)
	if err != nil {
		return nil, err
	}

	var splay *director.SplayField
	if providedSplay != nil {
		trimmedVx := trimMatrix2D(providedSplay.Vx, x0, y0, x1, y1)
		trimmedVy := trimMatrix2D(providedSplay.Vy, x0, y0, x1, y1)
		splay = &director.SplayField{Vx: trimmedVx, Vy: trimmedVy, W: trimmedField.W, H: trimmedField.H}
	} else {
		splay = director.ComputeSplay(trimmedField)
	}

	shape := &Shape{Mask: trimmedMask, W: trimmedField.W, H: trimmedField.H}

	perimeter := seedline.ExtractPerimeterLines(shape, splay, shape.W, shape.H)
	splayLines := seedline.ExtractSplayLines(shape, trimmedField, splay, shape.W, shape.H, seed, behaviour)

	dp := &DesiredPattern{
		Shape:          shape,
		Field:          trimmedField,
		Splay:          splay,
		Method:         method,
		PerimeterLines: perimeter,
		SplaySeedLines: splayLines,
	}
	dp.splayBuckets = dp.binBySplay(minInt(shape.W, shape.H) / 10)
	return dp, nil
}

// binBySplay bins interior cells into `bins` buckets by splay magnitude,
// ascending (bucket 0 = lowest splay), then reverses the bucket list so
// that it runs from highest to lowest splay. The reseeding fallback
// consumes buckets front to back, so the lowest-splay bucket (the back of
// dp.splayBuckets, the region closest to a zero-splay defect) is popped
// last. Mirrors
// original_source/source/pattern/desired_pattern.cpp's binBySplay exactly
// (linear-scaled bin index, then std::reverse).
func (dp *DesiredPattern) binBySplay(bins int) [][]geom.Coord {
	if bins < 1 {
		bins = 1
	}
	var cells []geom.Coord
	var splayMagnitude []float64
	for y := 0; y < dp.Shape.H; y++ {
		for x := 0; x < dp.Shape.W; x++ {
			c := geom.C(x, y)
			if dp.Shape.InShape(c) {
				cells = append(cells, c)
				splayMagnitude = append(splayMagnitude, dp.Splay.At(c).Norm())
			}
		}
	}
	if len(cells) == 0 {
		return nil
	}

	minS, maxS := splayMagnitude[0], splayMagnitude[0]
	for _, s := range splayMagnitude {
		if s < minS {
			minS = s
		}
		if s > maxS {
			maxS = s
		}
	}
	if maxS == minS {
		return [][]geom.Coord{cells}
	}

	buckets := make([][]geom.Coord, bins)
	for i, c := range cells {
		bin := int(float64(bins-1) * (splayMagnitude[i] - minS) / (maxS - minS))
		bin = minInt(maxInt(bin, 0), bins-1)
		buckets[bin] = append(buckets[bin], c)
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets
}

// SplayBuckets returns the splay-sorted cell buckets the reseeding
// fallback pops from (highest splay first).
func (dp *DesiredPattern) SplayBuckets() [][]geom.Coord {
	return dp.splayBuckets
}
