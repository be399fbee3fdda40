package seedline

import (
	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/geom"
)

// ShapeMask reports whether a cell is part of the fillable pattern.
type ShapeMask interface {
	InShape(c geom.Coord) bool
}

var eightNeighbourOffsets = [8]geom.Coord{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// onEdge reports whether c is inside the shape but has at least one
// out-of-shape eight-neighbour.
func onEdge(shape ShapeMask, c geom.Coord) bool {
	if !shape.InShape(c) {
		return false
	}
	for _, off := range eightNeighbourOffsets {
		if !shape.InShape(c.Add(off)) {
			return true
		}
	}
	return false
}

// outwardNormal averages the displacement to every out-of-shape neighbour
// within the tested disk, giving an (unnormalised) outward-pointing
// vector, per spec.md §4.D ("outward unit normal (mean of displacements to
// out-of-shape neighbours within a disk of radius 4)").
func outwardNormal(shape ShapeMask, c geom.Coord, disk []geom.Coord) geom.FCoord {
	var sum geom.FCoord
	count := 0
	for _, d := range disk {
		if !shape.InShape(c.Add(d)) {
			sum = sum.Add(d.ToFCoord())
			count++
		}
	}
	if count == 0 {
		return geom.FCoord{}
	}
	return sum.Mul(1.0 / float64(count))
}

// perimeterSplayThreshold mirrors the original perimeter.cpp's "threshold is set
// slightly below zero to improve stability for numerically calculated
// splay": a perimeter point is valid as long as its outward normal isn't
// clearly anti-parallel to splay.
const perimeterSplayThreshold = -1e-10

func isValidPerimeterPoint(shape ShapeMask, splay *director.SplayField, c geom.Coord, disk []geom.Coord) bool {
	if !onEdge(shape, c) {
		return false
	}
	normal := outwardNormal(shape, c, disk).Normalize()
	s := splay.At(c)
	return normal.Dot(s) > perimeterSplayThreshold
}

// ExtractPerimeterLines finds perimeter seed lines: cells on the shape's
// geometric edge whose outward normal agrees with the splay direction
// there, segmented into polylines. If no such lines survive segmentation,
// falls back to the pure geometric perimeter (edge condition only), per
// spec.md §4.D and §7 ("empty seed set... fall back").
func ExtractPerimeterLines(shape ShapeMask, splay *director.SplayField, w, h int) []Line {
	disk := geom.DiskOffsets(4)

	valid := collectEdgePoints(shape, w, h, func(c geom.Coord) bool {
		return isValidPerimeterPoint(shape, splay, c, disk)
	})
	lines := SeparateIntoLines(valid, geom.C(0, 0), 2)
	if len(lines) > 0 {
		return lines
	}

	geometric := collectEdgePoints(shape, w, h, func(c geom.Coord) bool {
		return onEdge(shape, c)
	})
	return SeparateIntoLines(geometric, geom.C(0, 0), 2)
}

func collectEdgePoints(shape ShapeMask, w, h int, pred func(geom.Coord) bool) []geom.Coord {
	points := make([]geom.Coord, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := geom.C(x, y)
			if pred(c) {
				points = append(points, c)
			}
		}
	}
	return points
}
