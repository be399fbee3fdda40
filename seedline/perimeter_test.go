package seedline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmmyslony/vectorslicer/director"
	"github.com/zmmyslony/vectorslicer/geom"
)

// boolShape is a minimal ShapeMask for tests.
type boolShape struct {
	mask [][]bool
	w, h int
}

func newBoolShape(w, h int, fn func(x, y int) bool) *boolShape {
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			mask[y][x] = fn(x, y)
		}
	}
	return &boolShape{mask: mask, w: w, h: h}
}

func (s *boolShape) InShape(c geom.Coord) bool {
	if c.X < 0 || c.X >= s.w || c.Y < 0 || c.Y >= s.h {
		return false
	}
	return s.mask[c.Y][c.X]
}

func uniformDirector(t *testing.T, w, h int, dx, dy float64) *director.Field {
	t.Helper()
	Dx := make([][]float64, h)
	Dy := make([][]float64, h)
	for y := 0; y < h; y++ {
		Dx[y] = make([]float64, w)
		Dy[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			Dx[y][x], Dy[y][x] = dx, dy
		}
	}
	f, err := director.NewField(Dx, Dy)
	require.NoError(t, err)
	return f
}

func TestExtractPerimeterLines_SquareShape(t *testing.T) {
	w, h := 60, 60
	shape := newBoolShape(w, h, func(x, y int) bool {
		return x >= 10 && x < 50 && y >= 10 && y < 50
	})
	field := uniformDirector(t, w, h, 1, 0)
	splay := director.ComputeSplay(field)

	lines := ExtractPerimeterLines(shape, splay, w, h)
	assert.NotEmpty(t, lines)
	for _, l := range lines {
		for _, p := range l.Points {
			assert.True(t, shape.InShape(p))
		}
	}
}

func TestOnEdge(t *testing.T) {
	shape := newBoolShape(10, 10, func(x, y int) bool { return x >= 2 && x < 8 && y >= 2 && y < 8 })
	assert.True(t, onEdge(shape, geom.C(2, 2)))
	assert.False(t, onEdge(shape, geom.C(4, 4)))
	assert.False(t, onEdge(shape, geom.C(0, 0)))
}
