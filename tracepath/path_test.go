package tracepath

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zmmyslony/vectorslicer/geom"
)

func seed(x, y int) Seed {
	return Seed{Position: geom.C(x, y), Director: geom.F(1, 0), LineIndex: 0, Index: 0}
}

func TestNewPath_EdgesAreOffsetByPrintRadius(t *testing.T) {
	p := NewPath(seed(5, 5), geom.F(1, 0), 4)

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, geom.F(5, 5), p.First())
	assert.InDelta(t, 4, p.EdgePos[0].Sub(p.Centre[0]).Norm(), 1e-9)
	assert.InDelta(t, 4, p.EdgeNeg[0].Sub(p.Centre[0]).Norm(), 1e-9)
	// tangent (1,0) rotated +90 gives perpendicular (0,1): edges lie on y axis offset.
	assert.InDelta(t, 5, p.EdgePos[0].X, 1e-9)
	assert.InDelta(t, 9, p.EdgePos[0].Y, 1e-9)
	assert.InDelta(t, 1, p.EdgeNeg[0].Y, 1e-9)
}

func TestPath_AddPointExtendsAllSequencesEqually(t *testing.T) {
	p := NewPath(seed(0, 0), geom.F(1, 0), 2)
	p.AddPoint(geom.F(1, 0), geom.F(1, 2), geom.F(1, -2), 0.5)

	assert.Equal(t, 2, p.Len())
	assert.Len(t, p.EdgePos, 2)
	assert.Len(t, p.EdgeNeg, 2)
	assert.Len(t, p.Overlap, 2)
	assert.Equal(t, geom.F(1, 0), p.Last())
	assert.Equal(t, geom.F(0, 0), p.SecondToLast())
}

func TestPath_Length(t *testing.T) {
	p := NewPath(seed(0, 0), geom.F(1, 0), 1)
	p.AddPoint(geom.F(3, 0), geom.F(3, 1), geom.F(3, -1), 0)
	p.AddPoint(geom.F(3, 4), geom.F(4, 4), geom.F(2, 4), 0)

	assert.InDelta(t, 7, p.Length(), 1e-9)
}

func TestCompose_DeduplicatesSharedSeedNode(t *testing.T) {
	s := seed(2, 2)
	forward := NewPath(s, geom.F(1, 0), 1)
	forward.AddPoint(geom.F(3, 2), geom.F(3, 3), geom.F(3, 1), 0)
	forward.AddPoint(geom.F(4, 2), geom.F(4, 3), geom.F(4, 1), 0)

	backward := NewPath(s, geom.F(-1, 0), 1)
	backward.AddPoint(geom.F(1, 2), geom.F(1, 3), geom.F(1, 1), 0)
	backward.AddPoint(geom.F(0, 2), geom.F(0, 3), geom.F(0, 1), 0)

	composed := Compose(forward, backward)

	assert.Equal(t, forward.Len()+backward.Len()-1, composed.Len())
	assert.Equal(t, geom.F(0, 2), composed.First())
	assert.Equal(t, geom.F(4, 2), composed.Last())
	// the shared seed node (2,2) appears exactly once, at the middle index.
	assert.Equal(t, geom.F(2, 2), composed.Centre[backward.Len()-1])
}

func TestPath_View_ReversedDoesNotMutateStorage(t *testing.T) {
	p := NewPath(seed(0, 0), geom.F(1, 0), 1)
	p.AddPoint(geom.F(1, 0), geom.F(1, 1), geom.F(1, -1), 0)
	p.Reversed = true

	centre, edgePos, edgeNeg, _ := p.View()
	assert.Equal(t, geom.F(1, 0), centre[0])
	assert.Equal(t, geom.F(0, 0), centre[1])
	// pos/neg edges swap under reversal.
	assert.Equal(t, p.EdgeNeg[1], edgePos[0])
	assert.Equal(t, p.EdgePos[1], edgeNeg[0])

	// original storage is untouched.
	assert.Equal(t, geom.F(0, 0), p.Centre[0])
	assert.Equal(t, geom.F(1, 0), p.Centre[1])
}
