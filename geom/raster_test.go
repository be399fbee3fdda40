package geom

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedCoords(cs []Coord) []Coord {
	out := append([]Coord(nil), cs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// TestPixelisedLine_Idempotence verifies spec.md §8 property 5: rasterising
// (dx,dy) then (-dx,-dy) yields the same pixel set, order reversed.
func TestPixelisedLine_Idempotence(t *testing.T) {
	cases := []struct{ dx, dy float64 }{
		{10, 0}, {0, 10}, {7, 3}, {3, 7}, {-5, 8}, {5, -8}, {-5, -8},
	}
	for _, c := range cases {
		fwd := PixelisedLine(c.dx, c.dy)
		bwd := PixelisedLine(-c.dx, -c.dy)
		require.Equal(t, len(fwd), len(bwd))

		negated := make([]Coord, len(bwd))
		for i, p := range bwd {
			negated[len(bwd)-1-i] = p.Neg()
		}
		assert.Equal(t, sortedCoords(fwd), sortedCoords(negated))
	}
}

func TestPixelisedLine_StartsAtOrigin(t *testing.T) {
	for _, c := range [][2]float64{{10, 4}, {4, 10}, {-10, 4}, {10, -4}} {
		pts := PixelisedLine(c[0], c[1])
		assert.Equal(t, Coord{0, 0}, pts[0])
	}
}

func TestDiskOffsets_ContainsOriginAndRespectsRadius(t *testing.T) {
	offsets := DiskOffsets(3)
	assert.Contains(t, offsets, Coord{0, 0})
	for _, o := range offsets {
		assert.LessOrEqual(t, o.NormSq(), 9)
	}
	assert.NotContains(t, offsets, Coord{4, 0})
}

func TestRingOffsets_ExcludesInterior(t *testing.T) {
	ring := RingOffsets(3)
	for _, o := range ring {
		assert.NotEqual(t, Coord{0, 0}, o)
	}
}

// TestSweepRectangle_Exactness verifies spec.md §8 property 6 for an
// axis-aligned integer rectangle: interior pixels equal the closed
// rectangle, with the first edge excluded when isExclusive is set.
func TestSweepRectangle_Exactness(t *testing.T) {
	p1, p2, p3, p4 := F(0, 0), F(0, 3), F(4, 3), F(4, 0)

	inclusive := SweepRectangle(p1, p2, p3, p4, false)
	for x := 0; x <= 4; x++ {
		for y := 0; y <= 3; y++ {
			assert.Contains(t, inclusive, Coord{x, y})
		}
	}

	exclusive := SweepRectangle(p1, p2, p3, p4, true)
	// The 1-2 edge is x=0; those cells should be dropped under strict
	// exclusion while the rest of the rectangle remains.
	assert.NotContains(t, exclusive, Coord{0, 1})
	assert.Contains(t, exclusive, Coord{4, 1})
}

func TestSweepRectangle_RepairsDegenerateQuad(t *testing.T) {
	// Corners 1-3 and 2-4 are opposite (the diagonals cross), so both pairs
	// straddle the other's edge and collapse to the shared midpoint (2, 1.5);
	// this should not panic and should still produce a bounded cell set.
	p1, p2, p3, p4 := F(0, 0), F(4, 3), F(4, 0), F(0, 3)
	cells := SweepRectangle(p1, p2, p3, p4, false)
	assert.NotEmpty(t, cells)
	for _, c := range cells {
		assert.True(t, c.X >= 0 && c.X <= 4 && c.Y >= 0 && c.Y <= 3)
	}
}

func TestCheckQuad_FlagsFullyDegenerateQuad(t *testing.T) {
	p1, p2, p3, p4 := F(0, 0), F(4, 3), F(4, 0), F(0, 3)
	assert.ErrorIs(t, CheckQuad(p1, p2, p3, p4), ErrDegenerateQuad)
}

func TestCheckQuad_AcceptsOrdinaryQuad(t *testing.T) {
	p1, p2, p3, p4 := F(0, 0), F(0, 3), F(4, 3), F(4, 0)
	assert.NoError(t, CheckQuad(p1, p2, p3, p4))
}

func TestHalfDisk_OppositeSideOfTravel(t *testing.T) {
	last := F(0, 0)
	prevDir := F(1, 0)
	capCells := HalfDisk(last, prevDir, 3)
	for _, c := range capCells {
		assert.LessOrEqual(t, c.X, 0)
	}
	assert.NotEmpty(t, capCells)
}

func TestDisk_Rasterize(t *testing.T) {
	d := Disk{Center: F(5, 5), Radius: 2}
	cells := d.Rasterize()
	assert.Contains(t, cells, Coord{5, 5})
	assert.NotContains(t, cells, Coord{5, 8})
}
