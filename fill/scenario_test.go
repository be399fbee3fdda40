package fill

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmmyslony/vectorslicer/director"
	vpattern "github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/seedline"
)

func diskMask(w, h int, cx, cy, radius float64) [][]bool {
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			mask[y][x] = dx*dx+dy*dy <= radius*radius
		}
	}
	return mask
}

// azimuthalField builds D = (-sin(theta), cos(theta)) in polar coordinates
// about (cx, cy), the +1 azimuthal defect of spec.md §8 Scenario A.
func azimuthalField(t *testing.T, w, h int, cx, cy float64) *director.Field {
	t.Helper()
	Dx := make([][]float64, h)
	Dy := make([][]float64, h)
	for y := 0; y < h; y++ {
		Dx[y] = make([]float64, w)
		Dy[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx == 0 && dy == 0 {
				Dx[y][x], Dy[y][x] = 1, 0
				continue
			}
			theta := math.Atan2(dy, dx)
			Dx[y][x], Dy[y][x] = -math.Sin(theta), math.Cos(theta)
		}
	}
	f, err := director.NewField(Dx, Dy)
	require.NoError(t, err)
	return f
}

// radialField builds D = (cos(theta), sin(theta)), spec.md §8 Scenario R.
func radialField(t *testing.T, w, h int, cx, cy float64) *director.Field {
	t.Helper()
	Dx := make([][]float64, h)
	Dy := make([][]float64, h)
	for y := 0; y < h; y++ {
		Dx[y] = make([]float64, w)
		Dy[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx == 0 && dy == 0 {
				Dx[y][x], Dy[y][x] = 1, 0
				continue
			}
			theta := math.Atan2(dy, dx)
			Dx[y][x], Dy[y][x] = math.Cos(theta), math.Sin(theta)
		}
	}
	f, err := director.NewField(Dx, Dy)
	require.NoError(t, err)
	return f
}

// TestScenarioA_AzimuthalDefect mirrors spec.md §8 Scenario A: a disk with
// an azimuthal +1 defect at its centre, filled with method Dual. Splay
// vanishes everywhere (the director is a pure rotation field), so no
// splay seed lines exist and the engine must rely entirely on the
// reseeding fallback; the expectation is near-complete coverage.
func TestScenarioA_AzimuthalDefect(t *testing.T) {
	w, h := 100, 100
	cx, cy := 50.0, 50.0
	field := azimuthalField(t, w, h, cx, cy)
	mask := diskMask(w, h, cx, cy, 40)

	dp, err := vpattern.NewDesiredPattern(mask, field, nil, vpattern.Dual, seedline.Centres, 0)
	require.NoError(t, err)

	config := vpattern.FillingConfig{
		Method: vpattern.Dual, StepLength: 8, PrintRadius: 4, SeedSpacing: 8, Seed: 0,
	}
	flags := vpattern.DefaultSimulationConfig().Method

	fp := New(dp, config, flags)
	fp.Run()
	fp.PostProcess()

	require.NotEmpty(t, fp.Paths)

	var emptyCells, shapeCells int
	for y := 0; y < dp.Shape.H; y++ {
		for x := 0; x < dp.Shape.W; x++ {
			if !dp.Shape.Mask[y][x] {
				continue
			}
			shapeCells++
			if fp.Coverage.Fills[y][x] == 0 {
				emptyCells++
			}
		}
	}
	require.Greater(t, shapeCells, 0)
	emptyFraction := float64(emptyCells) / float64(shapeCells)
	assert.Less(t, emptyFraction, 0.02)
}

// TestScenarioR_RadialSplayFallsBackToPerimeter mirrors spec.md §8
// Scenario R: a disk with a pure radial director field and method Splay.
// Splay is non-zero everywhere except at most a single cell at the origin,
// too small to produce a usable skeleton line, so the engine falls back to
// perimeter seeding, per fill.setupSeedLines.
func TestScenarioR_RadialSplayFallsBackToPerimeter(t *testing.T) {
	w, h := 100, 100
	cx, cy := 50.0, 50.0
	field := radialField(t, w, h, cx, cy)
	mask := diskMask(w, h, cx, cy, 40)

	dp, err := vpattern.NewDesiredPattern(mask, field, nil, vpattern.Splay, seedline.Centres, 0)
	require.NoError(t, err)
	// no usable splay skeleton line for a pure radial field: the
	// perimeter lines are what the engine actually seeds from.
	assert.NotEmpty(t, dp.PerimeterLines)

	config := vpattern.FillingConfig{
		Method: vpattern.Splay, StepLength: 8, PrintRadius: 4, SeedSpacing: 8, Seed: 0,
	}
	flags := vpattern.DefaultSimulationConfig().Method

	fp := New(dp, config, flags)
	fp.Run()
	fp.PostProcess()

	require.NotEmpty(t, fp.Paths)
	// radially-emanating strokes: every path's first segment direction
	// should be roughly parallel to the local director (the field is
	// purely radial, so tangent and director coincide up to sign).
	for _, p := range fp.Paths {
		if p.Len() < 2 {
			continue
		}
		tangent := p.Centre[1].Sub(p.Centre[0]).Normalize()
		d := dp.Field.At(p.Centre[0].Trunc()).Normalize()
		agreement := math.Abs(tangent.Dot(d))
		assert.Greater(t, agreement, 0.5)
	}
}

// TestScenarioD_DiscontinuityTerminatesAtBoundary mirrors spec.md §8
// Scenario D: a 100x20 strip with D=(1,0) on the left half and D=(0,1) on
// the right half, Terminate discontinuity policy at a 40 degree threshold.
// No path should cross x=50.
func TestScenarioD_DiscontinuityTerminatesAtBoundary(t *testing.T) {
	w, h := 100, 20
	Dx := make([][]float64, h)
	Dy := make([][]float64, h)
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		Dx[y] = make([]float64, w)
		Dy[y] = make([]float64, w)
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			mask[y][x] = true
			if x < w/2 {
				Dx[y][x], Dy[y][x] = 1, 0
			} else {
				Dx[y][x], Dy[y][x] = 0, 1
			}
		}
	}
	field, err := director.NewField(Dx, Dy)
	require.NoError(t, err)

	dp, err := vpattern.NewDesiredPattern(mask, field, nil, vpattern.Perimeter, seedline.Centres, 0)
	require.NoError(t, err)

	flags := vpattern.DefaultSimulationConfig().Method
	flags.Discontinuity = vpattern.Terminate
	flags.DiscontinuityAngle = 40 * math.Pi / 180

	config := vpattern.FillingConfig{
		Method: vpattern.Perimeter, StepLength: 8, PrintRadius: 4, SeedSpacing: 8, Seed: 0,
	}

	fp := New(dp, config, flags)
	fp.Run()
	fp.PostProcess()

	boundaryX := 50.0
	for _, p := range fp.Paths {
		var crossedLeft, crossedRight bool
		for _, c := range p.Centre {
			if c.X < boundaryX-1e-6 {
				crossedLeft = true
			}
			if c.X > boundaryX+1e-6 {
				crossedRight = true
			}
		}
		assert.Falsef(t, crossedLeft && crossedRight, "path crossed the discontinuity boundary: %v", p.Centre)
	}
}
