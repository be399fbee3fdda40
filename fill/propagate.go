package fill

import (
	"errors"
	"math"

	"github.com/zmmyslony/vectorslicer"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/pattern"
	"github.com/zmmyslony/vectorslicer/tracepath"
)

// terminable implements spec.md §4.G "Terminability": a position is
// terminable if out of shape, already filled, or if any ring cell ahead
// (on the travel side of the perpendicular through p) is filled.
func (fp *FilledPattern) terminable(p geom.Coord, aheadDir geom.FCoord) bool {
	if !fp.Pattern.Shape.InShape(p) {
		return true
	}
	if fp.Coverage.IsFilled(p) {
		return true
	}
	if len(fp.ring) == 0 {
		return false
	}
	for _, offset := range fp.ring {
		if float64(offset.X)*aheadDir.X+float64(offset.Y)*aheadDir.Y <= 0 {
			continue
		}
		cell := p.Add(offset)
		if fp.Coverage.IsFilled(cell) {
			return true
		}
	}
	return false
}

// discontinuous applies the selected DiscontinuityPolicy's trigger
// condition: the director agreement between currentDir and newDir,
// signed when vector filling is enabled (so an outright reversal counts
// as discontinuous) and unsigned otherwise, per spec.md §4.G
// "discontinuity check".
func (fp *FilledPattern) discontinuous(currentDir, newDir geom.FCoord) bool {
	product := currentDir.Dot(newDir)
	if !fp.Flags.VectorFilling {
		product = math.Abs(product)
	}
	return product < math.Cos(fp.Flags.DiscontinuityAngle)
}

// stepState is the per-growth mutable cursor tryStep advances.
type stepState struct {
	position     geom.FCoord
	previousStep geom.FCoord
	stuckPending *pendingCommit
}

type pendingCommit struct {
	position geom.FCoord
	step     geom.FCoord
}

// tryStep attempts one propagation step of nominal length `length` from
// state.position, mutating state and appending to path on success. It
// returns false when no further growth at this length is possible (the
// caller's length loop then tries a shorter length).
func (fp *FilledPattern) tryStep(path *tracepath.Path, state *stepState, length float64) bool {
	currentCoord := state.position.Trunc()
	director := fp.Pattern.Field.Interpolate(state.position)
	newStep := director.Mul(length)
	if newStep.Dot(state.previousStep) < 0 {
		newStep = newStep.Neg()
	}

	newPosition := state.position.Add(newStep)
	if fp.Config.Repulsion != 0 {
		r := fp.repulsionVector(newStep, newPosition)
		newPosition = newPosition.Add(r)
		newStep = newStep.Add(r)
	}
	newCoord := newPosition.Trunc()

	if newCoord.Equal(currentCoord) || newStep.Dot(state.previousStep) <= 0 || newStep.Norm() < 2 {
		return false
	}

	if fp.terminable(newCoord, newStep) {
		return false
	}

	newDirector := fp.Pattern.Field.Interpolate(newPosition)
	if fp.discontinuous(director, newDirector) {
		switch fp.Flags.Discontinuity {
		case pattern.Terminate:
			return false
		case pattern.Stick:
			if state.stuckPending == nil {
				state.stuckPending = &pendingCommit{position: newPosition, step: newStep}
			}
			return false
		}
		// pattern.Ignore falls through and commits anyway.
	}

	return fp.commitStep(path, state, newPosition, newStep)
}

// commitStep appends newPosition to path, rasterises the swept
// quadrilateral between the previous and new offset edges, and updates
// coverage, per spec.md §4.G "Commit".
func (fp *FilledPattern) commitStep(path *tracepath.Path, state *stepState, newPosition, newStep geom.FCoord) bool {
	tangent := newStep.Normalize()
	perp := tangent.Perp()
	offset := perp.Mul(fp.Config.PrintRadius)

	prevEdgePos := path.EdgePos[path.Len()-1]
	prevEdgeNeg := path.EdgeNeg[path.Len()-1]
	newEdgePos := newPosition.Add(offset)
	newEdgeNeg := newPosition.Sub(offset)

	if err := geom.CheckQuad(prevEdgePos, newEdgePos, newEdgeNeg, prevEdgeNeg); errors.Is(err, geom.ErrDegenerateQuad) {
		vectorslicer.Logger().Warn("degenerate swept quadrilateral, repairing", "position", newPosition)
	}
	cells := geom.SweepRectangle(prevEdgePos, newEdgePos, newEdgeNeg, prevEdgeNeg, true)
	if len(cells) == 0 {
		return false
	}
	fp.Coverage.AddCells(cells, tangent)

	path.AddPoint(newPosition, newEdgePos, newEdgeNeg, 0)
	state.position = newPosition
	state.previousStep = newStep
	state.stuckPending = nil
	return true
}

// growPath grows a half-path from seed in the direction of tangent,
// shrinking the nominal step length each time propagation stalls, down
// to a minimum of 2, per spec.md §4.G "generateNewPathForDirection".
func (fp *FilledPattern) growPath(seed tracepath.Seed, tangent geom.FCoord) *tracepath.Path {
	path := tracepath.NewPath(seed, tangent, fp.Config.PrintRadius)
	state := &stepState{
		position:     path.First(),
		previousStep: tangent.Normalize().Mul(fp.Config.StepLength),
	}
	for length := fp.Config.StepLength; length >= 2; length-- {
		for fp.tryStep(path, state, length) {
		}
	}
	if state.stuckPending != nil {
		fp.commitStep(path, state, state.stuckPending.position, state.stuckPending.step)
	}
	return path
}
