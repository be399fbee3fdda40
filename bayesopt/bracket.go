package bayesopt

import (
	"math"

	"github.com/zmmyslony/vectorslicer/pattern"
)

// Bracket is the [lo, hi] search interval and fixed initial guesses for
// one optimised dimension, per spec.md §4.I.
type Bracket struct {
	Lo, Hi  float64
	Guesses []float64
}

// BracketFor returns the bracket for dim given the base print radius
// (several brackets are expressed relative to it), per spec.md §4.I.
func BracketFor(dim pattern.OptimisedDimension, printRadius float64) Bracket {
	switch dim {
	case pattern.DimRepulsionMagnitude:
		return Bracket{Lo: 0, Hi: 2, Guesses: []float64{0, 0.25}}
	case pattern.DimRepulsionAngle:
		return Bracket{Lo: 0, Hi: math.Pi / 2, Guesses: []float64{0, math.Pi / 2}}
	case pattern.DimSeedSpacing:
		return Bracket{
			Lo: 1.6 * printRadius, Hi: 3 * printRadius,
			Guesses: []float64{2 * printRadius, 2*printRadius + 1},
		}
	case pattern.DimTerminationRadius:
		return Bracket{Lo: 0, Hi: printRadius + 1, Guesses: []float64{0, printRadius - 1}}
	default:
		return Bracket{Lo: 0, Hi: 1, Guesses: []float64{0}}
	}
}

// Apply writes value into the FillingConfig field dim selects.
func Apply(dim pattern.OptimisedDimension, value float64, cfg *pattern.FillingConfig) {
	switch dim {
	case pattern.DimRepulsionMagnitude:
		cfg.Repulsion = value
	case pattern.DimRepulsionAngle:
		cfg.RepulsionAngle = value
	case pattern.DimSeedSpacing:
		cfg.SeedSpacing = value
	case pattern.DimTerminationRadius:
		cfg.TerminationRadius = value
	}
}
