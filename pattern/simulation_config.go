package pattern

import "github.com/zmmyslony/vectorslicer/seedline"

// DiscontinuityPolicy governs how the engine reacts when the director at a
// propagation candidate disagrees sharply with the director at the
// current position.
type DiscontinuityPolicy int

const (
	// Ignore accepts every candidate regardless of director discontinuity.
	Ignore DiscontinuityPolicy = iota
	// Stick rejects discontinuous candidates but remembers the first one,
	// falling back to it if no continuous candidate is ever found.
	Stick
	// Terminate rejects discontinuous candidates outright, ending the path.
	Terminate
)

// OptimisedDimension names a FillingConfig field the Bayesian driver may
// tune.
type OptimisedDimension int

const (
	DimRepulsionAngle OptimisedDimension = iota
	DimRepulsionMagnitude
	DimSeedSpacing
	DimTerminationRadius
)

// FillingMethodFlags bundles the policy switches that shape how paths are
// grown and bookkept, independent of the generating parameters in
// FillingConfig.
type FillingMethodFlags struct {
	VectorFilling       bool
	VectorSorting       bool
	DropIsolatedPoints  bool
	MinLineLengthFactor float64
	Discontinuity       DiscontinuityPolicy
	DiscontinuityAngle  float64
	SplayLineBehaviour  seedline.SplayLineBehaviour
}

// DisagreementWeights holds the weights and exponents of the scalar
// disagreement functional in spec.md §4.H.
type DisagreementWeights struct {
	PathCountExponent float64

	EmptyWeight   float64
	EmptyExponent float64

	OverlapWeight   float64
	OverlapExponent float64

	DirectorWeight   float64
	DirectorExponent float64
}

// BayesianParameters configures the outer optimisation loop (spec.md §4.I).
type BayesianParameters struct {
	TotalIterationCap       int
	ImprovementIterationCap int
	RelearningPeriod        int
	Noise                   float64
	Dimensions              []OptimisedDimension
}

// AggregationParameters configures how many seeds are evaluated per
// Bayesian step, how the disagreements are combined, and how many final
// layers are retained (spec.md §4.H, §5).
type AggregationParameters struct {
	Threads          int
	SeedsPerEval     int
	FinalSeeds       int
	Percentile       float64
	LayerCount       int
}

// SimulationConfig is the full set of read-only policy groups the engine
// consumes, threaded explicitly through constructors rather than held as
// package-level state (spec.md §9 "Global mutable state").
type SimulationConfig struct {
	Method      FillingMethodFlags
	Weights     DisagreementWeights
	Bayesian    BayesianParameters
	Aggregation AggregationParameters
}

// DefaultSimulationConfig returns reasonable defaults matching the
// original implementation's compiled-in constants.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Method: FillingMethodFlags{
			VectorFilling:       true,
			VectorSorting:       true,
			DropIsolatedPoints:  true,
			MinLineLengthFactor: 2,
			Discontinuity:       Ignore,
			DiscontinuityAngle:  0.7,
			SplayLineBehaviour:  seedline.Centres,
		},
		Weights: DisagreementWeights{
			PathCountExponent: 1,
			EmptyWeight:       1, EmptyExponent: 1,
			OverlapWeight: 1, OverlapExponent: 1,
			DirectorWeight: 1, DirectorExponent: 1,
		},
		Bayesian: BayesianParameters{
			TotalIterationCap:       100,
			ImprovementIterationCap: 30,
			RelearningPeriod:        10,
			Noise:                   1e-3,
			Dimensions:              []OptimisedDimension{DimRepulsionMagnitude},
		},
		Aggregation: AggregationParameters{
			Threads:      1,
			SeedsPerEval: 8,
			FinalSeeds:   32,
			Percentile:   0.5,
			LayerCount:   1,
		},
	}
}
