package bayesopt

import (
	"github.com/zmmyslony/vectorslicer/pattern"
)

// Eval scores one point in the selected dimensions' space; callers wire
// this to quantify.Aggregate over a freshly built FilledPattern per
// point.
type Eval func(params []float64) float64

// Result is one step of the optimisation trace: the point evaluated and
// its disagreement.
type Result struct {
	Params       []float64
	Disagreement float64
}

// Run executes the Bayesian driver protocol of spec.md §4.I:
//  1. evaluate the fixed-guess cartesian product (no separately drawn
//     initial samples are evaluated before it);
//  2. iterate the sequential optimiser until total_iter is exceeded,
//     improvement_iter passes without strict improvement, or a
//     disagreement of exactly 0 is observed.
//
// Returns the full evaluation trace in order; the caller derives the
// winning parameters from trace[i] with the lowest Disagreement (ties
// broken by earliest index), per Best.
func Run(printRadius float64, params pattern.BayesianParameters, eval Eval) []Result {
	brackets := make([]Bracket, len(params.Dimensions))
	for i, d := range params.Dimensions {
		brackets[i] = BracketFor(d, printRadius)
	}

	opt := NewGPOptimiser(brackets, params.Noise, 0)
	var trace []Result

	evalAndObserve := func(x []float64) Result {
		y := eval(x)
		opt.Observe(x, y)
		r := Result{Params: append([]float64(nil), x...), Disagreement: y}
		trace = append(trace, r)
		return r
	}

	for _, guesses := range cartesianProduct(brackets) {
		evalAndObserve(guesses)
	}

	runningMin := bestDisagreement(trace)
	sinceImprovement := 0
	for len(trace) < params.TotalIterationCap {
		if runningMin == 0 {
			break
		}
		candidate := opt.Propose()
		r := evalAndObserve(candidate)

		if r.Disagreement < runningMin {
			runningMin = r.Disagreement
			sinceImprovement = 0
		} else {
			sinceImprovement++
		}
		if sinceImprovement >= params.ImprovementIterationCap {
			break
		}
		if r.Disagreement == 0 {
			break
		}
	}

	return trace
}

// Best returns the lowest-disagreement result in trace.
func Best(trace []Result) (Result, bool) {
	if len(trace) == 0 {
		return Result{}, false
	}
	best := trace[0]
	for _, r := range trace[1:] {
		if r.Disagreement < best.Disagreement {
			best = r
		}
	}
	return best, true
}

func bestDisagreement(trace []Result) float64 {
	best, ok := Best(trace)
	if !ok {
		return 1
	}
	return best.Disagreement
}

// cartesianProduct enumerates every combination of each bracket's fixed
// initial guesses, per spec.md §4.I step 2.
func cartesianProduct(brackets []Bracket) [][]float64 {
	if len(brackets) == 0 {
		return nil
	}
	combos := [][]float64{{}}
	for _, b := range brackets {
		var next [][]float64
		for _, combo := range combos {
			for _, g := range b.Guesses {
				extended := append(append([]float64(nil), combo...), g)
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

// FinalRun re-evaluates the winning parameters over finalSeeds
// independent seeds (via evalFinal, which should aggregate exactly
// finalSeeds seeds) and returns the top layerCount results by ascending
// disagreement, per spec.md §4.I "Finally re-run the winning parameters
// over final_seeds seeds and retain the top layer_count".
func FinalRun(best Result, layerCount int, evalFinal func(params []float64) []Result) []Result {
	results := evalFinal(best.Params)
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j-1].Disagreement > results[j].Disagreement; j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
	if layerCount < len(results) {
		results = results[:layerCount]
	}
	return results
}
