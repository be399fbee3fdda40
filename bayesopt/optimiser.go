// Package bayesopt implements a sequential optimiser interface with a
// Gaussian-process implementation and the Bayesian driver protocol of
// spec.md §4.I, used to
// tune a FillingConfig's continuous dimensions against the scalar
// disagreement functional from the quantify package.
package bayesopt

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SequentialOptimiser is the interface a sequential optimiser satisfies;
// GPOptimiser is its one implementation. Run always constructs a
// GPOptimiser itself and does not accept another SequentialOptimiser.
type SequentialOptimiser interface {
	// Observe records one evaluated sample.
	Observe(x []float64, y float64)
	// Propose returns the next point to evaluate.
	Propose() []float64
	// Best returns the best (lowest-y) sample observed so far.
	Best() (x []float64, y float64, ok bool)
}

// GPOptimiser is a Gaussian-process-surrogate sequential optimiser: it
// fits a zero-mean GP with a squared-exponential kernel to every
// observation so far (via a Cholesky solve in gonum/mat) and proposes
// the point of highest expected improvement among a random candidate
// pool, per spec.md §4.I "let the sequential optimiser propose one
// point".
type GPOptimiser struct {
	bounds []Bracket
	noise  float64
	rng    *rand.Rand

	xs []([]float64)
	ys []float64
}

// NewGPOptimiser builds a GPOptimiser over the given per-dimension
// brackets, seeded for reproducibility.
func NewGPOptimiser(bounds []Bracket, noise float64, seed uint64) *GPOptimiser {
	return &GPOptimiser{
		bounds: bounds,
		noise:  noise,
		rng:    rand.New(rand.NewSource(int64(seed))),
	}
}

func (g *GPOptimiser) Observe(x []float64, y float64) {
	g.xs = append(g.xs, append([]float64(nil), x...))
	g.ys = append(g.ys, y)
}

func (g *GPOptimiser) Best() (x []float64, y float64, ok bool) {
	if len(g.ys) == 0 {
		return nil, 0, false
	}
	bestIdx := 0
	for i, v := range g.ys {
		if v < g.ys[bestIdx] {
			bestIdx = i
		}
	}
	return g.xs[bestIdx], g.ys[bestIdx], true
}

const candidatePoolSize = 256

// Propose samples a pool of candidates uniformly from the bounds and
// returns the one with the highest expected improvement over the
// current best, computed from the GP posterior mean and variance.
func (g *GPOptimiser) Propose() []float64 {
	if len(g.xs) == 0 {
		return g.sample()
	}
	_, bestY, _ := g.Best()

	gp, ok := g.fit()
	if !ok {
		return g.sample()
	}

	var bestCandidate []float64
	bestEI := math.Inf(-1)
	for i := 0; i < candidatePoolSize; i++ {
		candidate := g.sample()
		mean, variance := gp.predict(candidate)
		ei := expectedImprovement(bestY, mean, variance)
		if ei > bestEI {
			bestEI = ei
			bestCandidate = candidate
		}
	}
	return bestCandidate
}

func (g *GPOptimiser) sample() []float64 {
	x := make([]float64, len(g.bounds))
	for i, b := range g.bounds {
		x[i] = b.Lo + g.rng.Float64()*(b.Hi-b.Lo)
	}
	return x
}

// expectedImprovement computes the closed-form EI for a minimisation
// problem assuming a Gaussian posterior; it returns 0 when the variance
// collapses to ~0.
func expectedImprovement(bestY, mean, variance float64) float64 {
	if variance < 1e-12 {
		return 0
	}
	sigma := math.Sqrt(variance)
	z := (bestY - mean) / sigma
	return (bestY-mean)*normalCDF(z) + sigma*normalPDF(z)
}

func normalPDF(z float64) float64 {
	return math.Exp(-0.5*z*z) / math.Sqrt(2*math.Pi)
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// gpPosterior is a fitted zero-mean Gaussian process over the current
// observations, holding the Cholesky factor needed for prediction.
type gpPosterior struct {
	owner *GPOptimiser
	chol  *mat.Cholesky
	alpha *mat.VecDense
}

const lengthScale = 1.0

func kernel(a, b []float64) float64 {
	var sumSq float64
	for i := range a {
		d := a[i] - b[i]
		sumSq += d * d
	}
	return math.Exp(-0.5 * sumSq / (lengthScale * lengthScale))
}

// fit builds the GP posterior over all observations so far, returning
// ok=false if the covariance matrix is not positive definite (e.g. too
// few or duplicate samples) so the caller can fall back to random
// sampling instead.
func (g *GPOptimiser) fit() (*gpPosterior, bool) {
	n := len(g.xs)
	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := kernel(g.xs[i], g.xs[j])
			if i == j {
				v += g.noise
			}
			k.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(k); !ok {
		return nil, false
	}

	y := mat.NewVecDense(n, g.ys)
	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, y); err != nil {
		return nil, false
	}

	return &gpPosterior{owner: g, chol: &chol, alpha: &alpha}, true
}

func (p *gpPosterior) predict(x []float64) (mean, variance float64) {
	n := len(p.owner.xs)
	kStar := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		kStar.SetVec(i, kernel(x, p.owner.xs[i]))
	}
	mean = kStar.Dot(p.alpha)

	var v mat.VecDense
	if err := p.chol.SolveVecTo(&v, kStar); err != nil {
		return mean, 0
	}
	variance = kernel(x, x) - kStar.Dot(&v)
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}
