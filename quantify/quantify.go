// Package quantify computes the scalar disagreement functional a
// FilledPattern is judged by, and aggregates it over multiple seeds, per
// spec.md §4.H.
package quantify

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/zmmyslony/vectorslicer/fill"
	"github.com/zmmyslony/vectorslicer/geom"
	"github.com/zmmyslony/vectorslicer/pattern"
)

// Metrics holds the four measurements spec.md §4.H derives from a
// completed FilledPattern.
type Metrics struct {
	EmptyFraction        float64
	OverlapFraction      float64
	DirectorDisagreement float64
	PathCount            int
}

// Measure computes Metrics over fp's shape cells, per spec.md §4.H.
func Measure(fp *fill.FilledPattern) Metrics {
	shape := fp.Pattern.Shape
	var total, empty int
	var overlapSum float64
	var disagreementSum float64
	var disagreementCount int

	for y := 0; y < shape.H; y++ {
		for x := 0; x < shape.W; x++ {
			c := geom.C(x, y)
			if !shape.InShape(c) {
				continue
			}
			total++
			fills := fp.Coverage.Fills[y][x]
			if fills == 0 {
				empty++
				continue
			}
			overlap := float64(fills) - 1
			if overlap < 0 {
				overlap = 0
			}
			overlapSum += overlap

			fx, fy := fp.Coverage.Fx[y][x], fp.Coverage.Fy[y][x]
			fNorm := math.Hypot(fx, fy)
			d := fp.Pattern.Field.At(c)
			dNorm := d.Norm()
			if fNorm > 0 && dNorm > 0 {
				agreement := math.Abs(fx*d.X+fy*d.Y) / (fNorm * dNorm)
				disagreementSum += 1 - agreement
				disagreementCount++
			}
		}
	}

	m := Metrics{PathCount: len(fp.Paths)}
	if total > 0 {
		m.EmptyFraction = float64(empty) / float64(total)
		m.OverlapFraction = overlapSum / float64(total)
	}
	if disagreementCount > 0 {
		m.DirectorDisagreement = disagreementSum / float64(disagreementCount)
	} else {
		m.DirectorDisagreement = 1
	}
	return m
}

// Scalar computes spec.md §4.H's scalar disagreement:
// max(1, path_count^p_path) * (w_e*empty^p_e + w_o*overlap^p_o + w_d*dirdis^p_d).
func Scalar(m Metrics, w pattern.DisagreementWeights) float64 {
	pathFactor := math.Max(1, math.Pow(float64(m.PathCount), w.PathCountExponent))
	sum := w.EmptyWeight*math.Pow(m.EmptyFraction, w.EmptyExponent) +
		w.OverlapWeight*math.Pow(m.OverlapFraction, w.OverlapExponent) +
		w.DirectorWeight*math.Pow(m.DirectorDisagreement, w.DirectorExponent)
	return pathFactor * sum
}

// EvalFunc builds one FilledPattern for the given seed, runs it to
// completion and returns its scalar disagreement; callers supply this so
// Aggregate stays independent of how a FilledPattern is constructed.
type EvalFunc func(seed uint64) float64

// Aggregate evaluates K independent FilledPatterns in parallel (one per
// seed in seeds), sorts their disagreements, and returns the value at
// index floor(K*(1-percentile)), per spec.md §4.H "Aggregation over K
// seeds". The rank is taken directly from the sorted values; gonum/stat
// is used only by Quantile.
func Aggregate(seeds []uint64, percentile float64, threads int, eval EvalFunc) float64 {
	k := len(seeds)
	if k == 0 {
		return math.NaN()
	}
	results := make([]float64, k)

	if threads < 1 {
		threads = 1
	}
	var wg sync.WaitGroup
	jobs := make(chan int, k)
	for i := 0; i < k; i++ {
		jobs <- i
	}
	close(jobs)

	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = eval(seeds[i])
			}
		}()
	}
	wg.Wait()

	sorted := append([]float64(nil), results...)
	sort.Float64s(sorted)

	idx := int(float64(k) * (1 - percentile))
	if idx < 0 {
		idx = 0
	}
	if idx >= k {
		idx = k - 1
	}
	return sorted[idx]
}

// Quantile is an alternative aggregation entrypoint exposing gonum/stat's
// continuous quantile interpolation directly, for callers (e.g. the
// Bayesian driver's reporting layer) that want a smoother percentile
// estimate than the discrete rank Aggregate returns.
func Quantile(values []float64, percentile float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(1-percentile, stat.Empirical, sorted, nil)
}
