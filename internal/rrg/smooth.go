package rrg

import (
	"gonum.org/v1/gonum/interp"
)

// smoothSamples is the number of points a smoothed tail path is densified
// to, matching the reference rendering resolution.
const smoothSamples = 100

// Smoother produces a denser path through an ordered sequence of tail
// points, for cosmetic rendering only. Implementations must preserve the
// first and last input coordinates exactly and pass 2-point input through
// unchanged.
type Smoother interface {
	Smooth(xs, ys []float64) (outX, outY []float64)
}

// Compile-time interface checks.
var _ Smoother = IdentitySmoother{}
var _ Smoother = SplineSmoother{}

// IdentitySmoother passes the input through unchanged. It is the default
// when no smoothing capability is wanted, keeping the engine deterministic.
type IdentitySmoother struct{}

// Smooth returns the input as-is.
func (IdentitySmoother) Smooth(xs, ys []float64) ([]float64, []float64) {
	return xs, ys
}

// SplineSmoother interpolates a natural cubic spline through the tail
// points, parameterized by point index, and samples it densely.
type SplineSmoother struct{}

// Smooth fits x(t) and y(t) over t = 0..n−1 and evaluates both at
// smoothSamples evenly spaced parameter values. Inputs shorter than 3
// points, and any fit failure, fall back to the raw input.
func (SplineSmoother) Smooth(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if n < 3 || len(ys) != n {
		return xs, ys
	}

	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)
	}

	var cx, cy interp.NaturalCubic
	if err := cx.Fit(ts, xs); err != nil {
		return xs, ys
	}
	if err := cy.Fit(ts, ys); err != nil {
		return xs, ys
	}

	outX := make([]float64, smoothSamples)
	outY := make([]float64, smoothSamples)
	last := float64(n - 1)
	for i := 0; i < smoothSamples; i++ {
		t := last * float64(i) / float64(smoothSamples-1)
		outX[i] = cx.Predict(t)
		outY[i] = cy.Predict(t)
	}
	// Endpoints must match the raw tail exactly.
	outX[0], outY[0] = xs[0], ys[0]
	outX[smoothSamples-1], outY[smoothSamples-1] = xs[n-1], ys[n-1]
	return outX, outY
}
