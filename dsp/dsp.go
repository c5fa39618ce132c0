/*
NAME
  dsp.go

DESCRIPTION
  dsp.go implements the signal-processing primitives the speech encoder's
  analysis passes need: windows, pre-emphasis, autocorrelation and pitch
  estimation (spec section 4.4). Built atop the teacher's own FFT
  dependency, github.com/mjibson/go-dsp, and gonum.org/v1/gonum for vector
  helpers, matching ausocean-av's mixed use of both in codec/pcm/filters.go
  and cmd/rv/probe.go.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsp provides the windowing, spectral and autocorrelation
// primitives used by the WAV-to-LPC speech encoder's analysis passes.
package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Hamming returns an n-sample Hamming window.
func Hamming(n int) []float64 { return window.Hamming(n) }

// Blackman returns an n-sample Blackman window.
func Blackman(n int) []float64 { return window.Blackman(n) }

// Gaussian returns an n-sample Gaussian window with standard deviation
// sigma expressed as a fraction of the half-window length; go-dsp does not
// provide one, so it is computed directly from its definition.
func Gaussian(n int, sigma float64) []float64 {
	w := make([]float64, n)
	half := float64(n-1) / 2
	for i := range w {
		x := (float64(i) - half) / (sigma * half)
		w[i] = math.Exp(-0.5 * x * x)
	}
	return w
}

// PreEmphasis applies a first-order high-pass filter y[n] = x[n] -
// coeff*x[n-1], boosting high frequencies before LPC analysis.
func PreEmphasis(x []float64, coeff float64) []float64 {
	y := make([]float64, len(x))
	var prev float64
	for i, v := range x {
		y[i] = v - coeff*prev
		prev = v
	}
	return y
}

// Autocorrelation returns the biased autocorrelation of x at lags 0..maxLag,
// normalized by len(x) (the biased estimator standard in LPC analysis: the
// same division for every lag keeps the sequence positive semi-definite,
// which Levinson-Durbin and Le-Roux/Gueguen both require).
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		r[lag] = floats.Dot(x[:n-lag], x[lag:]) / float64(n)
	}
	return r
}

// EstimatePitch returns the lag in [minLag,maxLag] maximizing the
// normalized autocorrelation of x, the simplest reliable pitch-period
// estimator for voiced speech frames. The first lag whose autocorrelation
// stands out from the window's mean by at least one standard deviation is
// followed up its slope to the local peak, and that shortest strong peak
// wins, since a weaker peak at twice the true pitch period is a common
// subharmonic false match; when no lag clears that bar, the single global
// maximum is used instead.
func EstimatePitch(x []float64, minLag, maxLag int) int {
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(x) {
		maxLag = len(x) - 1
	}
	r := Autocorrelation(x, maxLag)
	candidates := r[minLag : maxLag+1]

	mean := stat.Mean(candidates, nil)
	stddev := stat.StdDev(candidates, nil)

	best := minLag
	bestVal := r[minLag]
	outlier := -1
	threshold := mean + stddev
	for lag := minLag; lag <= maxLag; lag++ {
		if r[lag] > bestVal {
			bestVal = r[lag]
			best = lag
		}
		if outlier < 0 && r[lag] >= threshold {
			outlier = lag
		}
	}
	if outlier >= 0 {
		for outlier < maxLag && r[outlier+1] > r[outlier] {
			outlier++
		}
		return outlier
	}
	return best
}

// SquaredDifference returns the sum of squared differences between a and b,
// the error metric the encoder's parameter-optimization pass minimizes
// between candidate and target spectra.
func SquaredDifference(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
