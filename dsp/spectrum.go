/*
NAME
  spectrum.go

DESCRIPTION
  spectrum.go computes and smooths log power spectra, the comparison basis
  the encoder's parameter-optimization pass uses (spec section 4.5, step 4).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude-squared of x's FFT over its first
// half (the second half mirrors it for real-valued input), using the
// teacher's own go-dsp/fft dependency.
func PowerSpectrum(x []float64) []float64 {
	c := fft.FFTReal(padPow2(x))
	n := len(c)/2 + 1
	p := make([]float64, n)
	for i := 0; i < n; i++ {
		p[i] = real(c[i])*real(c[i]) + imag(c[i])*imag(c[i])
	}
	return p
}

// LogPowerSpectrum returns PowerSpectrum in decibels, with a floor to avoid
// taking log(0) for silent input.
func LogPowerSpectrum(x []float64) []float64 {
	p := PowerSpectrum(x)
	const floor = 1e-12
	out := make([]float64, len(p))
	for i, v := range p {
		if v < floor {
			v = floor
		}
		out[i] = 10 * math.Log10(v)
	}
	return out
}

// SmoothSpectrum applies a simple moving average of the given half-width to
// s, rounding off narrow spectral peaks the way the chip's quantized
// reflection coefficients cannot reproduce exactly.
func SmoothSpectrum(s []float64, halfWidth int) []float64 {
	if halfWidth <= 0 {
		return append([]float64(nil), s...)
	}
	out := make([]float64, len(s))
	for i := range s {
		lo, hi := i-halfWidth, i+halfWidth
		if lo < 0 {
			lo = 0
		}
		if hi >= len(s) {
			hi = len(s) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += s[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// GaussianSmooth convolves s with an n-sample Gaussian window of the given
// sigma, an alternative to SmoothSpectrum with a continuous falloff rather
// than a hard cutoff.
func GaussianSmooth(s []float64, n int, sigma float64) []float64 {
	kernel := Gaussian(n, sigma)
	var ksum float64
	for _, v := range kernel {
		ksum += v
	}
	half := n / 2
	out := make([]float64, len(s))
	for i := range s {
		var sum float64
		for j, kv := range kernel {
			idx := i + j - half
			if idx < 0 || idx >= len(s) {
				continue
			}
			sum += s[idx] * kv
		}
		out[i] = sum / ksum
	}
	return out
}

// padPow2 zero-pads x to the next power of two, the length go-dsp/fft's
// radix-2 implementation requires.
func padPow2(x []float64) []float64 {
	n := 1
	for n < len(x) {
		n <<= 1
	}
	if n == len(x) {
		return x
	}
	out := make([]float64, n)
	copy(out, x)
	return out
}
