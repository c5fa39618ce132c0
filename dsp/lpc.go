/*
NAME
  lpc.go

DESCRIPTION
  lpc.go implements the two reflection-coefficient estimators the encoder's
  initial LPC pass chooses between (spec section 4.5, step 3): classic
  Levinson-Durbin recursion and the direct Le-Roux/Gueguen algorithm, which
  computes reflection coefficients without first solving for the
  predictor's direct-form coefficients.

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

import "github.com/pkg/errors"

// LevinsonDurbin computes order reflection coefficients and the residual
// energy from an autocorrelation sequence r (r[0] is lag 0, len(r) must be
// at least order+1).
func LevinsonDurbin(r []float64, order int) (k []float64, residual float64, err error) {
	if len(r) < order+1 {
		return nil, 0, errors.Errorf("dsp: autocorrelation sequence too short: have %d, need %d", len(r), order+1)
	}
	if r[0] == 0 {
		return make([]float64, order), 0, nil
	}

	k = make([]float64, order)
	a := make([]float64, order+1)
	prevA := make([]float64, order+1)
	e := r[0]

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j] * r[i-j]
		}
		ki := acc / e
		k[i-1] = ki

		copy(prevA, a)
		a[i] = ki
		for j := 1; j < i; j++ {
			a[j] = prevA[j] - ki*prevA[i-j]
		}

		e *= 1 - ki*ki
		if e <= 0 {
			// Numerically degenerate (e.g. silent input); stop early and
			// leave remaining coefficients at zero rather than dividing by a
			// non-positive residual.
			return k, e, nil
		}
	}
	return k, e, nil
}

// LeRouxGueguen computes order reflection coefficients directly from r,
// without first recovering direct-form predictor coefficients. It rebuilds
// its forward and backward prediction-error tables each stage, which is
// cheaper than Levinson-Durbin when only reflection coefficients (not the
// direct-form polynomial) are needed, as is the case for an LPC-10 frame.
func LeRouxGueguen(r []float64, order int) (k []float64, err error) {
	if len(r) < order+1 {
		return nil, errors.Errorf("dsp: autocorrelation sequence too short: have %d, need %d", len(r), order+1)
	}
	k = make([]float64, order)
	// b[0][j] == b[1][j] == r[j] initially (forward and backward prediction
	// errors coincide before any stage has run).
	bf := append([]float64(nil), r...)
	bb := append([]float64(nil), r...)

	for i := 0; i < order; i++ {
		num := bf[i+1]
		den := bb[i]
		if den == 0 {
			k[i] = 0
			continue
		}
		ki := num / den
		k[i] = ki

		newBf := make([]float64, len(bf))
		newBb := make([]float64, len(bb))
		for j := i + 1; j < len(bf); j++ {
			newBf[j] = bf[j] - ki*bb[j-1]
		}
		for j := i + 1; j < len(bb); j++ {
			newBb[j] = bb[j-1] - ki*bf[j]
		}
		bf, bb = newBf, newBb
	}
	return k, nil
}
