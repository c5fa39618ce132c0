/*
NAME
  optimize.go

DESCRIPTION
  optimize.go implements pass 4: per-frame parameter optimization against
  the raw audio's smoothed log power spectrum (spec section 4.5, step 4).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encode

import (
	"github.com/ericlafortune/tmsav/codec/lpc"
	"github.com/ericlafortune/tmsav/codec/lpc/chip"
	"github.com/ericlafortune/tmsav/dsp"
)

// optParam identifies one scalar the optimizer sweeps: energy, then each of
// the ten reflection coefficients, then energy again.
type optParam int

const (
	paramEnergy1 optParam = iota
	paramK0
	paramK1
	paramK2
	paramK3
	paramK4
	paramK5
	paramK6
	paramK7
	paramK8
	paramK9
	paramEnergy2
)

var optOrder = [...]optParam{
	paramEnergy1, paramK0, paramK1, paramK2, paramK3, paramK4,
	paramK5, paramK6, paramK7, paramK8, paramK9, paramEnergy2,
}

// optimizePass implements pass 4, refining each slot's candidates in
// place against the raw audio's smoothed log power spectrum over the
// optimization window centered on the slot.
func (e *Encoder) optimizePass(samples []float64, candidates [][]candidate) {
	if !e.optimizeFrames {
		return
	}
	half := e.optWindowSize / 2
	for i := range candidates {
		center := i*frameStep + frameStep/2
		lo, hi := center-half, center+half
		if lo < 0 {
			lo = 0
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		target := dsp.SmoothSpectrum(dsp.LogPowerSpectrum(samples[lo:hi]), 2)

		var next lpc.Frame
		if i+1 < len(candidates) && len(candidates[i+1]) > 0 {
			next = candidates[i+1][0].frame
		} else {
			next = lpc.NewSilence()
		}

		for c := range candidates[i] {
			candidates[i][c].frame = e.optimizeFrame(candidates[i][c].frame, next, target)
		}
	}
}

// optimizeFrame sweeps each parameter in optOrder outward from its current
// value, keeping the trial that minimizes spectral error, stopping each
// direction on the first error increase, across up to 10 sweeps or until
// no parameter changes in a sweep.
func (e *Encoder) optimizeFrame(f, next lpc.Frame, target []float64) lpc.Frame {
	if f.Kind != lpc.Voiced && f.Kind != lpc.Unvoiced {
		return f
	}
	kCount := 10
	if f.Kind == lpc.Unvoiced {
		kCount = 4
	}
	for sweep := 0; sweep < 10; sweep++ {
		changed := false
		for _, p := range optOrder {
			if p != paramEnergy1 && p != paramEnergy2 && int(p) > kCount {
				continue
			}
			if newF, ok := e.optimizeOneParam(f, next, target, p); ok {
				f = newF
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return f
}

// optimizeOneParam scans parameter p monotonically outward from f's
// current value, in both directions, returning the best trial found (if
// better than f) and whether it changed anything.
func (e *Encoder) optimizeOneParam(f, next lpc.Frame, target []float64, p optParam) (lpc.Frame, bool) {
	cur := paramValue(f, p)
	maxVal := paramMax(f, p)

	best := f
	bestErr := e.spectralError(f, next, target)
	improved := false

	for _, dir := range []int{1, -1} {
		trial := f
		v := cur
		for {
			v += dir
			if v < 0 || v > maxVal {
				break
			}
			candidateFrame := setParamValue(trial, p, v)
			err := e.spectralError(candidateFrame, next, target)
			if err < bestErr {
				bestErr = err
				best = candidateFrame
				improved = true
			} else {
				break
			}
			trial = candidateFrame
		}
	}
	return best, improved
}

// spectralError simulates f then next through the full interpolating
// simulator and compares the resulting smoothed log power spectrum to
// target.
func (e *Encoder) spectralError(f, next lpc.Frame, target []float64) float64 {
	sim := chip.NewFull(e.variant)
	out := sim.Synthesize(f, nil)
	out = sim.Synthesize(next, out)
	floatOut := make([]float64, len(out))
	for i, s := range out {
		floatOut[i] = float64(s) / 32768
	}
	got := dsp.SmoothSpectrum(dsp.LogPowerSpectrum(floatOut), 2)
	return dsp.SquaredDifference(got, target)
}

func paramValue(f lpc.Frame, p optParam) int {
	switch p {
	case paramEnergy1, paramEnergy2:
		return int(f.Energy)
	default:
		return int(f.K[int(p)-1])
	}
}

func paramMax(f lpc.Frame, p optParam) int {
	switch p {
	case paramEnergy1, paramEnergy2:
		return 14
	default:
		return (1 << uint(kWidthFor(int(p)-1))) - 1
	}
}

func setParamValue(f lpc.Frame, p optParam, v int) lpc.Frame {
	switch p {
	case paramEnergy1, paramEnergy2:
		f.Energy = uint8(v)
	default:
		f.K[int(p)-1] = uint8(v)
	}
	return f
}

func kWidthFor(i int) int {
	widths := [10]int{5, 5, 4, 4, 4, 4, 4, 3, 3, 3}
	return widths[i]
}
