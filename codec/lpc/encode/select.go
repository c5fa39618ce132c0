/*
NAME
  select.go

DESCRIPTION
  select.go implements pass 5: oversampling-candidate selection via the
  full interpolating simulator, energy re-optimization, and the three
  post-fixes (energy transitions, clamped-sample backoff, silence fold)
  from spec section 4.5, step 5.

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

// lpcDelaySelect is the sample delay spec section 4.5 uses to center the
// optimization window over the audible part of interpolated output during
// oversampling selection.
const lpcDelaySelect = 150

// lpcDelayReoptimize is the shorter delay used when re-optimizing energy
// against the full simulator after a candidate has been chosen.
const lpcDelayReoptimize = 100

// selectPass implements the oversampling-selection half of pass 5: for
// each slot, pick the candidate minimizing spectral error through the full
// simulator, then re-optimize its energy the same way.
func (e *Encoder) selectPass(samples []float64, candidates [][]candidate) []lpc.Frame {
	out := make([]lpc.Frame, len(candidates))
	sim := chip.NewFull(e.variant)

	for i, cands := range candidates {
		if len(cands) == 1 {
			out[i] = cands[0].frame
			continue
		}
		center := i*frameStep + frameStep/2
		target := delayedTargetSpectrum(samples, center, e.optWindowSize, lpcDelaySelect)

		best := cands[0].frame
		bestErr := delayedSpectralError(sim.Clone(), best, target, lpcDelaySelect)
		for _, c := range cands[1:] {
			if err := delayedSpectralError(sim.Clone(), c.frame, target, lpcDelaySelect); err < bestErr {
				bestErr = err
				best = c.frame
			}
		}
		out[i] = best
	}

	for i := range out {
		if out[i].Kind != lpc.Voiced && out[i].Kind != lpc.Unvoiced {
			continue
		}
		center := i*frameStep + frameStep/2
		target := delayedTargetSpectrum(samples, center, e.optWindowSize, lpcDelayReoptimize)
		out[i].Energy = e.reoptimizeEnergy(out[i], target)
	}
	return out
}

func delayedTargetSpectrum(samples []float64, center, windowSize, delay int) []float64 {
	half := windowSize / 2
	lo, hi := center+delay-half, center+delay+half
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples) {
		hi = len(samples)
	}
	if lo >= hi {
		return nil
	}
	return dsp.SmoothSpectrum(dsp.LogPowerSpectrum(samples[lo:hi]), 2)
}

func delayedSpectralError(sim chip.Synthesizer, f lpc.Frame, target []float64, delay int) float64 {
	if len(target) == 0 {
		return 0
	}
	out := sim.Synthesize(f, nil)
	out = sim.Synthesize(lpc.NewRepeat(f.Energy, f.Pitch), out)
	lo := delay
	if lo > len(out) {
		lo = len(out)
	}
	tail := out[lo:]
	floatOut := make([]float64, len(tail))
	for i, s := range tail {
		floatOut[i] = float64(s) / 32768
	}
	got := dsp.SmoothSpectrum(dsp.LogPowerSpectrum(floatOut), 2)
	return dsp.SquaredDifference(got, target)
}

func (e *Encoder) reoptimizeEnergy(f lpc.Frame, target []float64) uint8 {
	if len(target) == 0 {
		return f.Energy
	}
	best := f.Energy
	bestErr := delayedSpectralError(chip.NewFull(e.variant), f, target, lpcDelayReoptimize)
	for energy := uint8(0); energy <= 14; energy++ {
		trial := f
		trial.Energy = energy
		if err := delayedSpectralError(chip.NewFull(e.variant), trial, target, lpcDelayReoptimize); err < bestErr {
			bestErr = err
			best = energy
		}
	}
	return best
}

// saturation is the 16-bit-scaled clamp boundary a Full simulator's
// lattice can hit; spec section 4.5 names 0x7FF0 and 0x8000 explicitly.
const (
	saturationHigh = 0x7FF0
	saturationLow  = -0x8000
)

// postFixes implements the three post-fixes of pass 5, in spec order.
func (e *Encoder) postFixes(frames []lpc.Frame) {
	if e.fixEnergyTransitions {
		fixEnergyTransitions(frames)
	}
	if e.fixClampedSamples {
		fixClampedSamples(e.variant, frames)
	}
	foldSilence(frames)
}

// fixEnergyTransitions averages frame[i]'s energy with the preceding
// Unvoiced frame's lower energy, smoothing an abrupt unvoiced-to-voiced
// energy jump.
func fixEnergyTransitions(frames []lpc.Frame) {
	for i := 1; i < len(frames); i++ {
		if frames[i].Kind != lpc.Voiced || frames[i-1].Kind != lpc.Unvoiced {
			continue
		}
		if frames[i-1].Energy < frames[i].Energy {
			frames[i].Energy = (frames[i-1].Energy + frames[i].Energy) / 2
		}
	}
}

// fixClampedSamples decrements frame[i]'s energy and re-simulates the
// (frame[i], frame[i+1]) pair whenever the second half of frame[i] or the
// first half of frame[i+1] contains a saturated sample, until no clamping
// remains or energy reaches 0.
func fixClampedSamples(variant *lpc.Variant, frames []lpc.Frame) {
	for i := 0; i+1 < len(frames); i++ {
		for frames[i].Energy > 0 {
			sim := chip.NewFull(variant)
			out := sim.Synthesize(frames[i], nil)
			out = sim.Synthesize(frames[i+1], out)
			if !anyClamped(out[frameStep/2:frameStep+frameStep/2]) {
				break
			}
			frames[i].Energy--
		}
	}
}

func anyClamped(samples []int16) bool {
	for _, s := range samples {
		if int(s) >= saturationHigh || int(s) <= saturationLow {
			return true
		}
	}
	return false
}

// foldSilence replaces any Voiced/Unvoiced frame whose energy is 0, or
// whose energy and both neighbors' energies are <= 1, with a Silence
// frame.
func foldSilence(frames []lpc.Frame) {
	for i := range frames {
		if frames[i].Kind != lpc.Voiced && frames[i].Kind != lpc.Unvoiced {
			continue
		}
		if frames[i].Energy == 0 {
			frames[i] = lpc.NewSilence()
			continue
		}
		if frames[i].Energy > 1 {
			continue
		}
		leftOK := i == 0 || neighborEnergy(frames[i-1]) <= 1
		rightOK := i == len(frames)-1 || neighborEnergy(frames[i+1]) <= 1
		if leftOK && rightOK {
			frames[i] = lpc.NewSilence()
		}
	}
}

func neighborEnergy(f lpc.Frame) uint8 {
	if f.Kind != lpc.Voiced && f.Kind != lpc.Unvoiced {
		return 0
	}
	return f.Energy
}
