/*
NAME
  initial.go

DESCRIPTION
  initial.go implements pass 3: per-frame (optionally oversampled) LPC
  analysis producing a candidate lpc.Frame for each oversample phase (spec
  section 4.5, step 3).

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
	"math"

	"github.com/ericlafortune/tmsav/codec/lpc"
	"github.com/ericlafortune/tmsav/codec/lpc/chip"
	"github.com/ericlafortune/tmsav/dsp"
)

// candidate is one oversample-phase's initial LPC estimate for a frame
// slot.
type candidate struct {
	frame lpc.Frame
}

// initialPass implements pass 3, producing e.oversample candidates for
// every frame slot.
func (e *Encoder) initialPass(samples []float64, analysis []frameAnalysis) [][]candidate {
	out := make([][]candidate, len(analysis))
	half := e.windowSize / 2
	for i := range analysis {
		slotStart := i * frameStep
		cands := make([]candidate, e.oversample)
		for n := 0; n < e.oversample; n++ {
			offset := 0
			if e.oversample > 1 {
				offset = n * frameStep / e.oversample
			}
			center := slotStart + offset + frameStep/2
			lo, hi := center-half, center+half
			if lo < 0 {
				lo = 0
			}
			if hi > len(samples) {
				hi = len(samples)
			}
			window := append([]float64(nil), samples[lo:hi]...)
			cands[n] = candidate{frame: e.initialFrame(window, analysis[i])}
		}
		out[i] = cands
	}
	return out
}

// initialFrame estimates one candidate frame from a single analysis
// window: scale, pre-emphasize, window, autocorrelate, estimate reflection
// coefficients, then choose the encoded energy whose simulated RMS best
// matches the window's raw RMS.
func (e *Encoder) initialFrame(window []float64, a frameAnalysis) lpc.Frame {
	if len(window) == 0 {
		return lpc.NewSilence()
	}
	scaled := make([]float64, len(window))
	for i, v := range window {
		scaled[i] = v * e.amplification
	}
	emph := dsp.PreEmphasis(scaled, e.preEmphasis)
	win := dsp.Hamming(len(emph))
	for i := range emph {
		emph[i] *= win[i]
	}

	order := 4
	if a.voiced {
		order = 10
	}
	r := dsp.Autocorrelation(emph, order)
	k, err := dsp.LeRouxGueguen(r, order)
	if err != nil {
		return lpc.NewSilence()
	}

	f := lpc.Frame{}
	if a.voiced {
		f.Kind = lpc.Voiced
		hz := 0.0
		if a.pitch > 0 {
			hz = sampleRate / float64(a.pitch)
		}
		if hz < e.minHz {
			hz = e.minHz
		}
		if hz > e.maxHz {
			hz = e.maxHz
		}
		f.Pitch = e.variant.EncodePitch(hz)
		_, indices := e.variant.EncodeLpcCoefficients(clampUnitSlice(k[:10]))
		f.K = indices
	} else {
		f.Kind = lpc.Unvoiced
		_, indices := e.variant.EncodeLpcCoefficients(clampUnitSlice(k[:4]))
		copy(f.K[:4], indices[:4])
	}

	targetRMS := rms(window)
	f.Energy = e.optimizeEnergy(f, targetRMS)
	if f.Energy == 0 {
		return lpc.NewSilence()
	}
	return f
}

// optimizeEnergy tries every encoded energy 0..14 and keeps the one whose
// simulated output RMS best matches targetRMS; a result of 0 makes
// initialFrame return a Silence frame.
func (e *Encoder) optimizeEnergy(f lpc.Frame, targetRMS float64) uint8 {
	best := uint8(1)
	bestDiff := math.MaxFloat64
	for energy := uint8(0); energy <= 14; energy++ {
		trial := f
		trial.Energy = energy
		sim := chip.NewSimplified(e.variant)
		out := sim.Synthesize(trial, nil)
		diff := abs(rmsInt16(out) - targetRMS)
		if diff < bestDiff {
			bestDiff = diff
			best = energy
		}
	}
	return best
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsInt16(x []int16) float64 {
	var sum float64
	for _, v := range x {
		f := float64(v) / 32768
		sum += f * f
	}
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(len(x)))
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// clampUnitSlice clamps every reflection coefficient in k to [-1,1] before
// lpc.Variant.EncodeLpcCoefficients quantizes it; nearest() would clamp to
// the same table endpoint either way, but doing it here keeps the input
// domain explicit at the call site.
func clampUnitSlice(k []float64) []float64 {
	out := make([]float64, len(k))
	for i, x := range k {
		out[i] = clampUnit(x)
	}
	return out
}
