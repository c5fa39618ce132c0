/*
NAME
  full.go

DESCRIPTION
  full.go implements Full, the interpolating, chirp-aware chip simulator
  (spec section 4.3's primary contract).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package chip

import "github.com/ericlafortune/tmsav/codec/lpc"

// paramCount is the number of interpolated parameters: energy, pitch and
// ten reflection coefficients.
const paramCount = 12

// energyScale and kScale are the fixed-point ranges the chip's internal
// registers use; matMul's truncation ranges assume coefficients fit in
// [-512,511] and lattice signals in [-16384,16383].
const (
	energyScale = 511
	kScale      = 511
)

// Full is the interpolating, chirp-aware chip simulator.
type Full struct {
	variant *lpc.Variant

	cur    [paramCount]int // Current (possibly mid-interpolation) parameter values.
	target [paramCount]int // This frame's target parameter values.

	oldPitchIdx, oldEnergyIdx uint8
	inhibit                   bool

	u [11]int
	x [10]int

	prevEnergy int

	lfsr       lfsr
	chirpIndex int
	resetLatch bool

	stopped bool
}

// NewFull returns a Full simulator for the given variant, with all state
// zeroed and the LFSR seeded to its documented reset value.
func NewFull(v *lpc.Variant) *Full {
	return &Full{variant: v, lfsr: newLFSR()}
}

// Clone returns a fully independent copy of f.
func (f *Full) Clone() Synthesizer {
	c := *f
	return &c
}

// loadFrame parses f into the target parameter array and computes the
// interpolation-inhibit flag for the coming 200 samples.
func (f *Full) loadFrame(fr lpc.Frame) {
	newPitchIdx, newEnergyIdx := f.oldPitchIdx, f.oldEnergyIdx
	switch fr.Kind {
	case lpc.Silence:
		newEnergyIdx = 0
		// Pitch and k are left at their prior indices; the chip holds them
		// during silence so the next voiced frame interpolates from a
		// sensible state rather than from zero.
	case lpc.Stop:
		f.stopped = true
		newEnergyIdx = 0
	case lpc.Repeat:
		newEnergyIdx = fr.Energy
		if fr.Pitch != 0 {
			newPitchIdx = fr.Pitch
		}
		// k is left unchanged: a Repeat frame never reloads coefficients.
	case lpc.Unvoiced:
		newEnergyIdx = fr.Energy
		newPitchIdx = 0
		for i := 0; i < 4; i++ {
			f.target[2+i] = int(f.variant.DecodeCoefficient(i, fr.K[i]) * kScale)
		}
		for i := 4; i < 10; i++ {
			f.target[2+i] = 0
		}
	case lpc.Voiced:
		newEnergyIdx = fr.Energy
		newPitchIdx = fr.Pitch
		for i := 0; i < 10; i++ {
			f.target[2+i] = int(f.variant.DecodeCoefficient(i, fr.K[i]) * kScale)
		}
	}
	f.target[0] = int(f.variant.DecodeEnergy(newEnergyIdx) * energyScale)
	if newPitchIdx == 0 {
		f.target[1] = 0
	} else {
		hz := f.variant.DecodePitch(newPitchIdx)
		f.target[1] = periodSamples(hz)
	}

	oldUnvoiced := f.oldPitchIdx == 0
	newUnvoiced := newPitchIdx == 0
	newSilence := newEnergyIdx == 0
	f.inhibit = (oldUnvoiced != newUnvoiced) ||
		(newSilence && !oldUnvoiced) ||
		(oldUnvoiced && newSilence)

	f.oldPitchIdx, f.oldEnergyIdx = newPitchIdx, newEnergyIdx
}

// periodSamples converts a pitch frequency in Hz to a period in samples at
// the synthesizer's 8kHz output rate.
func periodSamples(hz float64) int {
	if hz <= 0 {
		return 0
	}
	return int(8000/hz + 0.5)
}

// Synthesize implements Synthesizer.
func (f *Full) Synthesize(fr lpc.Frame, dst []int16) []int16 {
	f.loadFrame(fr)

	if f.stopped {
		for i := 0; i < SamplesPerFrame; i++ {
			dst = append(dst, 0)
		}
		return dst
	}

	for sample := 0; sample < SamplesPerFrame; sample++ {
		ip := (sample/25 + 1) % 8
		pc := (sample % 25) / 2
		sub := (sample%25)%2 + 1

		if pc == 0 && ip == 0 {
			f.resetLatch = true
		}

		if sub == 2 && pc < paramCount {
			f.interpolate(pc, ip)
		}

		var excitation int
		if f.cur[1] == 0 { // Unvoiced: current pitch period is zero.
			bit := f.lfsr.step()
			for i := 0; i < 19; i++ {
				f.lfsr.step()
			}
			if bit == 1 {
				excitation = 0x40
			} else {
				excitation = -0x40
			}
		} else {
			excitation = int(f.variant.ChirpSample(f.chirpIndex))
			f.chirpIndex++
			if f.chirpIndex >= f.cur[1] || f.resetLatch {
				f.chirpIndex = 0
				f.resetLatch = false
			}
		}

		out := f.latticeStep(excitation)
		dst = append(dst, clipAndEmit(out, FullPrecision))
	}
	return dst
}

// interpolate advances parameter pc toward its target for interpolation
// phase ip. At ip==0, a non-inhibited parameter is left at its
// already-converged value from the previous frame; an inhibited parameter
// snaps directly to target. At ip==1..7, the reverse holds.
func (f *Full) interpolate(pc, ip int) {
	if f.inhibit {
		if ip == 0 {
			f.cur[pc] = f.target[pc]
		}
		return
	}
	if ip == 0 {
		return
	}
	shift := f.variant.InterpolationShift(ip)
	f.cur[pc] += (f.target[pc] - f.cur[pc]) >> shift
}

// latticeStep runs one sample through the 10-stage lattice synthesis
// filter and returns the raw (unclipped-to-output-width) result.
func (f *Full) latticeStep(excitation int) int {
	f.u[10] = (truncate(f.prevEnergy, 10) * truncate(excitation<<6, 15)) >> 9

	for i := 9; i >= 0; i-- {
		f.u[i] = f.u[i+1] - matMul(f.cur[2+i], f.x[i])
	}
	for i := 9; i >= 1; i-- {
		f.x[i] = f.x[i-1] + matMul(f.cur[2+i-1], f.u[i-1])
	}
	f.x[0] = f.u[0]

	f.prevEnergy = f.cur[0]
	return f.u[0]
}
