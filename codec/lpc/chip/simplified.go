/*
NAME
  simplified.go

DESCRIPTION
  simplified.go implements Simplified, the non-interpolating chip simulator
  used during initial per-frame optimization, where interpolation would
  couple neighboring frames together (spec section 4.3).

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

// Simplified synthesizes a frame by snapping every parameter to its target
// value immediately, with no cross-frame chirp-reset bookkeeping.
type Simplified struct {
	variant *lpc.Variant

	pitchPeriod int
	energy      int
	k           [10]int

	u [11]int
	x [10]int

	prevEnergy int
	lfsr       lfsr
	stopped    bool
}

// NewSimplified returns a Simplified simulator for the given variant.
func NewSimplified(v *lpc.Variant) *Simplified {
	return &Simplified{variant: v, lfsr: newLFSR()}
}

// Clone returns a fully independent copy of s.
func (s *Simplified) Clone() Synthesizer {
	c := *s
	return &c
}

// Synthesize implements Synthesizer.
func (s *Simplified) Synthesize(fr lpc.Frame, dst []int16) []int16 {
	s.loadFrame(fr)

	if s.stopped {
		for i := 0; i < SamplesPerFrame; i++ {
			dst = append(dst, 0)
		}
		return dst
	}

	chirpIndex := 0
	for sample := 0; sample < SamplesPerFrame; sample++ {
		var excitation int
		if s.pitchPeriod == 0 {
			bit := s.lfsr.step()
			for i := 0; i < 19; i++ {
				s.lfsr.step()
			}
			if bit == 1 {
				excitation = 0x40
			} else {
				excitation = -0x40
			}
		} else {
			excitation = int(s.variant.ChirpSample(chirpIndex))
			chirpIndex++
			if chirpIndex >= s.pitchPeriod {
				chirpIndex = 0
			}
		}

		s.u[10] = (truncate(s.prevEnergy, 10) * truncate(excitation<<6, 15)) >> 9
		for i := 9; i >= 0; i-- {
			s.u[i] = s.u[i+1] - matMul(s.k[i], s.x[i])
		}
		for i := 9; i >= 1; i-- {
			s.x[i] = s.x[i-1] + matMul(s.k[i-1], s.u[i-1])
		}
		s.x[0] = s.u[0]
		s.prevEnergy = s.energy

		dst = append(dst, clipAndEmit(s.u[0], FullPrecision))
	}
	return dst
}

func (s *Simplified) loadFrame(fr lpc.Frame) {
	switch fr.Kind {
	case lpc.Silence:
		s.energy = 0
	case lpc.Stop:
		s.stopped = true
		s.energy = 0
	case lpc.Repeat:
		s.energy = int(s.variant.DecodeEnergy(fr.Energy) * energyScale)
		if fr.Pitch != 0 {
			s.pitchPeriod = periodSamples(s.variant.DecodePitch(fr.Pitch))
		}
	case lpc.Unvoiced:
		s.energy = int(s.variant.DecodeEnergy(fr.Energy) * energyScale)
		s.pitchPeriod = 0
		for i := 0; i < 4; i++ {
			s.k[i] = int(s.variant.DecodeCoefficient(i, fr.K[i]) * kScale)
		}
		for i := 4; i < 10; i++ {
			s.k[i] = 0
		}
	case lpc.Voiced:
		s.energy = int(s.variant.DecodeEnergy(fr.Energy) * energyScale)
		s.pitchPeriod = periodSamples(s.variant.DecodePitch(fr.Pitch))
		for i := 0; i < 10; i++ {
			s.k[i] = int(s.variant.DecodeCoefficient(i, fr.K[i]) * kScale)
		}
	}
}
