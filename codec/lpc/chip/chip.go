/*
NAME
  chip.go

DESCRIPTION
  chip.go defines Synthesizer, the common interface implemented by Full and
  Simplified, plus the fixed-point lattice-filter arithmetic and LFSR shared
  by both (spec section 4.3). Modelled on the AudioFilter interface over
  multiple filter implementations in codec/pcm/filters.go.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package chip implements a cycle-faithful simulator of a TMS52xx-family
// LPC speech synthesizer, used both for render-to-WAV playback and as the
// optimization target inside the encoder.
package chip

import "github.com/ericlafortune/tmsav/codec/lpc"

// SamplesPerFrame is the number of 8kHz samples a single LpcFrame produces.
const SamplesPerFrame = 200

// Precision selects the output sample's bit depth and clipping range,
// matching the synthesizer's analog (8/16-bit, ±0x800) and digital
// (11/16-bit, ±0x4000) output modes.
type Precision int

const (
	// FullPrecision clamps the lattice output to ±0x4000 (15 bits) and
	// left-shifts it to fill 16 bits.
	FullPrecision Precision = iota
	// AnalogPrecision clips to ±0x800 and emits 8 significant bits.
	AnalogPrecision
	// DigitalPrecision clips to ±0x4000 and emits 11 significant bits.
	DigitalPrecision
)

// Synthesizer accepts one LpcFrame at a time and produces SamplesPerFrame
// signed 16-bit samples. Implementations retain internal state across
// frames and must be cloneable into a fully independent copy.
type Synthesizer interface {
	// Synthesize consumes f and appends SamplesPerFrame samples to dst,
	// returning the extended slice.
	Synthesize(f lpc.Frame, dst []int16) []int16
	// Clone returns an independent copy of the synthesizer's state.
	Clone() Synthesizer
}

// truncate clamps v to the symmetric range representable by the given
// number of signed bits, e.g. truncate(v, 10) clamps to [-512, 511].
func truncate(v int, bits uint) int {
	max := 1<<(bits-1) - 1
	min := -(1 << (bits - 1))
	switch {
	case v > max:
		return max
	case v < min:
		return min
	default:
		return v
	}
}

// matMul multiplies a reflection coefficient by a filter-stage signal,
// truncating each operand to the chip's fixed-point ranges before
// multiplying: a (a k coefficient) to [-512,511] (10 bits), b (a lattice
// signal) to [-16384,16383] (15 bits), and returns (a*b)>>9.
func matMul(a, b int) int {
	a = truncate(a, 10)
	b = truncate(b, 15)
	return (a * b) >> 9
}

// lfsr is the 13-bit linear-feedback shift register driving unvoiced
// excitation, with taps at bits 13, 4, 3 and 1.
type lfsr struct {
	state uint16
}

// newLFSR returns an lfsr seeded to 0x1FFF, the documented reset value
// (spec section 8's determinism invariant seeds the simulator this way).
func newLFSR() lfsr { return lfsr{state: 0x1FFF} }

// step advances the register by one bit and returns the bit shifted out,
// used to choose the unvoiced excitation sign.
func (l *lfsr) step() uint16 {
	bit := ((l.state >> 12) ^ (l.state >> 3) ^ (l.state >> 2) ^ (l.state >> 0)) & 1
	l.state = (l.state << 1) | bit
	l.state &= 0x1FFF
	return bit
}

// clipAndEmit clips the 15-bit lattice output to the range implied by p and
// returns the corresponding signed 16-bit sample.
func clipAndEmit(sample int, p Precision) int16 {
	switch p {
	case AnalogPrecision:
		sample = truncate(sample, 12) // Clamp to +-0x800.
		// Reduce to 8 significant bits, then replicate into the full word as
		// the chip's DAC does, rather than leaving low bits as hard zero.
		top := sample >> 4
		return int16(top<<8 | (top & 0xFF))
	case DigitalPrecision:
		if sample > 0x3FFF {
			sample = 0x3FFF
		}
		if sample < -0x4000 {
			sample = -0x4000
		}
		top := sample >> 4 // 15 bits down to 11.
		return int16(top<<5 | (top & 0x1F))
	default: // FullPrecision
		if sample > 0x3FFF {
			sample = 0x3FFF
		}
		if sample < -0x4000 {
			sample = -0x4000
		}
		return int16(sample << 1)
	}
}
