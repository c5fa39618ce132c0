/*
NAME
  variant.go

DESCRIPTION
  variant.go implements LpcQuantization: the per-chip codebooks binding
  encoded frame integers to the physical quantities (energy, pitch in Hz,
  reflection coefficients in [-1,1]) they represent, plus the encode/decode
  helpers used by the encoder and the chip simulator.

  Modelled on the small per-variant Config struct used to select between
  chip hardware quirks in the SN76489 PSG reference (LFSRBits/WhiteNoiseTaps/
  ToneZero selecting TI vs Sega behaviour from one Config type): here a
  Variant selects between TMS5220/TMS5200-family codebooks from one type.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lpc

import (
	"sort"

	"github.com/pkg/errors"
)

// Variant binds a chip variant to its five codebooks. Energy index 0 always
// decodes to Silence and index 15 to Stop; pitch index 0 is reserved for
// Unvoiced. Tables are read-only after construction and safe to share by
// reference across encoder passes and simulator instances.
type Variant struct {
	Name string

	energyTable [16]float64   // Linear energy, 0..1; index 0 and 15 unused by decode.
	pitchTable  [64]float64   // Pitch frequency in Hz; index 0 unused (Unvoiced).
	kTable      [10][]float64 // Reflection coefficients in [-1,1], ascending, one slice per k index.
	chirpTable  []int8        // Excitation waveform, repeated past its end per the chip's quirk.
	interpShift [8]uint       // Right-shift applied per interpolation phase ip.
}

// NewVariant validates and constructs a Variant. It returns a configuration
// error if any table has the wrong shape for the fixed LPC-10 bit layout.
func NewVariant(name string, energyTable [16]float64, pitchTable [64]float64, kTable [10][]float64, chirpTable []int8, interpShift [8]uint) (*Variant, error) {
	for i, width := range kWidths {
		want := 1 << uint(width)
		if len(kTable[i]) != want {
			return nil, errors.Errorf("lpc: variant %q: k%d table has %d entries, want %d", name, i+1, len(kTable[i]), want)
		}
	}
	if len(chirpTable) == 0 {
		return nil, errors.Errorf("lpc: variant %q: empty chirp table", name)
	}
	v := &Variant{
		Name:        name,
		energyTable: energyTable,
		pitchTable:  pitchTable,
		kTable:      kTable,
		chirpTable:  append([]int8(nil), chirpTable...),
		interpShift: interpShift,
	}
	return v, nil
}

// nearest returns the index of the table entry closest to x, by binary
// search over an ascending table; out-of-range values clamp to the nearest
// endpoint (the "recoverable quantization clamp" of spec section 7).
func nearest(table []float64, x float64) int {
	i := sort.SearchFloat64s(table, x)
	if i == 0 {
		return 0
	}
	if i == len(table) {
		return len(table) - 1
	}
	if x-table[i-1] <= table[i]-x {
		return i - 1
	}
	return i
}

// EncodeEnergy quantizes a linear 0..1 energy value to an encoded nibble in
// 1..14 (0 and 15 are reserved for Silence/Stop and never returned here).
func (v *Variant) EncodeEnergy(x float64) uint8 {
	idx := nearest(v.energyTable[1:15], x)
	return uint8(idx + 1)
}

// DecodeEnergy returns the linear energy for an encoded nibble in 0..15.
func (v *Variant) DecodeEnergy(e uint8) float64 { return v.energyTable[e] }

// EncodePitch quantizes a frequency in Hz to an encoded pitch index in
// 1..63; 0 is reserved for Unvoiced and never returned here.
func (v *Variant) EncodePitch(hz float64) uint8 {
	idx := nearest(v.pitchTable[1:], hz)
	return uint8(idx + 1)
}

// DecodePitch returns the frequency in Hz for an encoded pitch index.
// Index 0 (Unvoiced) decodes to 0.
func (v *Variant) DecodePitch(p uint8) float64 {
	if p == 0 {
		return 0
	}
	return v.pitchTable[p]
}

// EncodeCoefficient quantizes reflection coefficient i (0-based, i<10) in
// [-1,1] to its encoded index.
func (v *Variant) EncodeCoefficient(i int, k float64) uint8 {
	return uint8(nearest(v.kTable[i], k))
}

// DecodeCoefficient returns the reflection coefficient value for encoded
// index idx at position i.
func (v *Variant) DecodeCoefficient(i int, idx uint8) float64 {
	return v.kTable[i][idx]
}

// EncodeLpcCoefficients quantizes up to 10 reflection coefficients and
// packs them big-to-small into a single uint64, matching the frame's wire
// layout; unused lower fields (n<10, as for Unvoiced) are left zero.
func (v *Variant) EncodeLpcCoefficients(k []float64) (packed uint64, indices [10]uint8) {
	for i, x := range k {
		idx := v.EncodeCoefficient(i, x)
		indices[i] = idx
		shift := 0
		for j := i + 1; j < 10; j++ {
			shift += kWidths[j]
		}
		packed |= uint64(idx) << uint(shift)
	}
	return packed, indices
}

// ChirpSample returns the excitation sample at the given chirp index. Per
// spec section 9's open question, an index beyond the table's length
// repeats the table's last entry rather than wrapping or panicking.
func (v *Variant) ChirpSample(index int) int8 {
	if index >= len(v.chirpTable) {
		index = len(v.chirpTable) - 1
	}
	return v.chirpTable[index]
}

// ChirpLen returns the number of samples in the chirp table.
func (v *Variant) ChirpLen() int { return len(v.chirpTable) }

// InterpolationShift returns the right-shift used to interpolate a
// parameter during interpolation phase ip (0..7).
func (v *Variant) InterpolationShift(ip int) uint { return v.interpShift[ip] }
