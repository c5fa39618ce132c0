/*
NAME
  variant_test.go

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

import "testing"

// TestEncodeLpcCoefficientsMatchesPerCoefficient checks that the packed
// batch encoder agrees, index by index, with encoding each reflection
// coefficient individually through EncodeCoefficient.
func TestEncodeLpcCoefficientsMatchesPerCoefficient(t *testing.T) {
	k := []float64{0.9, -0.5, 0.25, -0.1, 0.6, -0.7, 0.05, -0.2, 0.4, -0.9}

	packed, indices := TMS5220.EncodeLpcCoefficients(k)

	shift := 0
	for i := 9; i >= 0; i-- {
		want := TMS5220.EncodeCoefficient(i, k[i])
		if indices[i] != want {
			t.Errorf("indices[%d] = %d, want %d", i, indices[i], want)
		}
		got := uint8((packed >> uint(shift)) & ((1 << uint(kWidths[i])) - 1))
		if got != want {
			t.Errorf("packed field at k%d = %d, want %d", i+1, got, want)
		}
		shift += kWidths[i]
	}
}

// TestEncodeLpcCoefficientsUnvoicedLeavesUpperFieldsZero checks the
// Unvoiced case, which only encodes k1..k4: the upper fields k5..k10, which
// sit in the packed value's low bits, must stay zero, and indices[4:] must
// be untouched.
func TestEncodeLpcCoefficientsUnvoicedLeavesUpperFieldsZero(t *testing.T) {
	k := []float64{0.9, -0.5, 0.25, -0.1}

	packed, indices := TMS5220.EncodeLpcCoefficients(k)

	var upperWidth uint
	for i := 4; i < 10; i++ {
		upperWidth += uint(kWidths[i])
		if indices[i] != 0 {
			t.Errorf("indices[%d] = %d, want 0 (unvoiced leaves it unset)", i, indices[i])
		}
	}
	if mask := uint64(1)<<upperWidth - 1; packed&mask != 0 {
		t.Errorf("packed = %#x, lower %d bits (k5..k10) should be zero", packed, upperWidth)
	}
}

// TestEncodeLpcCoefficientsClampsOutOfRange checks values outside [-1,1]
// quantize the same as their clamped endpoint, mirroring nearest()'s clamp.
func TestEncodeLpcCoefficientsClampsOutOfRange(t *testing.T) {
	_, indices := TMS5220.EncodeLpcCoefficients([]float64{5.0, -5.0})
	wantHigh := TMS5220.EncodeCoefficient(0, 1.0)
	wantLow := TMS5220.EncodeCoefficient(1, -1.0)
	if indices[0] != wantHigh {
		t.Errorf("indices[0] = %d, want %d (clamped to +1)", indices[0], wantHigh)
	}
	if indices[1] != wantLow {
		t.Errorf("indices[1] = %d, want %d (clamped to -1)", indices[1], wantLow)
	}
}
