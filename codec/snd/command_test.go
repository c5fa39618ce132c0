/*
NAME
  command_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package snd

import "testing"

func TestNewFrequencyClampsDivider(t *testing.T) {
	c := NewFrequency(T0, 0xFFFF)
	if c.Divider != MaxToneDivider {
		t.Errorf("Divider = %#x, want %#x", c.Divider, MaxToneDivider)
	}
}

func TestNewVolumeClampsAttenuation(t *testing.T) {
	c := NewVolume(T1, 200)
	if c.Attenuation != 15 {
		t.Errorf("Attenuation = %d, want 15", c.Attenuation)
	}
}

func TestBorrowsT2Frequency(t *testing.T) {
	cases := []struct {
		divider uint16
		want    bool
	}{
		{0x3, true},
		{0x7, true},
		{0x2, false},
		{0x1, false},
		{0x0, false},
	}
	for _, c := range cases {
		cmd := NewFrequency(N, c.divider)
		if got := cmd.BorrowsT2Frequency(); got != c.want {
			t.Errorf("BorrowsT2Frequency(divider=%#x) = %v, want %v", c.divider, got, c.want)
		}
	}
}

func TestSoundFrameValidateRejectsOverLength(t *testing.T) {
	f := make(SoundFrame, MaxFrameLength+1)
	for i := range f {
		f[i] = NewVolume(T0, 0)
	}
	if err := f.Validate(); err == nil {
		t.Fatal("expected error for over-length frame")
	}
}

func TestSoundFrameValidateAcceptsMaxLength(t *testing.T) {
	f := make(SoundFrame, MaxFrameLength)
	for i := range f {
		f[i] = NewVolume(T0, 0)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
