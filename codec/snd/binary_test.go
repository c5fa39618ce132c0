/*
NAME
  binary_test.go

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

import (
	"bytes"
	"testing"
)

func sampleFrames() []SoundFrame {
	return []SoundFrame{
		{NewFrequency(T0, 0x123), NewVolume(T0, 0)},
		{NewFrequency(N, 0x5), NewVolume(N, 15)},
		{},
		{NewFrequency(T1, 0x3FF), NewFrequency(T2, 0), NewVolume(T1, 7), NewVolume(T2, 3)},
	}
}

func TestEncodeDecodeCommandsRoundTrip(t *testing.T) {
	for _, f := range sampleFrames() {
		raw, err := EncodeCommands(f)
		if err != nil {
			t.Fatalf("EncodeCommands: %v", err)
		}
		got, err := DecodeCommands(raw)
		if err != nil {
			t.Fatalf("DecodeCommands: %v", err)
		}
		if len(got) != len(f) {
			t.Fatalf("got %d commands, want %d", len(got), len(f))
		}
		for i := range f {
			if got[i] != f[i] {
				t.Errorf("command %d: got %+v, want %+v", i, got[i], f[i])
			}
		}
	}
}

func TestEncodeDecodeSNDRoundTrip(t *testing.T) {
	frames := sampleFrames()
	var buf bytes.Buffer
	if err := EncodeSND(&buf, frames); err != nil {
		t.Fatalf("EncodeSND: %v", err)
	}
	got, err := DecodeSND(&buf)
	if err != nil {
		t.Fatalf("DecodeSND: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("got %d frames, want %d", len(got), len(frames))
	}
	for i := range frames {
		if len(got[i]) != len(frames[i]) {
			t.Errorf("frame %d: got %d commands, want %d", i, len(got[i]), len(frames[i]))
		}
	}
}

func TestDecodeSNDTruncatedChunkBody(t *testing.T) {
	buf := bytes.NewReader([]byte{0x05, 0x80, 0x00})
	if _, err := DecodeSND(buf); err == nil {
		t.Fatal("expected an error for a truncated chunk body")
	}
}

func TestDecodeCommandsRejectsNonLatchByte(t *testing.T) {
	if _, err := DecodeCommands([]byte{0x00}); err == nil {
		t.Fatal("expected error for non-latch leading byte")
	}
}

func TestDecodeCommandsTruncatedFrequencyData(t *testing.T) {
	if _, err := DecodeCommands([]byte{0x80}); err == nil {
		t.Fatal("expected error for missing tone data byte")
	}
}
