/*
NAME
  bitio_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitio

import (
	"bytes"
	"io"
	"testing"
)

func TestReverse8(t *testing.T) {
	cases := []struct{ in, want byte }{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0F, 0xF0},
		{0x52, 0x4A},
	}
	for _, c := range cases {
		if got := reverse8(c.in); got != c.want {
			t.Errorf("reverse8(%#x) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

// TestRoundTrip writes a sequence of odd-width fields and reads them back,
// including a run that straddles a byte boundary.
func TestRoundTrip(t *testing.T) {
	fields := []struct {
		v uint64
		n int
	}{
		{0x5, 4},
		{0x0, 1},
		{0x12, 6},
		{0x1FFFFFFFFF, 39},
		{0xF, 4},
		{0x0, 4},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	for i, f := range fields {
		got, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("field %d: ReadBits: %v", i, err)
		}
		want := f.v & ((1 << uint(f.n)) - 1)
		if got != want {
			t.Errorf("field %d: got %#x, want %#x", i, got, want)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0xB, 4)
	w.WriteBits(0x3, 2)
	w.Close()

	r := NewReader(bytes.NewReader(buf.Bytes()))
	peeked, err := r.PeekBits(4)
	if err != nil {
		t.Fatalf("PeekBits: %v", err)
	}
	if peeked != 0xB {
		t.Fatalf("PeekBits = %#x, want 0xB", peeked)
	}
	read, err := r.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if read != peeked {
		t.Fatalf("ReadBits after Peek = %#x, want %#x", read, peeked)
	}
}

func TestReadBitsEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.PeekBits(4); err != io.EOF {
		t.Fatalf("PeekBits on empty source: got %v, want io.EOF", err)
	}
}

func TestReadBitsUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0x1, 1)
	w.Close()

	r := NewReader(bytes.NewReader(buf.Bytes()))
	if _, err := r.PeekBits(50); err != io.ErrUnexpectedEOF {
		t.Fatalf("PeekBits past end: got %v, want io.ErrUnexpectedEOF", err)
	}
}

// TestTrailingZeroPadding checks that a partial final byte is masked to
// zero, not left with garbage high bits.
func TestTrailingZeroPadding(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0x1, 3) // 3 bits only; 5 bits of padding follow.
	w.Close()

	if len(buf.Bytes()) != 1 {
		t.Fatalf("expected 1 byte, got %d", len(buf.Bytes()))
	}
	r := NewReader(bytes.NewReader(buf.Bytes()))
	got, err := r.ReadBits(3)
	if err != nil || got != 0x1 {
		t.Fatalf("ReadBits(3) = %#x, %v; want 0x1, nil", got, err)
	}
	pad, err := r.ReadBits(5)
	if err != nil || pad != 0 {
		t.Fatalf("trailing padding = %#x, %v; want 0, nil", pad, err)
	}
}
