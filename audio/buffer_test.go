/*
NAME
  buffer_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package audio

import (
	"bytes"
	"testing"
)

func TestToMonoPassthrough(t *testing.T) {
	b := Buffer{Format: Format{Rate: 8000, Channels: 1}, Data: []int16{1, 2, 3}}
	got, err := ToMono(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Data) != 3 {
		t.Fatalf("got %d samples, want 3", len(got.Data))
	}
}

func TestToMonoTakesLeftChannel(t *testing.T) {
	b := Buffer{Format: Format{Rate: 8000, Channels: 2}, Data: []int16{10, -10, 20, -20, 30, -30}}
	got, err := ToMono(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []int16{10, 20, 30}
	if len(got.Data) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got.Data), len(want))
	}
	for i := range want {
		if got.Data[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got.Data[i], want[i])
		}
	}
}

func TestResampleNoOp(t *testing.T) {
	b := Buffer{Format: Format{Rate: 8000, Channels: 1}, Data: []int16{1, 2, 3}}
	got, err := Resample(b, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Data) != 3 {
		t.Fatalf("got %d samples, want 3", len(got.Data))
	}
}

func TestResampleDownsamplesLength(t *testing.T) {
	data := make([]int16, 1600)
	for i := range data {
		data[i] = int16(i)
	}
	b := Buffer{Format: Format{Rate: 16000, Channels: 1}, Data: data}
	got, err := Resample(b, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if got.Format.Rate != 8000 {
		t.Errorf("rate = %d, want 8000", got.Format.Rate)
	}
	if len(got.Data) != 800 {
		t.Errorf("got %d samples, want 800", len(got.Data))
	}
}

func TestFloat64RoundTripClips(t *testing.T) {
	in := []float64{-2, -1, 0, 0.5, 1, 2}
	out := FromFloat64(in)
	back := ToFloat64(out)
	if back[0] < -1.01 || back[0] > -0.99 {
		t.Errorf("clipped -2 round-tripped to %v, want near -1", back[0])
	}
	if back[5] < 0.99 || back[5] > 1.01 {
		t.Errorf("clipped 2 round-tripped to %v, want near 1", back[5])
	}
}

func TestWriteReadWAVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ws := &seekBuffer{buf: &buf}
	b := Buffer{Format: Format{Rate: 8000, Channels: 1}, Data: []int16{100, -100, 200, -200}}
	if err := WriteWAV(ws, b); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	got, err := ReadWAV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if len(got.Data) != len(b.Data) {
		t.Fatalf("got %d samples, want %d", len(got.Data), len(b.Data))
	}
	for i := range b.Data {
		if got.Data[i] != b.Data[i] {
			t.Errorf("sample %d = %d, want %d", i, got.Data[i], b.Data[i])
		}
	}
}

// seekBuffer adapts a bytes.Buffer into an io.WriteSeeker, since the WAV
// encoder needs to seek back and patch its header sizes after writing.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if int(s.pos) < s.buf.Len() {
		b := s.buf.Bytes()
		n := copy(b[s.pos:], p)
		s.pos += int64(n)
		if n < len(p) {
			s.buf.Write(p[n:])
			s.pos += int64(len(p) - n)
		}
		return len(p), nil
	}
	n, err := s.buf.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(s.buf.Len()) + offset
	}
	return s.pos, nil
}
