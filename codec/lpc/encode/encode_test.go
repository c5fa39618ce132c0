/*
NAME
  encode_test.go

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
	"bytes"
	"math"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ericlafortune/tmsav/codec/lpc"
)

func testLogger() logging.Logger {
	return logging.New(logging.Debug, &bytes.Buffer{}, true)
}

func sineSamples(n int, freq float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return x
}

func newTestEncoder(t *testing.T, options ...func(*Encoder) error) *Encoder {
	t.Helper()
	e, err := NewEncoder(lpc.TMS5220, testLogger(), options...)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	return e
}

func TestEncodeSilenceProducesSilenceFrames(t *testing.T) {
	e := newTestEncoder(t, WithOversample(1), WithOptimizeFrames(false))
	samples := make([]float64, 2000)
	frames, err := e.Encode(samples)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("Encode returned no frames")
	}
	for _, f := range frames {
		if f.Kind != lpc.Silence && f.Kind != lpc.Stop {
			t.Errorf("expected only Silence/Stop for silent input, got %v", f.Kind)
		}
	}
}

func TestEncodeVoicedToneProducesFrames(t *testing.T) {
	e := newTestEncoder(t, WithOversample(1), WithOptimizeFrames(false))
	samples := sineSamples(2000, 150)
	frames, err := e.Encode(samples)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("Encode returned no frames")
	}
	if frames[len(frames)-1].Kind != lpc.Stop {
		t.Errorf("expected trailing Stop frame, got %v", frames[len(frames)-1].Kind)
	}
}

func TestEncodeWithOversamplingDoesNotPanic(t *testing.T) {
	e := newTestEncoder(t, WithOversample(2), WithOptimizeFrames(false))
	samples := sineSamples(1000, 150)
	if _, err := e.Encode(samples); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestEncodeRejectsEmptyInput(t *testing.T) {
	e := newTestEncoder(t)
	if _, err := e.Encode(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestNewEncoderRejectsNilLogger(t *testing.T) {
	if _, err := NewEncoder(lpc.TMS5220, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestOptionValidation(t *testing.T) {
	if _, err := NewEncoder(lpc.TMS5220, testLogger(), WithOversample(0)); err == nil {
		t.Fatal("expected error for oversample 0")
	}
	if _, err := NewEncoder(lpc.TMS5220, testLogger(), WithWindowSize(-1)); err == nil {
		t.Fatal("expected error for negative window size")
	}
	if _, err := NewEncoder(lpc.TMS5220, testLogger(), WithFrequencyRange(400, 100)); err == nil {
		t.Fatal("expected error for inverted frequency range")
	}
}
