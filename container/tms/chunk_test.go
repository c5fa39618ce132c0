/*
NAME
  chunk_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tms

import (
	"errors"
	"testing"
)

func TestNewDisplayChunkRejectsOverLength(t *testing.T) {
	_, err := NewDisplayChunk(0, make([]byte, MaxDisplayLen+1))
	if err == nil {
		t.Fatal("expected error for over-length display chunk")
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewDisplayChunk error = %v, want errors.Is match against ErrOutOfRange", err)
	}
}

func TestNewSoundChunkRejectsOverLength(t *testing.T) {
	if _, err := NewSoundChunk(make([]byte, MaxSoundLen+1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewSoundChunk error = %v, want errors.Is match against ErrOutOfRange", err)
	}
}

func TestNewSpeechChunkRejectsOverLength(t *testing.T) {
	if _, err := NewSpeechChunk(make([]byte, MaxSpeechLen+1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewSpeechChunk error = %v, want errors.Is match against ErrOutOfRange", err)
	}
}

func TestHeaderWordRoundTrip(t *testing.T) {
	chunks := []TmsChunk{
		mustDisplay(t, 0x1234, []byte{1, 2, 3}),
		mustSound(t, []byte{0x90}),
		mustSpeech(t, []byte{0x00}),
		NewVsyncChunk(),
		NewNextBankChunk(),
		NewEofChunk(),
	}
	for _, c := range chunks {
		header, err := c.headerWord()
		if err != nil {
			t.Fatalf("headerWord: %v", err)
		}
		kind, payloadLen, err := classifyHeader(header)
		if err != nil {
			t.Fatalf("classifyHeader(%#04x): %v", header, err)
		}
		if kind != c.Kind {
			t.Errorf("classifyHeader(%#04x) kind = %v, want %v", header, kind, c.Kind)
		}
		if payloadLen != len(c.Data) {
			t.Errorf("classifyHeader(%#04x) payloadLen = %d, want %d", header, payloadLen, len(c.Data))
		}
	}
}

func mustDisplay(t *testing.T, addr uint16, data []byte) TmsChunk {
	t.Helper()
	c, err := NewDisplayChunk(addr, data)
	if err != nil {
		t.Fatalf("NewDisplayChunk: %v", err)
	}
	return c
}

func mustSound(t *testing.T, data []byte) TmsChunk {
	t.Helper()
	c, err := NewSoundChunk(data)
	if err != nil {
		t.Fatalf("NewSoundChunk: %v", err)
	}
	return c
}

func mustSpeech(t *testing.T, data []byte) TmsChunk {
	t.Helper()
	c, err := NewSpeechChunk(data)
	if err != nil {
		t.Fatalf("NewSpeechChunk: %v", err)
	}
	return c
}
