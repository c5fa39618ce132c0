/*
NAME
  source_test.go

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
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeSNDFile(t *testing.T, frames []SoundFrame) string {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeSND(&buf, frames); err != nil {
		t.Fatalf("EncodeSND: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.snd")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFileSourceReadsFramesInOrder(t *testing.T) {
	frames := sampleFrames()
	path := writeSNDFile(t, frames)
	src, err := OpenFileSource(path)
	if err != nil {
		t.Fatalf("OpenFileSource: %v", err)
	}
	defer src.Close()

	for i, want := range frames {
		raw, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		got, err := DecodeCommands(raw)
		if err != nil {
			t.Fatalf("DecodeCommands %d: %v", i, err)
		}
		if len(got) != len(want) {
			t.Errorf("frame %d: got %d commands, want %d", i, len(got), len(want))
		}
	}
	if _, err := src.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame at end: got %v, want io.EOF", err)
	}
}

func TestFileSourceSkipFrames(t *testing.T) {
	frames := sampleFrames()
	path := writeSNDFile(t, frames)
	src, err := OpenFileSource(path)
	if err != nil {
		t.Fatalf("OpenFileSource: %v", err)
	}
	defer src.Close()

	if err := src.SkipFrames(2); err != nil {
		t.Fatalf("SkipFrames: %v", err)
	}
	raw, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	got, err := DecodeCommands(raw)
	if err != nil {
		t.Fatalf("DecodeCommands: %v", err)
	}
	if len(got) != len(frames[2]) {
		t.Errorf("got %d commands, want %d", len(got), len(frames[2]))
	}
}

func TestFileSourceSkipFramesPastEnd(t *testing.T) {
	path := writeSNDFile(t, sampleFrames())
	src, err := OpenFileSource(path)
	if err != nil {
		t.Fatalf("OpenFileSource: %v", err)
	}
	defer src.Close()

	if err := src.SkipFrames(100); err != nil {
		t.Fatalf("SkipFrames past end: %v", err)
	}
}
