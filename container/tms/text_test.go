/*
NAME
  text_test.go

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
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// TestWriteTextByteSwapsEachWord checks the xas99 writer against a single
// Display chunk whose header, address and payload words are chosen so their
// byte-swapped hex forms are easy to verify by eye.
func TestWriteTextByteSwapsEachWord(t *testing.T) {
	c := mustDisplay(t, 0x1234, []byte{0xAB, 0xCD})

	var buf bytes.Buffer
	if err := WriteText(&buf, []TmsChunk{c}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	header, err := c.headerWord()
	if err != nil {
		t.Fatalf("headerWord: %v", err)
	}
	want := []string{
		swappedLine(header),
		swappedLine(0x1234),
		swappedLine(0xCDAB), // payload bytes {0xAB, 0xCD} packed little-endian.
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// swappedLine mirrors writeWordText's byte swap, for the test's expected
// output: xas99 stores words big-endian, the chip reads them little-endian.
func swappedLine(word uint16) string {
	swapped := word>>8 | word<<8
	return fmt.Sprintf("text >%04X", swapped)
}

// TestWriteTextOddPayloadPadsHighByte checks a trailing odd byte is packed
// into a word with a zero high byte before the swap, per writeBytesText.
func TestWriteTextOddPayloadPadsHighByte(t *testing.T) {
	c := mustSound(t, []byte{0x42})

	var buf bytes.Buffer
	if err := WriteText(&buf, []TmsChunk{c}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	header, err := c.headerWord()
	if err != nil {
		t.Fatalf("headerWord: %v", err)
	}
	want := swappedLine(header) + "\n" + swappedLine(0x0042) + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// TestWriteTextMultipleChunks checks the per-chunk wrapping error path is
// never hit for a normal sequence, and that chunks are concatenated in
// order with no separators beyond the newline each directive carries.
func TestWriteTextMultipleChunks(t *testing.T) {
	chunks := []TmsChunk{
		mustSound(t, []byte{0x90, 0x00}),
		NewVsyncChunk(),
		NewEofChunk(),
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, chunks); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Sound header + 1 payload word, then Vsync and Eof headers alone.
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
}
