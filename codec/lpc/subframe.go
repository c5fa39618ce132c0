/*
NAME
  subframe.go

DESCRIPTION
  subframe.go encodes a single LpcFrame byte-aligned on its own, independent
  of the continuous LPC bit stream -- the "speech sub-frame" unit the TMS
  composer's speech source reads one at a time (spec section 4.7, step 1)
  and wraps in Speech chunks.

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
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ericlafortune/tmsav/codec/lpc/bitio"
)

// EncodeSubFrame encodes a single frame's bits into its own byte-aligned
// buffer (1..7 bytes, per frame.BitLen()'s 4..50 bit range), zero-padding
// any partial trailing byte.
func EncodeSubFrame(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	if err := f.WriteTo(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSubFrame decodes a single byte-aligned sub-frame buffer, the
// inverse of EncodeSubFrame.
func DecodeSubFrame(data []byte) (Frame, error) {
	r := bitio.NewReader(bytes.NewReader(data))
	return ReadFrame(r)
}

// FileSource reads LPC sub-frames from an underlying file, one per
// ReadFrame call, in encounter order. It implements the speech source
// shape of spec section 6 (readFrame only, no skipFrames).
type FileSource struct {
	frames []Frame
	pos    int
	f      *os.File
}

// OpenFileSource opens path as a continuous LPC binary stream (the same
// format Decode reads) and pre-decodes it into individually addressable
// sub-frames.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "lpc: opening %s", path)
	}
	frames, err := Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileSource{frames: frames, f: f}, nil
}

// ReadFrame returns the next frame's byte-aligned encoding, or nil, io.EOF
// once exhausted.
func (s *FileSource) ReadFrame() ([]byte, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return EncodeSubFrame(f)
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// SliceSource reads LPC sub-frames from an in-memory sequence, the speech
// source shape used when frames come straight out of an encoder rather than
// a decoded file.
type SliceSource struct {
	frames []Frame
	pos    int
}

// NewSliceSource returns a SliceSource over frames.
func NewSliceSource(frames []Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

// ReadFrame returns the next frame's byte-aligned encoding, or nil, io.EOF
// once exhausted.
func (s *SliceSource) ReadFrame() ([]byte, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return EncodeSubFrame(f)
}

// Close is a no-op; SliceSource owns no external resource.
func (s *SliceSource) Close() error { return nil }
