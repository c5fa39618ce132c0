/*
NAME
  source.go

DESCRIPTION
  source.go defines the Composer's three collaborator interfaces (spec
  section 6) and SliceDisplaySource, a byte-slice-backed display source for
  tests and golden-path scenarios.

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

import "io"

// DisplaySource yields whole display-delta frames; the composer splits each
// frame into its delta₁ and delta₂ halves itself.
type DisplaySource interface {
	// ReadFrame returns the next frame's bytes, or nil, io.EOF at the end
	// of the stream.
	ReadFrame() ([]byte, error)
	SkipFrames(n int) error
	Close() error
	// Addr returns the VDP address this source's frames are written to.
	Addr() uint16
}

// SoundSource yields one SND frame's raw PSG bytes per call.
type SoundSource interface {
	ReadFrame() ([]byte, error)
	SkipFrames(n int) error
	Close() error
}

// SpeechSource yields one LPC sub-frame's raw bits per call. Unlike
// Display/Sound it has no skipFrames: the composer primes its buffer by
// reading sub-frames directly (spec section 4.7, step 1).
type SpeechSource interface {
	ReadFrame() ([]byte, error)
	Close() error
}

// SliceDisplaySource is a DisplaySource backed by an in-memory slice of
// frames, used by tests and golden-path scenarios in place of the
// out-of-scope image/delta pipeline.
type SliceDisplaySource struct {
	addr   uint16
	frames [][]byte
	pos    int
}

// NewSliceDisplaySource returns a SliceDisplaySource yielding frames in
// order, addressed at addr.
func NewSliceDisplaySource(addr uint16, frames [][]byte) *SliceDisplaySource {
	return &SliceDisplaySource{addr: addr, frames: frames}
}

// Addr returns the VDP address frames are written to.
func (s *SliceDisplaySource) Addr() uint16 { return s.addr }

// ReadFrame returns the next frame, or nil, io.EOF once exhausted.
func (s *SliceDisplaySource) ReadFrame() ([]byte, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// SkipFrames advances past the next n frames.
func (s *SliceDisplaySource) SkipFrames(n int) error {
	s.pos += n
	if s.pos > len(s.frames) {
		s.pos = len(s.frames)
	}
	return nil
}

// Close is a no-op; SliceDisplaySource owns no external resource.
func (s *SliceDisplaySource) Close() error { return nil }

// SliceSoundSource is a SoundSource backed by an in-memory slice of raw PSG
// frame bytes, used by tests in place of a file-backed snd.FileSource.
type SliceSoundSource struct {
	frames [][]byte
	pos    int
}

// NewSliceSoundSource returns a SliceSoundSource yielding frames in order.
func NewSliceSoundSource(frames [][]byte) *SliceSoundSource {
	return &SliceSoundSource{frames: frames}
}

// ReadFrame returns the next frame, or nil, io.EOF once exhausted.
func (s *SliceSoundSource) ReadFrame() ([]byte, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// SkipFrames advances past the next n frames.
func (s *SliceSoundSource) SkipFrames(n int) error {
	s.pos += n
	if s.pos > len(s.frames) {
		s.pos = len(s.frames)
	}
	return nil
}

// Close is a no-op; SliceSoundSource owns no external resource.
func (s *SliceSoundSource) Close() error { return nil }
