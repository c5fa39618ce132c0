/*
NAME
  frame.go

DESCRIPTION
  frame.go defines LpcFrame, the tagged-variant bit-level unit of the TMS52xx
  LPC speech stream, and its binary encode/decode against an lpc.bitio
  stream.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lpc implements the bit-level codec, quantization tables and
// repeat-folding wrappers for TMS52xx-family LPC speech frames.
package lpc

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ericlafortune/tmsav/codec/lpc/bitio"
)

// ErrMalformed and ErrOutOfRange are the two sentinel causes a *FormatError
// wraps; match them with errors.Is.
var (
	ErrMalformed  = stderrors.New("lpc: malformed input")
	ErrOutOfRange = stderrors.New("lpc: out-of-range parameter")
)

// FormatError reports malformed LPC stream data or an out-of-range frame
// parameter, tagged with the position it occurred at. FrameIdx is the
// frame's index in the decoded/encoded sequence, BitPos its bit offset in
// the stream; either is -1 when not known at the point the error was
// raised.
type FormatError struct {
	Kind     error
	FrameIdx int
	BitPos   int
	Err      error
}

func newFormatError(kind error, err error) *FormatError {
	return &FormatError{Kind: kind, FrameIdx: -1, BitPos: -1, Err: err}
}

func (e *FormatError) Error() string {
	switch {
	case e.FrameIdx >= 0 && e.BitPos >= 0:
		return fmt.Sprintf("%v: frame %d, bit offset %d: %v", e.Kind, e.FrameIdx, e.BitPos, e.Err)
	case e.FrameIdx >= 0:
		return fmt.Sprintf("%v: frame %d: %v", e.Kind, e.FrameIdx, e.Err)
	case e.BitPos >= 0:
		return fmt.Sprintf("%v: bit offset %d: %v", e.Kind, e.BitPos, e.Err)
	default:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
}

// Unwrap exposes the wrapped cause, e.g. for stack-trace formatting of a
// github.com/pkg/errors-built Err.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is this error's sentinel Kind, so callers can
// match with errors.Is(err, lpc.ErrMalformed) / errors.Is(err, lpc.ErrOutOfRange).
func (e *FormatError) Is(target error) bool { return target == e.Kind }

// Kind discriminates the five LpcFrame shapes.
type Kind int

const (
	Silence Kind = iota
	Stop
	Repeat
	Unvoiced
	Voiced
)

func (k Kind) String() string {
	switch k {
	case Silence:
		return "Silence"
	case Stop:
		return "Stop"
	case Repeat:
		return "Repeat"
	case Unvoiced:
		return "Unvoiced"
	case Voiced:
		return "Voiced"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// kWidths gives the bit widths of k1..k10, big to small, fixed across every
// chip variant; only the codebook values behind each index vary by variant.
var kWidths = [10]int{5, 5, 4, 4, 4, 4, 4, 3, 3, 3}

// kCount is the number of reflection coefficients carried by each kind:
// Unvoiced carries only k1..k4, Voiced carries all ten.
func (k Kind) kCount() int {
	if k == Unvoiced {
		return 4
	}
	if k == Voiced {
		return 10
	}
	return 0
}

// Frame is one LPC frame. All fields are raw, chip-variant-independent
// encoded integers: Energy is the 4-bit energy nibble (0 means Silence, 15
// means Stop in every variant; other frames never use those two values as
// their own Energy), Pitch is the 6-bit pitch index (0 is reserved for
// Unvoiced), and K holds reflection-coefficient indices, only the first
// kCount() of which are meaningful.
type Frame struct {
	Kind   Kind
	Energy uint8
	Pitch  uint8
	K      [10]uint8
}

// NewSilence returns a Silence frame.
func NewSilence() Frame { return Frame{Kind: Silence} }

// NewStop returns a Stop frame.
func NewStop() Frame { return Frame{Kind: Stop, Energy: 15} }

// NewRepeat returns a Repeat frame carrying a new energy and, if pitch != 0,
// a new pitch; the filter coefficients are implicitly those of the most
// recent non-repeat frame.
func NewRepeat(energy, pitch uint8) Frame {
	return Frame{Kind: Repeat, Energy: energy, Pitch: pitch}
}

// BitLen returns the number of bits the frame occupies in the packed stream.
func (f Frame) BitLen() int {
	switch f.Kind {
	case Silence, Stop:
		return 4
	case Repeat:
		return 11
	case Unvoiced:
		return 29
	case Voiced:
		return 50
	default:
		panic(fmt.Sprintf("lpc: invalid frame kind %d", f.Kind))
	}
}

// Clone returns a deep copy; Frame contains no reference types, so a plain
// value copy already suffices, but Clone documents the intent at call
// sites that treat frames as mutable optimizer scratch.
func (f Frame) Clone() Frame { return f }

// Equal reports whether f and g describe the same frame, comparing only the
// fields meaningful to their kind.
func (f Frame) Equal(g Frame) bool {
	if f.Kind != g.Kind {
		return false
	}
	switch f.Kind {
	case Silence, Stop:
		return true
	case Repeat:
		return f.Energy == g.Energy && f.Pitch == g.Pitch
	case Unvoiced:
		return f.Energy == g.Energy && sameCoefficients(f, g)
	case Voiced:
		return f.Energy == g.Energy && f.Pitch == g.Pitch && sameCoefficients(f, g)
	default:
		return false
	}
}

// sameCoefficients reports whether f and g, which must both be Unvoiced or
// both Voiced, carry identical reflection coefficients -- the condition
// RepeatingWriter uses to decide whether a frame can be folded into a
// Repeat.
func sameCoefficients(f, g Frame) bool {
	if f.Kind != g.Kind {
		return false
	}
	n := f.Kind.kCount()
	for i := 0; i < n; i++ {
		if f.K[i] != g.K[i] {
			return false
		}
	}
	return true
}

// WriteTo encodes f's bits, MSB first, into w.
func (f Frame) WriteTo(w *bitio.Writer) error {
	switch f.Kind {
	case Silence:
		return w.WriteBits(0, 4)
	case Stop:
		return w.WriteBits(0xF, 4)
	case Repeat:
		if err := w.WriteBits(uint64(f.Energy), 4); err != nil {
			return err
		}
		if err := w.WriteBits(1, 1); err != nil {
			return err
		}
		return w.WriteBits(uint64(f.Pitch), 6)
	case Unvoiced:
		if err := w.WriteBits(uint64(f.Energy), 4); err != nil {
			return err
		}
		if err := w.WriteBits(0, 1); err != nil {
			return err
		}
		if err := w.WriteBits(0, 6); err != nil {
			return err
		}
		return writeK(w, f.K[:4], kWidths[:4])
	case Voiced:
		if err := w.WriteBits(uint64(f.Energy), 4); err != nil {
			return err
		}
		if err := w.WriteBits(0, 1); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(f.Pitch), 6); err != nil {
			return err
		}
		return writeK(w, f.K[:10], kWidths[:10])
	default:
		return newFormatError(ErrOutOfRange, errors.Errorf("invalid frame kind %d", f.Kind))
	}
}

func writeK(w *bitio.Writer, k []uint8, widths []int) error {
	for i, width := range widths {
		if err := w.WriteBits(uint64(k[i]), width); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrame reads and classifies the next frame from r, following the state
// machine of spec section 4.1: peek the energy nibble for Stop/Silence,
// then the repeat bit, then the pitch field, consuming exactly the
// variant's bit length on a match. io.EOF is returned when no more frames
// remain; a truncated final frame is reported as io.ErrUnexpectedEOF.
func ReadFrame(r *bitio.Reader) (Frame, error) {
	energy, err := r.PeekBits(4)
	if err != nil {
		return Frame{}, err
	}
	if energy == 0 {
		r.ReadBits(4)
		return NewSilence(), nil
	}
	if energy == 0xF {
		r.ReadBits(4)
		return NewStop(), nil
	}

	header, err := r.PeekBits(11)
	if err != nil {
		return Frame{}, err
	}
	repeatBit := (header >> 6) & 1
	if repeatBit == 1 {
		r.ReadBits(11)
		return NewRepeat(uint8(energy), uint8(header&0x3F)), nil
	}

	// Not a repeat: the 6 bits following the flag are either the all-zero
	// Unvoiced marker or a nonzero Voiced pitch.
	pitchOrZero := header & 0x3F
	if pitchOrZero == 0 {
		bits, err := r.PeekBits(29)
		if err != nil {
			return Frame{}, err
		}
		r.ReadBits(29)
		f := Frame{Kind: Unvoiced, Energy: uint8(energy)}
		readK(bits, 18, f.K[:4], kWidths[:4])
		return f, nil
	}

	bits, err := r.PeekBits(50)
	if err != nil {
		return Frame{}, err
	}
	r.ReadBits(50)
	f := Frame{Kind: Voiced, Energy: uint8(energy), Pitch: uint8(pitchOrZero)}
	// bits holds all 50 bits; k begins after energy(4)+flag(1)+pitch(6)=11,
	// so the k fields are the low 39 bits.
	readK(bits, 39, f.K[:10], kWidths[:10])
	return f, nil
}

// readK extracts len(widths) fields, big to small, from the low totalBits
// bits of packed, placing them into dst.
func readK(packed uint64, totalBits int, dst []uint8, widths []int) {
	pos := totalBits
	for i, width := range widths {
		pos -= width
		dst[i] = uint8((packed >> uint(pos)) & ((1 << uint(width)) - 1))
	}
}

// Decode reads every frame from r until EOF, returning the full sequence.
// A truncated trailing frame (io.ErrUnexpectedEOF) is a fatal malformed-
// input error per spec section 7; trailing zero-padding bits after the
// last complete frame are tolerated (io.EOF at a frame boundary).
func Decode(r io.Reader) ([]Frame, error) {
	br := bitio.NewReader(r)
	var frames []Frame
	for {
		f, err := ReadFrame(br)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			bitPos := br.BytesRead()*8 - br.Remaining()
			return frames, &FormatError{Kind: ErrMalformed, FrameIdx: len(frames), BitPos: bitPos,
				Err: errors.Wrap(err, "lpc: malformed frame")}
		}
		frames = append(frames, f)
	}
}

// Encode writes every frame in frames to w, flushing any partial trailing
// byte with zero padding.
func Encode(w io.Writer, frames []Frame) error {
	bw := bitio.NewWriter(w)
	for i, f := range frames {
		if err := f.WriteTo(bw); err != nil {
			var fe *FormatError
			if stderrors.As(err, &fe) {
				fe.FrameIdx = i
				return fe
			}
			return errors.Wrapf(err, "lpc: encoding frame %d", i)
		}
	}
	return bw.Close()
}
