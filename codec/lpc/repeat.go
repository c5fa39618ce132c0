/*
NAME
  repeat.go

DESCRIPTION
  repeat.go implements the repeat-folding writer and its inverse, the
  non-repeat-expanding reader (spec section 4.6).

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

// RepeatingWriter folds a sequence of frames, replacing a Voiced or
// Unvoiced frame with an identical reflection-coefficient vector to the
// most recent non-repeat frame with a Repeat carrying only its new energy
// (and, for Voiced, pitch).
type RepeatingWriter struct {
	prev    Frame
	hasPrev bool
	out     []Frame
}

// NewRepeatingWriter returns an empty RepeatingWriter.
func NewRepeatingWriter() *RepeatingWriter { return &RepeatingWriter{} }

// Write appends f, folding it into a Repeat frame if possible.
func (w *RepeatingWriter) Write(f Frame) {
	switch f.Kind {
	case Voiced, Unvoiced:
		if w.hasPrev && sameCoefficients(w.prev, f) {
			pitch := uint8(0)
			if f.Kind == Voiced {
				pitch = f.Pitch
			}
			w.out = append(w.out, NewRepeat(f.Energy, pitch))
		} else {
			w.out = append(w.out, f)
		}
		w.prev = f
		w.hasPrev = true
	default:
		// Silence/Stop/Repeat pass through unchanged and never become the
		// fold reference: a Repeat cannot itself be the previous non-repeat
		// frame, and prev is only ever updated from Voiced/Unvoiced input.
		w.out = append(w.out, f)
	}
}

// Frames returns the folded sequence written so far.
func (w *RepeatingWriter) Frames() []Frame { return w.out }

// Fold is a convenience wrapper folding an entire sequence at once.
func Fold(frames []Frame) []Frame {
	w := NewRepeatingWriter()
	for _, f := range frames {
		w.Write(f)
	}
	return w.Frames()
}

// NonRepeatingReader expands Repeat frames back into full Voiced/Unvoiced
// frames by cloning the most recent non-repeat frame and overwriting its
// energy (and, for Voiced, pitch).
type NonRepeatingReader struct {
	prev    Frame
	hasPrev bool
}

// NewNonRepeatingReader returns an empty NonRepeatingReader.
func NewNonRepeatingReader() *NonRepeatingReader { return &NonRepeatingReader{} }

// Expand returns the fully-expanded form of f: Silence/Stop/Voiced/Unvoiced
// pass through unchanged (after updating the fold reference); a Repeat is
// reconstructed from the stored reference frame.
func (r *NonRepeatingReader) Expand(f Frame) Frame {
	switch f.Kind {
	case Voiced, Unvoiced:
		r.prev = f
		r.hasPrev = true
		return f
	case Repeat:
		if !r.hasPrev {
			// Malformed input: a Repeat with no preceding Voiced/Unvoiced
			// frame to reuse. Degrade to Silence rather than reading
			// uninitialised coefficients.
			return NewSilence()
		}
		out := r.prev.Clone()
		out.Energy = f.Energy
		if out.Kind == Voiced {
			out.Pitch = f.Pitch
		}
		return out
	default:
		return f
	}
}

// Unfold is a convenience wrapper expanding an entire folded sequence.
func Unfold(frames []Frame) []Frame {
	r := NewNonRepeatingReader()
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = r.Expand(f)
	}
	return out
}
