/*
NAME
  writer.go

DESCRIPTION
  writer.go provides a bit writer for the TMS52xx LPC bit stream: bits are
  accumulated most-significant-bit first, then each completed byte is
  bit-reversed before being written out, so that the frame's first emitted
  bit lands in the least-significant bit of the first byte.

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

import "io"

// Writer accumulates bits MSB-first and flushes completed bytes, bit
// reversed, to an underlying io.Writer.
type Writer struct {
	w    io.Writer
	n    uint64
	bits int
}

// NewWriter returns a new Writer sinking bytes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBits appends the low n bits of v to the stream, most-significant of
// the n bits first.
func (w *Writer) WriteBits(v uint64, n int) error {
	v &= (1 << uint(n)) - 1
	w.n = (w.n << uint(n)) | v
	w.bits += n
	for w.bits >= 8 {
		w.bits -= 8
		b := byte(w.n >> uint(w.bits))
		if _, err := w.w.Write([]byte{reverse8(b)}); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any partial final byte, masking the unused low bits (which
// correspond to the as-yet-unwritten high bits of the conceptual frame) to
// zero, then bit-reverses and writes it.
func (w *Writer) Close() error {
	if w.bits == 0 {
		return nil
	}
	b := byte(w.n<<uint(8-w.bits)) & 0xFF
	w.bits = 0
	w.n = 0
	_, err := w.w.Write([]byte{reverse8(b)})
	return err
}
