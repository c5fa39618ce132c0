/*
NAME
  reader.go

DESCRIPTION
  reader.go provides a bit reader for the TMS52xx LPC bit stream, where bits
  of each frame are packed LSB-first within a byte (the inverse of the usual
  MSB-first convention).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitio provides a bit-level reader and writer for the LPC frame
// stream's bit-reversed-within-byte packing: a frame's first emitted bit is
// the least-significant bit of the first byte, not the most-significant.
package bitio

import (
	"bufio"
	"io"
)

// reverse8 reverses the bit order of b.
func reverse8(b byte) byte {
	b = (b&0x55)<<1 | (b&0xAA)>>1
	b = (b&0x33)<<2 | (b&0xCC)>>2
	b = (b&0x0F)<<4 | (b&0xF0)>>4
	return b
}

type bytePeeker interface {
	io.ByteReader
	Peek(int) ([]byte, error)
}

// Reader reads bits from an underlying byte stream that has been packed
// LSB-first within each byte. Internally it accumulates bytes, bit-reversed,
// into a big-endian accumulator, the same way a conventional MSB-first bit
// reader would, so that PeekBits/ReadBits behave identically to one.
type Reader struct {
	r     bytePeeker
	n     uint64
	bits  int
	nRead int
}

// NewReader returns a new Reader sourcing bits from r.
func NewReader(r io.Reader) *Reader {
	byter, ok := r.(bytePeeker)
	if !ok {
		byter = bufio.NewReader(r)
	}
	return &Reader{r: byter}
}

// fill ensures at least n bits are available in the accumulator, reading and
// bit-reversing bytes from the source as needed. io.EOF is returned only if
// zero bits are currently buffered and the next byte read hits end of file;
// any other shortfall is reported as io.ErrUnexpectedEOF, since it means a
// frame was truncated mid-encoding.
func (r *Reader) fill(n int) error {
	for n > r.bits {
		b, err := r.r.ReadByte()
		if err != nil {
			if err == io.EOF && r.bits == 0 {
				return io.EOF
			}
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		r.nRead++
		r.n <<= 8
		r.n |= uint64(reverse8(b))
		r.bits += 8
	}
	return nil
}

// PeekBits returns the next n bits (0 <= n <= 57) without consuming them.
// See fill for the io.EOF / io.ErrUnexpectedEOF distinction.
func (r *Reader) PeekBits(n int) (uint64, error) {
	if err := r.fill(n); err != nil {
		return 0, err
	}
	return (r.n >> uint(r.bits-n)) & ((1 << uint(n)) - 1), nil
}

// ReadBits consumes and returns the next n bits. Call PeekBits first to
// classify a frame without losing the bits on a short read.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if err := r.fill(n); err != nil {
		return 0, err
	}
	v := (r.n >> uint(r.bits-n)) & ((1 << uint(n)) - 1)
	r.bits -= n
	return v, nil
}

// Remaining reports the number of unconsumed bits currently buffered.
func (r *Reader) Remaining() int { return r.bits }

// BytesRead returns the number of whole bytes consumed from the source.
func (r *Reader) BytesRead() int { return r.nRead }
