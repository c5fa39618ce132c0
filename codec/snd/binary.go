/*
NAME
  binary.go

DESCRIPTION
  binary.go encodes and decodes SoundCommand against the PSG's native
  latch/data byte stream (1 CC T DDDD latch bytes, optionally followed by a
  0 DDDDDD data byte for a tone generator's upper divider bits), and wraps
  that byte stream in the length-prefixed SND chunk format of spec section
  6.

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
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// MaxChunkLength is the largest number of raw PSG bytes one SND chunk may
// carry, the one-byte length prefix's ceiling.
const MaxChunkLength = 0xFF

// EncodeCommand appends c's PSG latch byte (and, for a tone Frequency
// command, its data byte) to dst and returns the extended slice.
func EncodeCommand(dst []byte, c SoundCommand) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return dst, err
	}
	cc := c.Generator.channel()
	switch c.Kind {
	case Volume:
		return append(dst, 0x80|cc<<5|0x10|uint8(c.Attenuation&0x0F)), nil
	case Frequency:
		low := uint8(c.Divider & 0x0F)
		latch := 0x80 | cc<<5 | low
		if c.Generator == N {
			return append(dst, latch), nil
		}
		high := uint8((c.Divider >> 4) & 0x3F)
		return append(dst, latch, high), nil
	default:
		return dst, errors.Errorf("snd: invalid command kind %d", c.Kind)
	}
}

// EncodeCommands encodes an entire SoundFrame to raw PSG bytes, in order.
func EncodeCommands(f SoundFrame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var out []byte
	for i, c := range f {
		var err error
		out, err = EncodeCommand(out, c)
		if err != nil {
			return nil, errors.Wrapf(err, "snd: command %d", i)
		}
	}
	return out, nil
}

// DecodeCommands parses a SoundFrame from raw PSG bytes, the inverse of
// EncodeCommands. A tone Frequency command always consumes exactly two
// bytes; a malformed stream missing the trailing data byte is reported as
// io.ErrUnexpectedEOF.
func DecodeCommands(data []byte) (SoundFrame, error) {
	var f SoundFrame
	for i := 0; i < len(data); {
		b := data[i]
		if b&0x80 == 0 {
			return nil, errors.Errorf("snd: byte %d is not a latch byte: %#02x", i, b)
		}
		g := Generator((b >> 5) & 0x3)
		isVolume := (b>>4)&1 == 1
		low := b & 0x0F
		i++
		if isVolume {
			f = append(f, NewVolume(g, low))
			continue
		}
		if g == N {
			f = append(f, NewFrequency(g, uint16(low)))
			continue
		}
		if i >= len(data) {
			return nil, errors.Wrapf(io.ErrUnexpectedEOF, "snd: truncated frequency command at byte %d", i-1)
		}
		high := data[i]
		if high&0x80 != 0 {
			return nil, errors.Errorf("snd: byte %d: expected data byte, found latch byte %#02x", i, high)
		}
		i++
		divider := uint16(low) | uint16(high&0x3F)<<4
		f = append(f, NewFrequency(g, divider))
	}
	return f, nil
}

// EncodeSND writes frames to w as a sequence of SND chunks: one length byte
// followed by that many raw PSG bytes, one chunk per frame.
func EncodeSND(w io.Writer, frames []SoundFrame) error {
	bw := bufio.NewWriter(w)
	for i, f := range frames {
		raw, err := EncodeCommands(f)
		if err != nil {
			return errors.Wrapf(err, "snd: frame %d", i)
		}
		if len(raw) > MaxChunkLength {
			return errors.Errorf("snd: frame %d encodes to %d bytes, maximum is %d", i, len(raw), MaxChunkLength)
		}
		if err := bw.WriteByte(byte(len(raw))); err != nil {
			return err
		}
		if _, err := bw.Write(raw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeSND reads every SND chunk from r until EOF, decoding each into a
// SoundFrame. A length byte with no following body is a malformed stream
// (io.ErrUnexpectedEOF); EOF exactly at a chunk boundary ends the sequence
// cleanly.
func DecodeSND(r io.Reader) ([]SoundFrame, error) {
	br := bufio.NewReader(r)
	var frames []SoundFrame
	for {
		n, err := br.ReadByte()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(br, raw); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return frames, errors.Wrapf(err, "snd: chunk %d", len(frames))
		}
		f, err := DecodeCommands(raw)
		if err != nil {
			return frames, errors.Wrapf(err, "snd: chunk %d", len(frames))
		}
		frames = append(frames, f)
	}
}
