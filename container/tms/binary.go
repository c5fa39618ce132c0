/*
NAME
  binary.go

DESCRIPTION
  binary.go implements the TMS binary writer and reader: little-endian
  header words and addresses, bank accounting that never lets a chunk
  straddle a bank boundary, and the header classification of spec section
  4.8.

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
	"bufio"
	"encoding/binary"
	stderrors "errors"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Writer serializes TmsChunks to the little-endian TMS binary format,
// emitting a NextBank marker and zero-padding whenever a chunk would
// straddle the current bank's boundary (spec section 3, invariant 6).
type Writer struct {
	w        *bufio.Writer
	bankSize int
	bankUsed int
	banks    int
	log      logging.Logger
	closed   bool
}

// NewWriter returns a Writer with the given bank size, writing to w.
func NewWriter(w io.Writer, bankSize int, log logging.Logger) *Writer {
	return &Writer{w: bufio.NewWriter(w), bankSize: bankSize, log: log}
}

// WriteChunk writes c, inserting a NextBank marker and zero-padding first
// if c would not fit in the remaining bank space.
func (wr *Writer) WriteChunk(c TmsChunk) error {
	need := c.wireLen()
	// A NextBank marker itself costs 2 bytes; reserve room for it unless c
	// is itself the marker.
	reserve := 2
	if c.Kind == NextBank {
		reserve = 0
	}
	if wr.bankUsed+need+reserve > wr.bankSize && c.Kind != NextBank {
		if err := wr.nextBank(); err != nil {
			return err
		}
	}
	return wr.writeRaw(c)
}

func (wr *Writer) nextBank() error {
	wr.log.Debug("tms: emitting NextBank", "bank", wr.banks, "used", wr.bankUsed)
	if err := wr.writeRaw(NewNextBankChunk()); err != nil {
		return err
	}
	pad := wr.bankSize - wr.bankUsed
	if pad > 0 {
		if _, err := wr.w.Write(make([]byte, pad)); err != nil {
			return errors.Wrap(err, "tms: padding bank")
		}
	}
	wr.banks++
	wr.bankUsed = 0
	return nil
}

func (wr *Writer) writeRaw(c TmsChunk) error {
	header, err := c.headerWord()
	if err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[:2], header)
	n := 2
	if c.Kind == Display {
		binary.LittleEndian.PutUint16(buf[2:4], c.Addr)
		n = 4
	}
	if _, err := wr.w.Write(buf[:n]); err != nil {
		return errors.Wrap(err, "tms: writing chunk header")
	}
	if len(c.Data) > 0 {
		if _, err := wr.w.Write(c.Data); err != nil {
			return errors.Wrap(err, "tms: writing chunk payload")
		}
	}
	wr.bankUsed += c.wireLen()
	return nil
}

// WriteDisplay writes a Display chunk.
func (wr *Writer) WriteDisplay(addr uint16, data []byte) error {
	c, err := NewDisplayChunk(addr, data)
	if err != nil {
		return err
	}
	return wr.WriteChunk(c)
}

// WriteSound writes a Sound chunk.
func (wr *Writer) WriteSound(data []byte) error {
	c, err := NewSoundChunk(data)
	if err != nil {
		return err
	}
	return wr.WriteChunk(c)
}

// WriteSpeech writes a Speech chunk.
func (wr *Writer) WriteSpeech(data []byte) error {
	c, err := NewSpeechChunk(data)
	if err != nil {
		return err
	}
	return wr.WriteChunk(c)
}

// WriteVsync writes a Vsync chunk.
func (wr *Writer) WriteVsync() error {
	return wr.WriteChunk(NewVsyncChunk())
}

// Close emits the terminating Eof chunk and flushes buffered output,
// zero-padding the final bank to bankSize.
func (wr *Writer) Close() error {
	if wr.closed {
		return nil
	}
	wr.closed = true
	if err := wr.WriteChunk(NewEofChunk()); err != nil {
		return err
	}
	if wr.bankUsed > 0 {
		pad := wr.bankSize - wr.bankUsed
		if pad > 0 {
			if _, err := wr.w.Write(make([]byte, pad)); err != nil {
				return errors.Wrap(err, "tms: padding final bank")
			}
		}
	}
	return wr.w.Flush()
}

// Reader parses TmsChunks from the little-endian TMS binary format. It
// tracks the physical byte offset so it can skip a bank's zero-padding
// after a NextBank marker, the same accounting the Writer applies when
// producing it.
type Reader struct {
	r        *bufio.Reader
	bankSize int
	offset   int
}

// NewReader returns a Reader reading from r, skipping zero-padding between
// banks of bankSize bytes.
func NewReader(r io.Reader, bankSize int) *Reader {
	return &Reader{r: bufio.NewReader(r), bankSize: bankSize}
}

// ReadChunk reads the next TmsChunk, classifying its header word per spec
// section 4.8. io.EOF at a chunk boundary ends the stream cleanly; a
// truncated payload is reported as io.ErrUnexpectedEOF. Reading a NextBank
// chunk also skips the padding bytes up to the next bank boundary, so the
// following call starts at a bank-aligned header word.
func (rd *Reader) ReadChunk() (TmsChunk, error) {
	var hbuf [2]byte
	if _, err := io.ReadFull(rd.r, hbuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return TmsChunk{}, io.ErrUnexpectedEOF
		}
		return TmsChunk{}, err
	}
	rd.offset += 2
	header := binary.LittleEndian.Uint16(hbuf[:])
	kind, payloadLen, err := classifyHeader(header)
	if err != nil {
		var fe *FormatError
		if stderrors.As(err, &fe) && fe.Offset < 0 {
			fe.Offset = rd.offset - 2
		}
		return TmsChunk{}, err
	}

	c := TmsChunk{Kind: kind}
	switch kind {
	case Vsync, Eof:
		return c, nil
	case NextBank:
		return c, rd.skipPadding()
	case Display:
		var abuf [2]byte
		if _, err := io.ReadFull(rd.r, abuf[:]); err != nil {
			return TmsChunk{}, errors.Wrap(unexpectedEOF(err), "tms: reading display address")
		}
		rd.offset += 2
		c.Addr = binary.LittleEndian.Uint16(abuf[:])
	}
	if payloadLen > 0 {
		c.Data = make([]byte, payloadLen)
		if _, err := io.ReadFull(rd.r, c.Data); err != nil {
			return TmsChunk{}, errors.Wrap(unexpectedEOF(err), "tms: reading chunk payload")
		}
		rd.offset += payloadLen
	}
	return c, nil
}

// skipPadding discards the zero-padding bytes remaining in the current
// bank, bringing offset to the next bank-size-aligned position.
func (rd *Reader) skipPadding() error {
	if rd.bankSize <= 0 {
		return nil
	}
	rem := rd.bankSize - rd.offset%rd.bankSize
	if rem == rd.bankSize {
		return nil
	}
	if _, err := io.CopyN(io.Discard, rd.r, int64(rem)); err != nil {
		return errors.Wrap(unexpectedEOF(err), "tms: skipping bank padding")
	}
	rd.offset += rem
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads every chunk from r until Eof or end of stream, skipping
// zero-padding between banks of bankSize bytes.
func Decode(r io.Reader, bankSize int) ([]TmsChunk, error) {
	rd := NewReader(r, bankSize)
	var chunks []TmsChunk
	for {
		c, err := rd.ReadChunk()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, c)
		if c.Kind == Eof {
			return chunks, nil
		}
	}
}
