/*
NAME
  text.go

DESCRIPTION
  text.go implements the TMS xas99-compatible text writer: the same binary
  chunk stream rendered as `text >XXXX` directives with every 16-bit word
  byte-swapped before hex printing, since xas99 stores words big-endian but
  the chip reads them little-endian (spec section 4.8).

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
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WriteText renders chunks as xas99 `text` directives, one word per
// directive, swapping each word's bytes before hex-printing it.
func WriteText(w io.Writer, chunks []TmsChunk) error {
	bw := bufio.NewWriter(w)
	for i, c := range chunks {
		if err := writeChunkText(bw, c); err != nil {
			return errors.Wrapf(err, "tms: chunk %d", i)
		}
	}
	return bw.Flush()
}

func writeChunkText(bw *bufio.Writer, c TmsChunk) error {
	header, err := c.headerWord()
	if err != nil {
		return err
	}
	if err := writeWordText(bw, header); err != nil {
		return err
	}
	if c.Kind == Display {
		if err := writeWordText(bw, c.Addr); err != nil {
			return err
		}
	}
	return writeBytesText(bw, c.Data)
}

// writeWordText prints one byte-swapped 16-bit word as a `text >XXXX`
// directive.
func writeWordText(bw *bufio.Writer, word uint16) error {
	swapped := word>>8 | word<<8
	_, err := fmt.Fprintf(bw, "text >%04X\n", swapped)
	return err
}

// writeBytesText prints a chunk's payload as successive byte-swapped
// words, padding an odd trailing byte with a zero high byte (xas99 words
// are always 16 bits).
func writeBytesText(bw *bufio.Writer, data []byte) error {
	for i := 0; i < len(data); i += 2 {
		var word uint16
		if i+1 < len(data) {
			word = uint16(data[i]) | uint16(data[i+1])<<8
		} else {
			word = uint16(data[i])
		}
		if err := writeWordText(bw, word); err != nil {
			return err
		}
	}
	return nil
}
