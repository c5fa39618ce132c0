/*
NAME
  text.go

DESCRIPTION
  text.go implements the LPC text format (spec section 6): one frame per
  line, `#`-comments and blank lines ignored, round-tripping byte-for-byte
  with the binary form.

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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteText writes frames to w in the LPC text grammar, one line per frame.
func WriteText(w io.Writer, frames []Frame) error {
	bw := bufio.NewWriter(w)
	for _, f := range frames {
		line, err := formatLine(f)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatLine(f Frame) (string, error) {
	switch f.Kind {
	case Silence:
		return "0", nil
	case Stop:
		return "f", nil
	case Repeat:
		return fmt.Sprintf("%x %02x", f.Energy, f.Pitch), nil
	case Unvoiced:
		return fmt.Sprintf("%x %s", f.Energy, packK(f.K[:4])), nil
	case Voiced:
		return fmt.Sprintf("%x %02x %s", f.Energy, f.Pitch, packK(f.K[:10])), nil
	default:
		return "", errors.Errorf("lpc: invalid frame kind %d", f.Kind)
	}
}

// packK packs coefficient indices big-to-small into one integer, using the
// field widths in kWidths, and renders it as ceil(bits/4) hex digits: 5
// digits for Unvoiced's 18 bits and 10 for Voiced's 39, the k field widths
// of the text grammar.
func packK(k []uint8) string {
	var packed uint64
	var bits int
	for i, idx := range k {
		packed = (packed << uint(kWidths[i])) | uint64(idx)
		bits += kWidths[i]
	}
	hexDigits := (bits + 3) / 4
	return fmt.Sprintf("%0*x", hexDigits, packed)
}

func unpackK(s string, n int) ([10]uint8, error) {
	var k [10]uint8
	bits := 0
	for i := 0; i < n; i++ {
		bits += kWidths[i]
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return k, errors.Wrapf(err, "lpc: invalid k field %q", s)
	}
	pos := bits
	for i := 0; i < n; i++ {
		pos -= kWidths[i]
		k[i] = uint8((v >> uint(pos)) & ((1 << uint(kWidths[i])) - 1))
	}
	return k, nil
}

// ReadText parses the LPC text grammar from r, ignoring blank lines and
// lines beginning with '#'.
func ReadText(r io.Reader) ([]Frame, error) {
	sc := bufio.NewScanner(r)
	var frames []Frame
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "lpc: line %d", lineNo)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

func parseLine(line string) (Frame, error) {
	if line == "0" {
		return NewSilence(), nil
	}
	if line == "f" {
		return NewStop(), nil
	}
	fields := strings.Fields(line)
	switch len(fields) {
	case 2:
		energy, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return Frame{}, errors.Wrapf(err, "invalid energy field %q", fields[0])
		}
		// The grammar distinguishes Repeat's 2-hex-digit pitch field from
		// Unvoiced's 5-hex-digit k field by width.
		switch len(fields[1]) {
		case 2:
			pitch, err := strconv.ParseUint(fields[1], 16, 8)
			if err != nil {
				return Frame{}, errors.Wrapf(err, "invalid repeat pitch field %q", fields[1])
			}
			return NewRepeat(uint8(energy), uint8(pitch)), nil
		case 5:
			k, err := unpackK(fields[1], 4)
			if err != nil {
				return Frame{}, err
			}
			return Frame{Kind: Unvoiced, Energy: uint8(energy), K: k}, nil
		default:
			return Frame{}, errors.Errorf("lpc: malformed k/pitch field %q", fields[1])
		}
	case 3:
		energy, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return Frame{}, errors.Wrapf(err, "invalid energy field %q", fields[0])
		}
		pitch, err := strconv.ParseUint(fields[1], 16, 8)
		if err != nil {
			return Frame{}, errors.Wrapf(err, "invalid pitch field %q", fields[1])
		}
		k, err := unpackK(fields[2], 10)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Kind: Voiced, Energy: uint8(energy), Pitch: uint8(pitch), K: k}, nil
	default:
		return Frame{}, errors.Errorf("lpc: malformed line %q", line)
	}
}

