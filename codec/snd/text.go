/*
NAME
  text.go

DESCRIPTION
  text.go implements the SND text format: one chunk per line, rendered as
  hex bytes, with blank lines and '#'-comments ignored -- the same grammar
  conventions lpc's text format uses, so sound and speech streams can be
  eyeballed and diffed the same way.

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
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// WriteText writes frames to w in the SND text grammar, one hex-encoded
// chunk per line; an empty chunk renders as a line holding only "-" so it
// is distinguishable from a comment or blank separator.
func WriteText(w io.Writer, frames []SoundFrame) error {
	bw := bufio.NewWriter(w)
	for i, f := range frames {
		raw, err := EncodeCommands(f)
		if err != nil {
			return errors.Wrapf(err, "snd: frame %d", i)
		}
		if len(raw) == 0 {
			if _, err := fmt.Fprintln(bw, "-"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(bw, hex.EncodeToString(raw)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the SND text grammar from r, ignoring blank lines and
// lines beginning with '#'.
func ReadText(r io.Reader) ([]SoundFrame, error) {
	sc := bufio.NewScanner(r)
	var frames []SoundFrame
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "-" {
			frames = append(frames, SoundFrame{})
			continue
		}
		raw, err := hex.DecodeString(line)
		if err != nil {
			return nil, errors.Wrapf(err, "snd: line %d: invalid hex %q", lineNo, line)
		}
		f, err := DecodeCommands(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "snd: line %d", lineNo)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
