/*
NAME
  source.go

DESCRIPTION
  source.go implements FileSource, a pull-based sound source reading SND
  binary chunks from a file one at a time -- the concrete collaborator the
  TMS composer's sound input drives against in tests, mirroring the
  composer's general readFrame/skipFrames/close source shape (spec section
  6).

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
	"os"

	"github.com/pkg/errors"
)

// FileSource reads SND chunks from an underlying file, one ReadFrame call
// per chunk, in encounter order. It is not safe for concurrent use.
type FileSource struct {
	f  *os.File
	br *bufio.Reader
}

// OpenFileSource opens path as an SND binary stream.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "snd: opening %s", path)
	}
	return &FileSource{f: f, br: bufio.NewReader(f)}, nil
}

// ReadFrame returns the next chunk's raw PSG bytes, or nil, io.EOF once the
// stream is exhausted.
func (s *FileSource) ReadFrame() ([]byte, error) {
	n, err := s.br.ReadByte()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(s.br, raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "snd: reading chunk body")
	}
	return raw, nil
}

// SkipFrames advances past the next n chunks without returning their
// bytes, stopping early (without error) if the stream ends first.
func (s *FileSource) SkipFrames(n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.ReadFrame(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}
