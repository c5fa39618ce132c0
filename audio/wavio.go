/*
NAME
  wavio.go

DESCRIPTION
  wavio.go reads and writes WAV files, using the same go-audio/wav +
  go-audio/audio dependency pair the teacher uses for WAV encoding in
  exp/flac/decode.go.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package audio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const wavFormat = 1 // PCM.

// ReadWAV decodes a WAV file from r into a Buffer.
func ReadWAV(r io.Reader) (Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, errors.New("audio: not a valid WAV file")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, errors.Wrap(err, "audio: decoding WAV")
	}
	data := make([]int16, len(pcm.Data))
	for i, v := range pcm.Data {
		data[i] = int16(v)
	}
	return Buffer{
		Format: Format{Rate: uint(pcm.Format.SampleRate), Channels: uint(pcm.Format.NumChannels)},
		Data:   data,
	}, nil
}

// WriteWAV encodes b as a 16-bit PCM WAV file to w.
func WriteWAV(w io.WriteSeeker, b Buffer) error {
	enc := wav.NewEncoder(w, int(b.Format.Rate), 16, int(b.Format.Channels), wavFormat)
	data := make([]int, len(b.Data))
	for i, v := range b.Data {
		data[i] = int(v)
	}
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: int(b.Format.Channels), SampleRate: int(b.Format.Rate)},
		SourceBitDepth: 16,
		Data:           data,
	}
	if err := enc.Write(intBuf); err != nil {
		return errors.Wrap(err, "audio: encoding WAV")
	}
	return enc.Close()
}
