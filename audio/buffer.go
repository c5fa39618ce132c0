/*
NAME
  buffer.go

DESCRIPTION
  buffer.go provides the PCM buffer representation and the resampling and
  channel-mixdown helpers the WAV-to-LPC encoder uses to get raw audio into
  the 8kHz mono form the chip simulator and analysis passes expect.

  Adapted from codec/pcm/pcm.go, trimmed to the single sample format this
  pipeline ever produces (16-bit signed little-endian) and generalized
  Resample to upsample as well as downsample, since the encoder's input WAV
  files are not guaranteed to already be a multiple of 8kHz.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package audio provides PCM buffer manipulation and WAV file I/O for the
// speech encoder and the chip simulator's render-to-WAV output.
package audio

import "github.com/pkg/errors"

// Format describes a mono or stereo PCM buffer's sample rate and channel
// count; samples are always 16-bit signed once inside a Buffer.
type Format struct {
	Rate     uint
	Channels uint
}

// Buffer is a channel-interleaved slice of 16-bit signed PCM samples at a
// given Format.
type Buffer struct {
	Format Format
	Data   []int16
}

// ToMono returns the left channel of a stereo Buffer, or b unchanged if it
// is already mono.
func ToMono(b Buffer) (Buffer, error) {
	if b.Format.Channels == 1 {
		return b, nil
	}
	if b.Format.Channels != 2 {
		return Buffer{}, errors.Errorf("audio: unsupported channel count %d", b.Format.Channels)
	}
	mono := make([]int16, len(b.Data)/2)
	for i := range mono {
		mono[i] = b.Data[2*i]
	}
	return Buffer{Format: Format{Rate: b.Format.Rate, Channels: 1}, Data: mono}, nil
}

// Resample linearly interpolates b's mono data to the target rate. It
// requires b to already be mono: mix down with ToMono first.
func Resample(b Buffer, rate uint) (Buffer, error) {
	if b.Format.Channels != 1 {
		return Buffer{}, errors.New("audio: Resample requires a mono buffer")
	}
	if b.Format.Rate == rate || len(b.Data) == 0 {
		return Buffer{Format: Format{Rate: rate, Channels: 1}, Data: b.Data}, nil
	}
	ratio := float64(b.Format.Rate) / float64(rate)
	outLen := int(float64(len(b.Data)) / ratio)
	out := make([]int16, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		if i0 >= len(b.Data)-1 {
			out[i] = b.Data[len(b.Data)-1]
			continue
		}
		frac := srcPos - float64(i0)
		v0, v1 := float64(b.Data[i0]), float64(b.Data[i0+1])
		out[i] = int16(v0 + frac*(v1-v0))
	}
	return Buffer{Format: Format{Rate: rate, Channels: 1}, Data: out}, nil
}

// ToFloat64 converts 16-bit signed samples to float64 in [-1,1].
func ToFloat64(data []int16) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / 32768
	}
	return out
}

// FromFloat64 converts float64 samples in [-1,1] back to 16-bit signed,
// clipping out-of-range values rather than wrapping.
func FromFloat64(data []float64) []int16 {
	out := make([]int16, len(data))
	for i, v := range data {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * 32767)
	}
	return out
}
