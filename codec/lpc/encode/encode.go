/*
NAME
  encode.go

DESCRIPTION
  encode.go ties the five analysis passes together into Encoder.Encode,
  the WAV-to-LPC entry point (spec section 4.5).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encode

import (
	"github.com/pkg/errors"

	"github.com/ericlafortune/tmsav/audio"
	"github.com/ericlafortune/tmsav/codec/lpc"
)

// Encode converts 8kHz-or-resampled mono 16-bit PCM samples (in [-1,1])
// into a repeat-folded sequence of lpc.Frame, running the full five-pass
// pipeline described by the Encoder's configuration.
func (e *Encoder) Encode(samples []float64) ([]lpc.Frame, error) {
	if len(samples) == 0 {
		return nil, errors.New("encode: no samples")
	}

	e.log.Debug("pass 1: pitch and voicing", "samples", len(samples))
	analysis := e.analyzePitchAndVoicing(samples)

	e.log.Debug("pass 2: outlier fixers")
	e.fixOutliers(analysis)

	e.log.Debug("pass 3: initial LPC pass", "frames", len(analysis))
	candidates := e.initialPass(samples, analysis)

	e.log.Debug("pass 4: parameter optimization")
	e.optimizePass(samples, candidates)

	e.log.Debug("pass 5: oversampling selection and post-fixes")
	frames := e.selectPass(samples, candidates)
	e.postFixes(frames)

	if e.trimSilence {
		frames = trimSilence(frames)
	}
	if e.appendStop {
		frames = append(frames, lpc.NewStop())
	}

	folded := lpc.Fold(frames)
	e.log.Debug("encode complete", "frames", len(folded))
	return folded, nil
}

// EncodeWAV takes a decoded WAV buffer, reduces it to mono (keeping the left
// channel of a stereo buffer) and resamples it to 8kHz, then runs Encode
// over the result.
func (e *Encoder) EncodeWAV(wav audio.Buffer) ([]lpc.Frame, error) {
	mono, err := audio.ToMono(wav)
	if err != nil {
		return nil, errors.Wrap(err, "encode: mixing to mono")
	}
	resampled, err := audio.Resample(mono, sampleRate)
	if err != nil {
		return nil, errors.Wrap(err, "encode: resampling")
	}
	return e.Encode(audio.ToFloat64(resampled.Data))
}

// trimSilence drops leading and trailing Silence frames.
func trimSilence(frames []lpc.Frame) []lpc.Frame {
	start := 0
	for start < len(frames) && frames[start].Kind == lpc.Silence {
		start++
	}
	end := len(frames)
	for end > start && frames[end-1].Kind == lpc.Silence {
		end--
	}
	return frames[start:end]
}
