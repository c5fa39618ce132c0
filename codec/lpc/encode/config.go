/*
NAME
  config.go

DESCRIPTION
  config.go defines Encoder's configuration: chip variant, analysis
  parameters and the pipeline toggles spec section 4.5 enumerates, applied
  through the teacher's functional-options constructor pattern
  (container/mts/encoder.go's NewEncoder).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encode implements the five-pass WAV-to-LPC speech encoder.
package encode

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ericlafortune/tmsav/codec/lpc"
)

const sampleRate = 8000

// Encoder converts 8kHz mono 16-bit PCM into a sequence of lpc.Frame.
type Encoder struct {
	variant *lpc.Variant
	log     logging.Logger

	amplification   float64
	preEmphasis     float64
	minHz, maxHz    float64
	voicedThreshold float64
	windowSize      int
	oversample      int
	optWindowSize   int

	fixPitchOutliers  bool
	fixVoicedJitter   bool
	optimizeFrames    bool
	fixEnergyTransitions bool
	fixClampedSamples bool
	trimSilence       bool
	appendStop        bool
}

// NewEncoder returns an Encoder for the given chip variant, with options
// applied over sensible defaults.
func NewEncoder(variant *lpc.Variant, log logging.Logger, options ...func(*Encoder) error) (*Encoder, error) {
	e := &Encoder{
		variant:              variant,
		log:                  log,
		amplification:        1.0,
		preEmphasis:          0.9375,
		minHz:                50,
		maxHz:                400,
		voicedThreshold:      0.4,
		windowSize:           400,
		oversample:           1,
		optWindowSize:        400,
		fixPitchOutliers:     true,
		fixVoicedJitter:      true,
		optimizeFrames:       true,
		fixEnergyTransitions: true,
		fixClampedSamples:    true,
		trimSilence:          false,
		appendStop:           true,
	}
	for _, option := range options {
		if err := option(e); err != nil {
			return nil, errors.Wrap(err, "encode: applying option")
		}
	}
	if e.log == nil {
		return nil, errors.New("encode: nil logger")
	}
	e.log.Debug("encoder configured",
		"variant", variant.Name, "amplification", e.amplification, "preEmphasis", e.preEmphasis,
		"minHz", e.minHz, "maxHz", e.maxHz, "voicedThreshold", e.voicedThreshold,
		"windowSize", e.windowSize, "oversample", e.oversample)
	return e, nil
}

// WithAmplification scales every raw sample by factor before analysis.
func WithAmplification(factor float64) func(*Encoder) error {
	return func(e *Encoder) error {
		if factor <= 0 {
			return errors.New("encode: amplification must be positive")
		}
		e.amplification = factor
		return nil
	}
}

// WithPreEmphasis sets the first-order pre-emphasis coefficient.
func WithPreEmphasis(alpha float64) func(*Encoder) error {
	return func(e *Encoder) error {
		e.preEmphasis = alpha
		return nil
	}
}

// WithFrequencyRange sets the pitch search range in Hz.
func WithFrequencyRange(minHz, maxHz float64) func(*Encoder) error {
	return func(e *Encoder) error {
		if minHz <= 0 || maxHz <= minHz {
			return errors.New("encode: invalid frequency range")
		}
		e.minHz, e.maxHz = minHz, maxHz
		return nil
	}
}

// WithVoicedThreshold sets the normalized-autocorrelation threshold above
// which a frame is classified voiced.
func WithVoicedThreshold(tau float64) func(*Encoder) error {
	return func(e *Encoder) error {
		e.voicedThreshold = tau
		return nil
	}
}

// WithWindowSize sets the LPC analysis window size in samples.
func WithWindowSize(n int) func(*Encoder) error {
	return func(e *Encoder) error {
		if n <= 0 {
			return errors.New("encode: window size must be positive")
		}
		e.windowSize = n
		return nil
	}
}

// WithOversample sets the per-frame oversampling candidate count N.
func WithOversample(n int) func(*Encoder) error {
	return func(e *Encoder) error {
		if n < 1 {
			return errors.New("encode: oversample must be >= 1")
		}
		e.oversample = n
		return nil
	}
}

// WithOptimizationWindow sets the spectral-comparison window size in
// samples used by the parameter-optimization pass.
func WithOptimizationWindow(n int) func(*Encoder) error {
	return func(e *Encoder) error {
		if n <= 0 {
			return errors.New("encode: optimization window must be positive")
		}
		e.optWindowSize = n
		return nil
	}
}

// WithFixPitchOutliers toggles the sliding-window pitch-outlier fixer.
func WithFixPitchOutliers(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.fixPitchOutliers = on; return nil }
}

// WithFixVoicedJitter toggles smoothing of short voiced/unvoiced runs.
func WithFixVoicedJitter(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.fixVoicedJitter = on; return nil }
}

// WithOptimizeFrames toggles the parameter-optimization pass.
func WithOptimizeFrames(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.optimizeFrames = on; return nil }
}

// WithFixEnergyTransitions toggles the unvoiced-to-voiced energy-averaging
// post-fix.
func WithFixEnergyTransitions(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.fixEnergyTransitions = on; return nil }
}

// WithFixClampedSamples toggles the saturation-avoidance energy backoff.
func WithFixClampedSamples(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.fixClampedSamples = on; return nil }
}

// WithTrimSilence toggles trimming leading/trailing Silence frames from the
// output sequence.
func WithTrimSilence(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.trimSilence = on; return nil }
}

// WithAppendStop toggles appending a Stop frame to the output sequence.
func WithAppendStop(on bool) func(*Encoder) error {
	return func(e *Encoder) error { e.appendStop = on; return nil }
}
