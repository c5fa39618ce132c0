/*
NAME
  analysis.go

DESCRIPTION
  analysis.go implements the first two passes of the encoder pipeline: the
  per-frame pitch and voicing estimate, and the outlier fixers that clean
  it up before LPC analysis begins (spec section 4.5, steps 1-2).

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

import "github.com/ericlafortune/tmsav/dsp"

// frameStep is the number of samples a single output frame advances,
// 25ms at 8kHz.
const frameStep = 200

// frameAnalysis holds the pitch and voicing estimate for one frame slot,
// refined across passes 1 and 2 before the LPC pass consumes it.
type frameAnalysis struct {
	pitch    int     // Estimated period in samples; 0 if no candidate found.
	normCorr float64 // Normalized autocorrelation at the estimated lag.
	voiced   bool
}

// analyzePitchAndVoicing implements pass 1: for every frame slot, estimate
// the pitch period and voicing decision from a window centered on the
// frame.
func (e *Encoder) analyzePitchAndVoicing(samples []float64) []frameAnalysis {
	nFrames := (len(samples) + frameStep - 1) / frameStep
	out := make([]frameAnalysis, nFrames)

	minLag := int(sampleRate/e.maxHz + 0.5)
	maxLag := int(sampleRate/e.minHz + 0.5)

	half := e.windowSize / 2
	for i := range out {
		center := i*frameStep + frameStep/2
		lo, hi := center-half, center+half
		if lo < 0 {
			lo = 0
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		window := samples[lo:hi]
		if len(window) <= maxLag {
			continue
		}
		lag := dsp.EstimatePitch(window, minLag, maxLag)
		r := dsp.Autocorrelation(window, lag)
		var norm float64
		if r[0] != 0 {
			norm = r[lag] / r[0]
		}
		out[i] = frameAnalysis{pitch: lag, normCorr: norm, voiced: norm >= e.voicedThreshold}
	}
	return out
}

// fixOutliers implements pass 2: a sliding-window pitch-outlier fixer and a
// voiced/unvoiced run smoother, the latter iterated until no voicing
// decision changes or 10 rounds have run.
func (e *Encoder) fixOutliers(frames []frameAnalysis) {
	windowFrames := 5 * e.oversample
	if windowFrames < 1 {
		windowFrames = 1
	}
	if e.fixPitchOutliers {
		fixPitchOutliers(frames, windowFrames)
	}
	if e.fixVoicedJitter {
		minRun := 2 * e.oversample
		for iter := 0; iter < 10; iter++ {
			if !smoothShortRuns(frames, minRun, e.voicedThreshold) {
				break
			}
		}
	}
}

// fixPitchOutliers replaces a frame's pitch with whichever of {2p, p/2, the
// local average} is closest to the local average, whenever the frame's
// pitch differs from that average by more than 25%.
func fixPitchOutliers(frames []frameAnalysis, window int) {
	half := window / 2
	for i := range frames {
		if frames[i].pitch == 0 {
			continue
		}
		lo, hi := i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi >= len(frames) {
			hi = len(frames) - 1
		}
		var sum float64
		var count int
		for j := lo; j <= hi; j++ {
			if frames[j].pitch > 0 {
				sum += float64(frames[j].pitch)
				count++
			}
		}
		if count == 0 {
			continue
		}
		avg := sum / float64(count)
		p := float64(frames[i].pitch)
		if avg == 0 || p/avg >= 0.75 && p/avg <= 1.25 {
			continue
		}
		candidates := []float64{2 * p, p / 2, avg}
		best := candidates[0]
		bestDiff := abs(best - avg)
		for _, c := range candidates[1:] {
			if d := abs(c - avg); d < bestDiff {
				best, bestDiff = c, d
			}
		}
		frames[i].pitch = int(best + 0.5)
	}
}

// smoothShortRuns averages the normalized autocorrelation across any
// voiced/unvoiced run shorter than minRun frames, re-thresholding it; it
// returns whether any frame's voicing decision changed.
func smoothShortRuns(frames []frameAnalysis, minRun int, threshold float64) bool {
	changed := false
	n := len(frames)
	for i := 0; i < n; {
		j := i
		for j < n && frames[j].voiced == frames[i].voiced {
			j++
		}
		runLen := j - i
		if runLen < minRun {
			var sum float64
			for k := i; k < j; k++ {
				sum += frames[k].normCorr
			}
			avg := sum / float64(runLen)
			for k := i; k < j; k++ {
				frames[k].normCorr = avg
				v := avg >= threshold
				if v != frames[k].voiced {
					changed = true
				}
				frames[k].voiced = v
			}
		}
		i = j
	}
	return changed
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
