/*
NAME
  composer.go

DESCRIPTION
  composer.go implements Composer, the timeline main loop of spec section
  4.7: it opens scheduled display/sound/speech sources as the vsync counter
  reaches their start frame, paces display deltas at half the vsync rate,
  primes and feeds the speech synthesizer's buffer, and drives a Sink with
  bank-aware chunk output.

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
	"io"
	"sort"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// fLpc is the speech synthesizer's fixed feed frequency: slightly above
// 40Hz so the composer is biased to feed fast, since the synthesizer stalls
// cleanly on overflow but goes silent on underflow.
const fLpc = 40.01

// speakExternal is the synthesizer's command byte that primes its speech
// buffer from externally supplied bytes.
const speakExternal = 0x60

// maxPrimerFrames is the largest number of sub-frames concatenated into one
// primer buffer when a speech source is opened.
const maxPrimerFrames = 10

// Sink receives the chunks a Composer emits, owning bank accounting.
type Sink interface {
	WriteDisplay(addr uint16, data []byte) error
	WriteSound(data []byte) error
	WriteSpeech(data []byte) error
	WriteVsync() error
	Close() error
}

type pacerState int

const (
	expectingDelta1 pacerState = iota
	expectingDelta2
)

type displayEntry struct {
	startFrame int
	open       func() (DisplaySource, error)
}

type soundEntry struct {
	startFrame int
	open       func() (SoundSource, error)
}

type speechEntry struct {
	startFrame int
	open       func() (SpeechSource, error)
}

// Composer muxes scheduled display, sound and speech sources onto a single
// TMS chunk timeline.
type Composer struct {
	log logging.Logger
	fv  float64

	displayEntries   []displayEntry
	soundEntries     []soundEntry
	speechEntries    []speechEntry
	dIdx, sIdx, lIdx int

	vsync int
	d     DisplaySource
	s     SoundSource
	l     SpeechSource

	pacer         pacerState
	pendingDelta2 []byte

	pendingSpeechFrame  []byte
	speechStartVsync    int
	speechSuppressCount int
}

// NewComposer returns a Composer targeting video frequency fv (Hz).
func NewComposer(fv float64, log logging.Logger) *Composer {
	return &Composer{fv: fv, log: log, pacer: expectingDelta1}
}

// AddDisplay schedules a display source to open once vsync reaches
// startFrame.
func (c *Composer) AddDisplay(startFrame int, open func() (DisplaySource, error)) {
	c.displayEntries = append(c.displayEntries, displayEntry{startFrame, open})
}

// AddSound schedules a sound source to open once vsync reaches startFrame.
func (c *Composer) AddSound(startFrame int, open func() (SoundSource, error)) {
	c.soundEntries = append(c.soundEntries, soundEntry{startFrame, open})
}

// AddSpeech schedules a speech source to open once vsync reaches
// startFrame.
func (c *Composer) AddSpeech(startFrame int, open func() (SpeechSource, error)) {
	c.speechEntries = append(c.speechEntries, speechEntry{startFrame, open})
}

// Run drives the timeline main loop until every scheduled source has been
// opened and closed and the display pacer is idle, writing chunks to sink
// and finally closing it.
func (c *Composer) Run(sink Sink) error {
	sort.SliceStable(c.displayEntries, func(i, j int) bool { return c.displayEntries[i].startFrame < c.displayEntries[j].startFrame })
	sort.SliceStable(c.soundEntries, func(i, j int) bool { return c.soundEntries[i].startFrame < c.soundEntries[j].startFrame })
	sort.SliceStable(c.speechEntries, func(i, j int) bool { return c.speechEntries[i].startFrame < c.speechEntries[j].startFrame })

	for {
		if err := c.openDue(sink); err != nil {
			return err
		}
		if c.done() {
			break
		}
		if err := c.stepDisplay(sink); err != nil {
			return err
		}
		if err := sink.WriteVsync(); err != nil {
			return errors.Wrap(err, "tms: writing vsync")
		}
		c.vsync++
		if err := c.stepSound(sink); err != nil {
			return err
		}
		if err := c.stepSpeech(sink); err != nil {
			return err
		}
	}
	c.log.Debug("tms: composer run complete", "vsync", c.vsync)
	return sink.Close()
}

func (c *Composer) done() bool {
	return c.d == nil && c.s == nil && c.l == nil &&
		c.dIdx >= len(c.displayEntries) && c.sIdx >= len(c.soundEntries) && c.lIdx >= len(c.speechEntries) &&
		c.pacer == expectingDelta1
}

// openDue opens every scheduled source whose startFrame has been reached,
// closing any existing stream of the same kind first.
func (c *Composer) openDue(sink Sink) error {
	for c.dIdx < len(c.displayEntries) && c.displayEntries[c.dIdx].startFrame <= c.vsync {
		e := c.displayEntries[c.dIdx]
		c.dIdx++
		if c.d != nil {
			c.d.Close()
		}
		src, err := e.open()
		if err != nil {
			return errors.Wrap(err, "tms: opening display source")
		}
		if skip := c.vsync - e.startFrame; skip > 0 {
			if err := src.SkipFrames(skip); err != nil {
				return errors.Wrap(err, "tms: skipping display frames")
			}
		}
		c.d = src
		c.log.Debug("tms: opened display source", "vsync", c.vsync, "addr", src.Addr())
	}
	for c.sIdx < len(c.soundEntries) && c.soundEntries[c.sIdx].startFrame <= c.vsync {
		e := c.soundEntries[c.sIdx]
		c.sIdx++
		if c.s != nil {
			c.s.Close()
		}
		src, err := e.open()
		if err != nil {
			return errors.Wrap(err, "tms: opening sound source")
		}
		if skip := c.vsync - e.startFrame; skip > 0 {
			if err := src.SkipFrames(skip); err != nil {
				return errors.Wrap(err, "tms: skipping sound frames")
			}
		}
		c.s = src
		c.log.Debug("tms: opened sound source", "vsync", c.vsync)
	}
	for c.lIdx < len(c.speechEntries) && c.speechEntries[c.lIdx].startFrame <= c.vsync {
		e := c.speechEntries[c.lIdx]
		c.lIdx++
		if c.l != nil {
			c.l.Close()
		}
		src, err := e.open()
		if err != nil {
			return errors.Wrap(err, "tms: opening speech source")
		}
		c.l = src
		c.pendingSpeechFrame = nil
		if err := c.primeSpeech(sink); err != nil {
			return err
		}
		c.log.Debug("tms: opened speech source", "vsync", c.vsync, "speechStartVsync", c.speechStartVsync, "suppress", c.speechSuppressCount)
	}
	return nil
}

// primeSpeech reads up to maxPrimerFrames sub-frames from the freshly
// opened speech source, concatenates them behind a SPEAK_EXTERNAL command
// byte bounded to MaxSpeechLen, and emits the result as one Speech chunk
// immediately, per spec section 4.7 step 1.
func (c *Composer) primeSpeech(sink Sink) error {
	buf := []byte{speakExternal}
	count := 0
	for count < maxPrimerFrames {
		sub, err := c.nextSpeechSubFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(buf)+len(sub) > MaxSpeechLen {
			c.pendingSpeechFrame = sub
			break
		}
		buf = append(buf, sub...)
		count++
	}
	c.speechStartVsync = c.vsync
	c.speechSuppressCount = -2 + count
	if len(buf) > 1 {
		if err := sink.WriteSpeech(buf); err != nil {
			return errors.Wrap(err, "tms: writing speech primer")
		}
	}
	return nil
}

// nextSpeechSubFrame returns the next sub-frame, preferring one buffered by
// an earlier call that couldn't fit its destination chunk.
func (c *Composer) nextSpeechSubFrame() ([]byte, error) {
	if c.pendingSpeechFrame != nil {
		sub := c.pendingSpeechFrame
		c.pendingSpeechFrame = nil
		return sub, nil
	}
	if c.l == nil {
		return nil, io.EOF
	}
	sub, err := c.l.ReadFrame()
	if err == io.EOF {
		c.l.Close()
		c.l = nil
		return nil, io.EOF
	}
	return sub, err
}

// stepDisplay advances the display pacer by one tick: on an
// expectingDelta1 tick it reads a fresh frame and splits it into two
// halves, writing the first immediately and buffering the second; on an
// expectingDelta2 tick it writes the buffered second half.
func (c *Composer) stepDisplay(sink Sink) error {
	if c.pacer == expectingDelta2 {
		if err := sink.WriteDisplay(c.dAddr(), c.pendingDelta2); err != nil {
			return errors.Wrap(err, "tms: writing delta2")
		}
		c.pendingDelta2 = nil
		c.pacer = expectingDelta1
		return nil
	}
	if c.d == nil {
		return nil
	}
	frame, err := c.d.ReadFrame()
	if err == io.EOF {
		c.d.Close()
		c.d = nil
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "tms: reading display frame")
	}
	first, second := splitHalves(frame)
	if err := sink.WriteDisplay(c.dAddr(), first); err != nil {
		return errors.Wrap(err, "tms: writing delta1")
	}
	c.pendingDelta2 = second
	c.pacer = expectingDelta2
	return nil
}

func (c *Composer) dAddr() uint16 {
	if c.d == nil {
		return 0
	}
	return c.d.Addr()
}

// splitHalves divides frame into two halves, the first taking the extra
// byte when frame has odd length.
func splitHalves(frame []byte) (first, second []byte) {
	n := (len(frame) + 1) / 2
	return frame[:n], frame[n:]
}

func (c *Composer) stepSound(sink Sink) error {
	if c.s == nil {
		return nil
	}
	raw, err := c.s.ReadFrame()
	if err == io.EOF {
		c.s.Close()
		c.s = nil
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "tms: reading sound frame")
	}
	return errors.Wrap(sink.WriteSound(raw), "tms: writing sound chunk")
}

func (c *Composer) stepSpeech(sink Sink) error {
	if !c.speechSlotDue() {
		return nil
	}
	if c.speechSuppressCount > 0 {
		c.speechSuppressCount--
		return nil
	}
	sub, err := c.nextSpeechSubFrame()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return errors.Wrap(sink.WriteSpeech(sub), "tms: writing speech chunk")
}

// speechSlotDue reports whether a speech feed slot falls on the current
// vsync, per spec section 4.7's rate-conversion formula comparing the
// floor of elapsed LPC frames before and after this tick.
func (c *Composer) speechSlotDue() bool {
	v := float64(c.vsync)
	start := float64(c.speechStartVsync)
	before := int((v + 1 - start) / c.fv * fLpc)
	after := int((v + 2 - start) / c.fv * fLpc)
	return before != after
}
