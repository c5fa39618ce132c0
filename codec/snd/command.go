/*
NAME
  command.go

DESCRIPTION
  command.go defines SoundCommand and SoundFrame, the tagged-variant unit of
  the PSG sound stream, and their encoding into the latch/data byte format
  of an SN76489-family programmable sound generator.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package snd implements SoundCommand/SoundFrame, the PSG command model,
// and their binary and text encodings (spec section 6's SND format).
package snd

import (
	"fmt"

	"github.com/pkg/errors"
)

// Generator identifies one of the PSG's four channels: three square-wave
// tone generators and one noise generator, named after the SN76489-family
// reference's channel layout (three tone + one noise).
type Generator int

const (
	T0 Generator = iota
	T1
	T2
	N
)

func (g Generator) String() string {
	switch g {
	case T0:
		return "T0"
	case T1:
		return "T1"
	case T2:
		return "T2"
	case N:
		return "N"
	default:
		return fmt.Sprintf("Generator(%d)", int(g))
	}
}

// channel returns the 2-bit CC channel select field the chip's latch byte
// encodes for g (0-2 tone, 3 noise).
func (g Generator) channel() uint8 { return uint8(g) }

// MaxToneDivider is the largest 10-bit frequency divider a tone generator
// accepts.
const MaxToneDivider = 0x3FF

// MaxNoiseDivider is the largest divider value accepted for the noise
// generator; only its low 3 bits (shift rate and feedback mode) reach the
// chip, but the command carries the same divider domain as the tone
// generators so a Frequency command is uniform across all four generators.
const MaxNoiseDivider = 0x3FF

// noiseFreqBorrowMask is the low-bits pattern of a noise divider that
// couples the noise generator's frequency to T2, per spec section 3: "both
// set" means the low 2 bits are 1.
const noiseFreqBorrowMask = 0x3

// BorrowsT2Frequency reports whether a Frequency command's divider, issued
// to generator N, couples the noise generator's frequency to T2 -- the
// named tuning conflict spec section 3 calls out as out of scope for
// synthesis here; SoundCommand only needs to represent and round-trip the
// condition, not resolve it.
func (c SoundCommand) BorrowsT2Frequency() bool {
	return c.Kind == Frequency && c.Generator == N && c.Divider&noiseFreqBorrowMask == noiseFreqBorrowMask
}

// Kind discriminates the two SoundCommand shapes.
type Kind int

const (
	// Frequency sets a generator's tone or noise divider.
	Frequency Kind = iota
	// Volume sets a generator's attenuation, 0 (loudest) to 15 (silent).
	Volume
)

func (k Kind) String() string {
	switch k {
	case Frequency:
		return "Frequency"
	case Volume:
		return "Volume"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SoundCommand is one PSG register write: either a Frequency command
// (Generator, Divider) or a Volume command (Generator, Attenuation).
type SoundCommand struct {
	Kind        Kind
	Generator   Generator
	Divider     uint16
	Attenuation uint8
}

// NewFrequency returns a Frequency command. divider is clamped to the
// generator's valid range.
func NewFrequency(g Generator, divider uint16) SoundCommand {
	max := uint16(MaxToneDivider)
	if divider > max {
		divider = max
	}
	return SoundCommand{Kind: Frequency, Generator: g, Divider: divider}
}

// NewVolume returns a Volume command. attenuation is clamped to 0..15; 15
// means silent.
func NewVolume(g Generator, attenuation uint8) SoundCommand {
	if attenuation > 15 {
		attenuation = 15
	}
	return SoundCommand{Kind: Volume, Generator: g, Attenuation: attenuation}
}

// Validate reports whether c's fields are within the domains spec section 3
// defines for its kind.
func (c SoundCommand) Validate() error {
	if c.Generator < T0 || c.Generator > N {
		return errors.Errorf("snd: invalid generator %d", c.Generator)
	}
	switch c.Kind {
	case Frequency:
		if c.Divider > MaxToneDivider {
			return errors.Errorf("snd: divider %d exceeds maximum %d", c.Divider, MaxToneDivider)
		}
		return nil
	case Volume:
		if c.Attenuation > 15 {
			return errors.Errorf("snd: attenuation %d exceeds maximum 15", c.Attenuation)
		}
		return nil
	default:
		return errors.Errorf("snd: invalid command kind %d", c.Kind)
	}
}

// MaxFrameLength is the largest number of commands a SoundFrame may hold.
// It counts commands, not bytes; the SND chunk's one-byte length prefix
// separately caps the encoded bytes at MaxChunkLength.
const MaxFrameLength = 31

// SoundFrame is an ordered sequence of SoundCommand, one PSG update per
// output frame at the target field rate.
type SoundFrame []SoundCommand

// Validate reports whether f is within the length bound of spec section 3
// and every command in it is individually valid.
func (f SoundFrame) Validate() error {
	if len(f) > MaxFrameLength {
		return errors.Errorf("snd: frame has %d commands, maximum is %d", len(f), MaxFrameLength)
	}
	for i, c := range f {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "snd: command %d", i)
		}
	}
	return nil
}
