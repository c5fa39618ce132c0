/*
NAME
  chunk.go

DESCRIPTION
  chunk.go defines TmsChunk, the tagged-variant unit of the TMS cartridge
  stream (spec section 3), and the header-word arithmetic shared by the
  binary writer and reader.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tms implements the TMS cartridge container: the chunk model, its
// binary and xas99 text encodings, and the Composer that muxes display,
// sound and speech streams onto a shared bank-limited timeline.
package tms

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformed and ErrOutOfRange are the two sentinel causes a *FormatError
// wraps; match them with errors.Is.
var (
	ErrMalformed  = stderrors.New("tms: malformed input")
	ErrOutOfRange = stderrors.New("tms: out-of-range parameter")
)

// FormatError reports malformed TMS stream data or an out-of-range chunk
// parameter, tagged with the byte offset it occurred at when known (-1
// otherwise).
type FormatError struct {
	Kind   error
	Offset int
	Err    error
}

func newFormatError(kind error, err error) *FormatError {
	return &FormatError{Kind: kind, Offset: -1, Err: err}
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v at byte offset %d: %v", e.Kind, e.Offset, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes the wrapped cause, e.g. for stack-trace formatting of a
// github.com/pkg/errors-built Err.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is this error's sentinel Kind, so callers can
// match with errors.Is(err, tms.ErrMalformed) / errors.Is(err, tms.ErrOutOfRange).
func (e *FormatError) Is(target error) bool { return target == e.Kind }

// Kind discriminates the six TmsChunk shapes.
type Kind int

const (
	Display Kind = iota
	Sound
	Speech
	Vsync
	NextBank
	Eof
)

func (k Kind) String() string {
	switch k {
	case Display:
		return "Display"
	case Sound:
		return "Sound"
	case Speech:
		return "Speech"
	case Vsync:
		return "Vsync"
	case NextBank:
		return "NextBank"
	case Eof:
		return "Eof"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Header-word bases and length ceilings, spec section 3's chunk table.
const (
	displayBase  = 0x0000
	soundBase    = 0xFFE0
	speechBase   = 0xFFD0
	vsyncWord    = 0xFFCF
	nextBankWord = 0xFFCE
	eofWord      = 0xFFCD

	// MaxDisplayLen is the largest payload a Display chunk may carry.
	MaxDisplayLen = 0xFFCC
	// MaxSoundLen is the largest payload a Sound chunk may carry.
	MaxSoundLen = 0x1F
	// MaxSpeechLen is the largest payload a Speech chunk may carry.
	MaxSpeechLen = 0x0F
)

// DefaultBankSize is the memory bank size the composer packs chunks into
// when no other size is configured.
const DefaultBankSize = 8192

// TmsChunk is one unit of the TMS stream. Addr is meaningful only for
// Display; Data holds the chunk payload for Display/Sound/Speech and is nil
// for Vsync/NextBank/Eof.
type TmsChunk struct {
	Kind Kind
	Addr uint16
	Data []byte
}

// NewDisplayChunk returns a Display chunk, erroring if data exceeds
// MaxDisplayLen.
func NewDisplayChunk(addr uint16, data []byte) (TmsChunk, error) {
	if len(data) > MaxDisplayLen {
		return TmsChunk{}, newFormatError(ErrOutOfRange, errors.Errorf("display chunk has %d bytes, maximum is %d", len(data), MaxDisplayLen))
	}
	return TmsChunk{Kind: Display, Addr: addr, Data: data}, nil
}

// NewSoundChunk returns a Sound chunk, erroring if data exceeds
// MaxSoundLen.
func NewSoundChunk(data []byte) (TmsChunk, error) {
	if len(data) > MaxSoundLen {
		return TmsChunk{}, newFormatError(ErrOutOfRange, errors.Errorf("sound chunk has %d bytes, maximum is %d", len(data), MaxSoundLen))
	}
	return TmsChunk{Kind: Sound, Data: data}, nil
}

// NewSpeechChunk returns a Speech chunk, erroring if data exceeds
// MaxSpeechLen.
func NewSpeechChunk(data []byte) (TmsChunk, error) {
	if len(data) > MaxSpeechLen {
		return TmsChunk{}, newFormatError(ErrOutOfRange, errors.Errorf("speech chunk has %d bytes, maximum is %d", len(data), MaxSpeechLen))
	}
	return TmsChunk{Kind: Speech, Data: data}, nil
}

// NewVsyncChunk returns a Vsync chunk.
func NewVsyncChunk() TmsChunk { return TmsChunk{Kind: Vsync} }

// NewNextBankChunk returns a NextBank marker chunk.
func NewNextBankChunk() TmsChunk { return TmsChunk{Kind: NextBank} }

// NewEofChunk returns an Eof marker chunk.
func NewEofChunk() TmsChunk { return TmsChunk{Kind: Eof} }

// headerWord returns c's little-endian-stored header word.
func (c TmsChunk) headerWord() (uint16, error) {
	switch c.Kind {
	case Display:
		return displayBase + uint16(len(c.Data)), nil
	case Sound:
		return soundBase + uint16(len(c.Data)), nil
	case Speech:
		return speechBase + uint16(len(c.Data)), nil
	case Vsync:
		return vsyncWord, nil
	case NextBank:
		return nextBankWord, nil
	case Eof:
		return eofWord, nil
	default:
		return 0, newFormatError(ErrOutOfRange, errors.Errorf("invalid chunk kind %d", c.Kind))
	}
}

// wireLen returns the number of bytes c occupies on the wire: the 2-byte
// header word, plus a 2-byte address and payload for Display, plus payload
// alone for Sound/Speech, plus nothing for the three marker kinds.
func (c TmsChunk) wireLen() int {
	switch c.Kind {
	case Display:
		return 2 + 2 + len(c.Data)
	case Sound, Speech:
		return 2 + len(c.Data)
	default:
		return 2
	}
}

// classifyHeader maps a header word to its chunk kind and payload length,
// the inverse of headerWord, following spec section 4.8's classification
// order: markers first, then Sound's and Speech's base-subtracted ranges,
// leaving everything below as Display.
func classifyHeader(h uint16) (kind Kind, payloadLen int, err error) {
	switch h {
	case eofWord:
		return Eof, 0, nil
	case nextBankWord:
		return NextBank, 0, nil
	case vsyncWord:
		return Vsync, 0, nil
	}
	if h >= soundBase {
		return Sound, int(h - soundBase), nil
	}
	if h >= speechBase {
		return Speech, int(h - speechBase), nil
	}
	if h <= MaxDisplayLen {
		return Display, int(h), nil
	}
	return 0, 0, newFormatError(ErrMalformed, errors.Errorf("header word %#04x does not classify to any chunk kind", h))
}
