/*
NAME
  main.go

DESCRIPTION
  tmscart is a command line tool that builds a TMS cartridge image from a
  WAV speech recording and a PSG sound-effect script, muxing them onto a
  shared vsync timeline and writing the result as a bank-limited TMS binary
  cartridge.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the tmscart cartridge-building command.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ericlafortune/tmsav/audio"
	"github.com/ericlafortune/tmsav/codec/lpc"
	"github.com/ericlafortune/tmsav/codec/lpc/encode"
	"github.com/ericlafortune/tmsav/codec/snd"
	"github.com/ericlafortune/tmsav/container/tms"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath     = "tmscart.log"
	logMaxSize  = 50 // MB
	logMaxAge   = 28 // days
	logSuppress = true
)

const pkg = "tmscart: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	wavPath := flag.String("wav", "", "input WAV speech recording")
	sndPath := flag.String("snd", "", "input PSG sound-effect file in SND binary format")
	outPath := flag.String("out", "cart.bin", "output TMS cartridge path")
	bankSize := flag.Int("banksize", tms.DefaultBankSize, "cartridge bank size in bytes")
	variantName := flag.String("variant", "tms5220", "speech chip variant: tms5220 or tms5200")
	textOut := flag.Bool("text", false, "write xas99 `text >XXXX` assembler directives instead of a binary cartridge")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	level := logging.Info
	if *verbose {
		level = logging.Debug
	}
	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxAge: logMaxAge}
	log := logging.New(level, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if err := run(log, *wavPath, *sndPath, *outPath, *bankSize, *variantName, *textOut); err != nil {
		log.Fatal(pkg+"failed", "error", err.Error())
	}
}

func run(log logging.Logger, wavPath, sndPath, outPath string, bankSize int, variantName string, textOut bool) error {
	variant, err := chipVariant(variantName)
	if err != nil {
		return err
	}

	c := tms.NewComposer(60, log)

	if wavPath != "" {
		frames, err := encodeSpeech(log, variant, wavPath)
		if err != nil {
			return errors.Wrap(err, pkg+"encoding speech")
		}
		c.AddSpeech(0, func() (tms.SpeechSource, error) {
			return lpc.NewSliceSource(frames), nil
		})
	}

	if sndPath != "" {
		c.AddSound(0, func() (tms.SoundSource, error) {
			src, err := snd.OpenFileSource(sndPath)
			if err != nil {
				return nil, err
			}
			return src, nil
		})
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, pkg+"creating cartridge file")
	}
	defer out.Close()

	log.Info("building cartridge", "wav", wavPath, "snd", sndPath, "out", outPath, "bankSize", bankSize, "text", textOut)
	if textOut {
		collector := newChunkCollector()
		if err := c.Run(collector); err != nil {
			return errors.Wrap(err, pkg+"running composer")
		}
		if err := tms.WriteText(out, collector.chunks); err != nil {
			return errors.Wrap(err, pkg+"writing xas99 text")
		}
	} else {
		w := tms.NewWriter(out, bankSize, log)
		if err := c.Run(w); err != nil {
			return errors.Wrap(err, pkg+"running composer")
		}
	}
	log.Info("cartridge complete", "out", outPath)
	return nil
}

// chunkCollector is a tms.Sink that records every chunk a Composer emits,
// for -text runs where the xas99 writer (which works on a chunk slice, not
// a stream) renders them instead of the binary Writer.
type chunkCollector struct {
	chunks []tms.TmsChunk
}

func newChunkCollector() *chunkCollector { return &chunkCollector{} }

func (cc *chunkCollector) WriteDisplay(addr uint16, data []byte) error {
	c, err := tms.NewDisplayChunk(addr, data)
	if err != nil {
		return err
	}
	cc.chunks = append(cc.chunks, c)
	return nil
}

func (cc *chunkCollector) WriteSound(data []byte) error {
	c, err := tms.NewSoundChunk(data)
	if err != nil {
		return err
	}
	cc.chunks = append(cc.chunks, c)
	return nil
}

func (cc *chunkCollector) WriteSpeech(data []byte) error {
	c, err := tms.NewSpeechChunk(data)
	if err != nil {
		return err
	}
	cc.chunks = append(cc.chunks, c)
	return nil
}

func (cc *chunkCollector) WriteVsync() error {
	cc.chunks = append(cc.chunks, tms.NewVsyncChunk())
	return nil
}

func (cc *chunkCollector) Close() error {
	cc.chunks = append(cc.chunks, tms.NewEofChunk())
	return nil
}

func chipVariant(name string) (*lpc.Variant, error) {
	switch name {
	case "tms5220":
		return lpc.TMS5220, nil
	case "tms5200":
		return lpc.TMS5200, nil
	default:
		return nil, errors.Errorf(pkg+"unknown chip variant %q", name)
	}
}

func encodeSpeech(log logging.Logger, variant *lpc.Variant, wavPath string) ([]lpc.Frame, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, errors.Wrap(err, pkg+"opening WAV")
	}
	defer f.Close()

	buf, err := audio.ReadWAV(f)
	if err != nil {
		return nil, errors.Wrap(err, pkg+"reading WAV")
	}

	enc, err := encode.NewEncoder(variant, log)
	if err != nil {
		return nil, err
	}
	return enc.EncodeWAV(buf)
}
