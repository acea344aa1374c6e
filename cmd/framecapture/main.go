// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command framecapture reads a stream of concatenated query packets,
// validates each against the frame grammar, and rotates them into
// capture segments on disk. It plays the role dbm/crash/main.go plays
// for the teacher's own B+tree: a small flag-driven main that drives
// the library under a workload, except the workload here is "whatever
// arrives on stdin" rather than a synthetic key generator.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cznic/fileutil"
	"github.com/cznic/zappy"

	"github.com/heliumbrain/skytable/config"
	"github.com/heliumbrain/skytable/frame"
	"github.com/heliumbrain/skytable/iarray"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var (
		oConfig = flag.String("conf", "", "path to a YAML config file (optional)")
		oDir    = flag.String("dir", "", "capture directory (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*oConfig)
	if err != nil {
		log.Fatal(err)
	}
	if *oDir != "" {
		cfg.CaptureDir = *oDir
	}

	if err := capture(bufio.NewReader(os.Stdin), cfg); err != nil {
		log.Fatal(err)
	}
}

// segment accumulates validated frame bytes before they are rotated out
// to disk once it reaches RotateBytes. The buffer lives inline for the
// first 512 bytes and spills to the heap beyond that.
type segment struct {
	buf iarray.IArray[byte, [512]byte]
	n   int
}

func capture(r *bufio.Reader, cfg config.Config) error {
	var seg segment
	var rotated, packets int

	for ; ; packets++ {
		raw, err := readPacket(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading packet %d: %w", packets, err)
		}

		consumed, verr := validate(raw)
		if verr != nil {
			log.Printf("packet %d: %v (consumed %d of %d bytes), discarding", packets, verr, consumed, len(raw))
			continue
		}

		seg.buf.ExtendFromSlice(raw)
		seg.n += len(raw)

		if int64(seg.n) >= cfg.RotateBytes {
			if err := rotate(cfg, &seg, rotated); err != nil {
				return err
			}
			rotated++
			seg = segment{}
		}
	}

	if seg.n > 0 {
		if err := rotate(cfg, &seg, rotated); err != nil {
			return err
		}
		rotated++
	}

	log.Printf("wrote %d capture segment(s) to %s", rotated, cfg.CaptureDir)
	return nil
}

// readPacket reads one packet from the stream. Every line of a packet
// ends in a newline, so lines are read one at a time and appended until
// validate stops reporting frame.ErrNotEnough (the packet is complete or
// cannot become valid) or the stream ends; the bytes read so far are
// returned either way.
func readPacket(r *bufio.Reader) ([]byte, error) {
	var pkt []byte
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		pkt = append(pkt, line...)
		if len(pkt) == 0 {
			return nil, err
		}
		if _, verr := validate(pkt); verr != frame.ErrNotEnough || err == io.EOF {
			return pkt, nil
		}
	}
}

// validate runs a packet through frame.Parser far enough to confirm it
// is at least a well-formed metaframe; per-group item framing is out of
// scope, same as the library itself.
func validate(raw []byte) (consumed int, err error) {
	p := frame.New(raw)
	groups, err := p.ParseMetaframe()
	if err != nil {
		return p.Cursor(), err
	}
	for i := 0; i < groups; i++ {
		if _, err := p.ParseActionGroupSize(); err != nil {
			return p.Cursor(), err
		}
	}
	return p.Cursor(), nil
}

// rotate stages seg to a temp file in cfg.CaptureDir, optionally
// zappy-compresses it, then atomically renames it into place -- a
// reader never observes a partially written segment.
func rotate(cfg config.Config, seg *segment, index int) error {
	if err := os.MkdirAll(cfg.CaptureDir, 0o755); err != nil {
		return fmt.Errorf("creating capture dir: %w", err)
	}

	payload := seg.buf.Slice()
	suffix := ""
	if cfg.Compress {
		c, err := zappy.Encode(nil, payload)
		if err != nil {
			return fmt.Errorf("compressing segment %d: %w", index, err)
		}
		payload = c
		suffix = ".zpy"
	}

	f, err := fileutil.TempFile(cfg.CaptureDir, "segment-")
	if err != nil {
		return fmt.Errorf("staging segment %d: %w", index, err)
	}
	staged := f.Name()

	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(staged)
		return fmt.Errorf("writing segment %d: %w", index, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staged)
		return fmt.Errorf("closing segment %d: %w", index, err)
	}

	final := filepath.Join(cfg.CaptureDir, fmt.Sprintf("segment-%04d%s", index, suffix))
	if err := os.Rename(staged, final); err != nil {
		os.Remove(staged)
		return fmt.Errorf("finalizing segment %d: %w", index, err)
	}
	return nil
}
