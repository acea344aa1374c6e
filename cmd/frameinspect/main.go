// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command frameinspect decodes one captured query packet and prints its
// metaframe and action-group structure. It is the runnable analogue of
// the fixtures in frame/parser_test.go: the same three scenarios
// (sizeline, metaframe, actiongroup) turned into something a
// human can point at a captured packet instead of only a unit test.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cznic/mathutil"
	"github.com/cznic/sortutil"
	"github.com/cznic/zappy"

	"github.com/heliumbrain/skytable/config"
	"github.com/heliumbrain/skytable/frame"
	"github.com/heliumbrain/skytable/iarray"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var (
		oConfig     = flag.String("conf", "", "path to a YAML config file (optional)")
		oCompressed = flag.Bool("z", false, "input is zappy-compressed")
		oFile       = flag.String("f", "", "packet file to inspect (default: stdin)")
	)
	flag.Parse()

	cfg, err := config.Load(*oConfig)
	if err != nil {
		log.Fatal(err)
	}

	raw, err := readInput(*oFile)
	if err != nil {
		log.Fatal(err)
	}

	if *oCompressed || cfg.Compress {
		raw, err = zappy.Decode(nil, raw)
		if err != nil {
			log.Fatalf("decompressing input: %v", err)
		}
	}

	if err := inspect(raw, cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// inspect parses one metaframe and its action groups out of buf and
// writes a human-readable summary to w. The per-item framing inside a
// group is out of scope here, same as in spec.md.
func inspect(buf []byte, cfg config.Config, w io.Writer) error {
	p := frame.New(buf)

	groupCount, err := p.ParseMetaframe()
	if err != nil {
		return fmt.Errorf("metaframe: %w", err)
	}
	fmt.Fprintf(w, "action groups: %d\n", groupCount)

	// Action-group sizes are collected into an IArray before printing --
	// small packets (the overwhelmingly common case) never touch the
	// heap for this, same as the rest of this database's hot path.
	var sizes iarray.IArray[int, [16]int]
	for i := 0; i < groupCount; i++ {
		n, err := p.ParseActionGroupSize()
		if err != nil {
			return fmt.Errorf("action group %d: %w", i, err)
		}
		sizes.Push(n)
	}

	summary := sizes.Slice()
	if cfg.SortSummary {
		sorted := make([]int, len(summary))
		copy(sorted, summary)
		sortutil.IntSlice(sorted).Sort()
		summary = sorted
	}
	largest := 0
	for i, n := range summary {
		fmt.Fprintf(w, "  group[%d]: %d items\n", i, n)
		largest = mathutil.Max(largest, n)
	}
	fmt.Fprintf(w, "largest group: %d items\n", largest)
	fmt.Fprintf(w, "consumed %d of %d bytes\n", p.Cursor(), len(buf))
	return nil
}
