// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"io"

	"github.com/pkg/errors"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// Mode selects how file contents reach the SHA-1 engine.
type Mode int

const (
	// ModeStream pads the tail first and then reads one block at a time, so
	// memory use does not depend on the file size.
	ModeStream Mode = iota
	// ModeMemory reads the whole file and digests it in one call.
	ModeMemory
	// ModeAsync copies the file into a background hasher.
	ModeAsync
)

var modeNames = map[Mode]string{
	ModeStream: "stream",
	ModeMemory: "memory",
	ModeAsync:  "async",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Set implements pflag.Value so a Mode can be bound directly to a flag.
func (m *Mode) Set(s string) error {
	for mode, name := range modeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return errors.Errorf("unknown mode %q, expected stream, memory or async", s)
}

func (m *Mode) Type() string {
	return "mode"
}

// Options controls how HashFile, HashPaths and Verify read files.
type Options struct {
	Mode Mode
	// Git additionally computes the git blob id of each file.
	Git bool
	// Workers is the number of files hashed concurrently by HashPaths. Values
	// below 1 mean 1. Results are reported in input order regardless.
	Workers int
	// Progress, when set, makes HashPaths and Verify draw a progress bar on it.
	Progress io.Writer
	// Bar receives the number of bytes read by HashFile.
	Bar *pb.ProgressBar
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}
