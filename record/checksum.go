// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package record

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/IBM/sha1print/hash"
)

// Checksum is one entry of a checksum list as written by sha1sum: a digest,
// the path it was computed from and whether the file was read in binary mode.
type Checksum struct {
	Digest hash.Digest
	Path   string
	Binary bool
}

var (
	// <40 hex> <space|*><path>
	gnuFormat = regexp.MustCompile(`^([0-9a-fA-F]{40}) ([ *])(.+)$`)
	// SHA1 (<path>) = <40 hex>
	bsdFormat = regexp.MustCompile(`^SHA1 \((.+)\) = ([0-9a-fA-F]{40})$`)
)

// ParseChecksumLine parses a single line in either the default or the
// --tag format of sha1sum.
func ParseChecksumLine(line string) (Checksum, error) {
	line = strings.TrimRight(line, "\r\n")
	if m := gnuFormat.FindStringSubmatch(line); m != nil {
		d, err := hash.ParseDigest(m[1])
		if err != nil {
			return Checksum{}, err
		}
		return Checksum{Digest: d, Path: m[3], Binary: m[2] == "*"}, nil
	}
	if m := bsdFormat.FindStringSubmatch(line); m != nil {
		d, err := hash.ParseDigest(m[2])
		if err != nil {
			return Checksum{}, err
		}
		return Checksum{Digest: d, Path: m[1]}, nil
	}
	return Checksum{}, errors.Errorf("improperly formatted checksum line %q", line)
}

// Format renders the checksum in the default sha1sum format.
func (c Checksum) Format(hexCase hash.Case) string {
	mode := " "
	if c.Binary {
		mode = "*"
	}
	return c.Digest.Hex(hexCase) + " " + mode + c.Path
}

func (c Checksum) String() string {
	return c.Format(hash.Lower)
}

// ReadChecksums parses every line of r, skipping blank lines and lines
// starting with '#'. Errors carry the 1-based line number.
func ReadChecksums(r io.Reader) ([]Checksum, error) {
	var sums []Checksum
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := ParseChecksumLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		sums = append(sums, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}
