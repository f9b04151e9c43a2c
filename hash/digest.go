// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"hash"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Digest is a finalized SHA-1 checksum: the five state registers h0..h4 in
// big-endian order. It conforms to the hash.Hash64 interface so that it can be
// fed to filters keyed on hashes, but it does not support operations that
// modify the finalized checksum.
type Digest [Size]byte

// Case selects the letter case of hexadecimal output.
type Case int

const (
	// Lower renders a-f.
	Lower Case = iota
	// Upper renders A-F.
	Upper
)

func (c Case) String() string {
	if c == Upper {
		return "upper"
	}
	return "lower"
}

// let the compiler tell us when Digest stops satisfying the interfaces the
// store relies on
var _ hash.Hash64 = Digest{}

// NewDigest finalizes h, which must compute a 20 byte checksum, into a Digest.
func NewDigest(h hash.Hash) Digest {
	d := Digest{}
	h.Sum(d[:0])
	return d
}

// ParseDigest parses 40 hexadecimal digits of either case.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(Size) {
		return d, errors.Errorf("sha1 digest must be %d hex digits, got %d", hex.EncodedLen(Size), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, errors.Wrapf(err, "invalid sha1 digest %q", s)
	}
	return d, nil
}

// Words returns the five state registers the digest was encoded from.
func (d Digest) Words() [5]uint32 {
	var w [5]uint32
	for i := range w {
		w[i] = binary.BigEndian.Uint32(d[i*4:])
	}
	return w
}

// Hex renders the digest as 40 hexadecimal digits, eight per register.
func (d Digest) Hex(c Case) string {
	w := d.Words()
	format := "%08x%08x%08x%08x%08x"
	if c == Upper {
		format = "%08X%08X%08X%08X%08X"
	}
	return fmt.Sprintf(format, w[0], w[1], w[2], w[3], w[4])
}

// String returns the lower case hex string of the checksum.
func (d Digest) String() string { return d.Hex(Lower) }

// Base64 returns the checksum as a base64 string.
func (d Digest) Base64() string { return base64.StdEncoding.EncodeToString(d[:]) }

// SRI returns the subresource integrity form, sha1-<base64>.
func (d Digest) SRI() string { return fmtSRI("sha1", d[:]) }

// Bytes returns the finalized checksum bytes.
func (d Digest) Bytes() []byte { return d[:] }

// IsZero returns true for the zero value, which no real input hashes to in
// practice and which marks a missing or discarded digest.
func (d Digest) IsZero() bool { return d == Digest{} }

func (Digest) Write([]byte) (int, error) { defer panic("Unimplemented"); return 0, nil }
func (Digest) Reset()                    { panic("Unimplemented") }
func (Digest) BlockSize() int            { return BlockSize }
func (Digest) Size() int                 { return Size }
func (d Digest) Sum(in []byte) []byte    { return append(in, d[:]...) }

// Sum64 satisfies the hash.Hash64 interface
func (d Digest) Sum64() uint64 { return binary.LittleEndian.Uint64(d[0:8]) }

func (d Digest) MarshalYAML() (interface{}, error) { return d.String(), nil }
func (d *Digest) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	return d.setString(str)
}

func (d Digest) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *Digest) UnmarshalText(text []byte) error {
	return d.setString(string(text))
}

func (d Digest) MarshalBinary() ([]byte, error) {
	return marshalBinaryArray([Size]byte(d))
}

// UnmarshalBinary modifies the receiver so it must take a pointer receiver.
func (d *Digest) UnmarshalBinary(data []byte) error {
	return unmarshalBinaryArray((*[Size]byte)(d), data)
}

// an empty string is the omitempty form of the zero digest
func (d *Digest) setString(str string) error {
	if str == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DigestMatcher is a comparison operand allowing Digests to be matched
// against a full digest or a prefix of one.
type DigestMatcher struct {
	P string
	B []byte
}

var matcherFormat = regexp.MustCompile("^(?:sha1:)?([0-9a-fA-F]+)$")

// NewDigestMatcher creates a new DigestMatcher by parsing the provided string,
// either bare hex digits or hex digits prefixed with "sha1:".
func NewDigestMatcher(pat string) (DigestMatcher, error) {
	dm := DigestMatcher{}
	parts := matcherFormat.FindStringSubmatch(pat)
	if len(parts) < 2 || len(parts[1]) > hex.EncodedLen(Size) {
		return dm, errors.Errorf("invalid digest pattern %q", pat)
	}
	dm.P = strings.ToLower(parts[1])
	if b, err := hex.DecodeString(dm.P); err == nil {
		dm.B = b
	}
	return dm, nil
}

// Match compares the DigestMatcher against a given Digest, by bytes when the
// pattern had an even number of hex digits and by string prefix otherwise.
func (matcher DigestMatcher) Match(d Digest) bool {
	if matcher.B != nil {
		return bytes.HasPrefix(d.Bytes(), matcher.B)
	}
	return strings.HasPrefix(d.String(), matcher.P)
}

// Exact reports whether the pattern names a single full digest.
func (matcher DigestMatcher) Exact() (Digest, bool) {
	var d Digest
	if len(matcher.B) != Size {
		return d, false
	}
	copy(d[:], matcher.B)
	return d, true
}

func (matcher DigestMatcher) String() string {
	return "sha1:" + matcher.P
}

func fmtSRI(prefix string, bytes []byte) string {
	return prefix + "-" + base64.StdEncoding.EncodeToString(bytes)
}

func marshalBinaryArray(d interface{}) ([]byte, error) {
	var b bytes.Buffer
	encoder := gob.NewEncoder(&b)
	err := encoder.Encode(d)
	return b.Bytes(), err
}

func unmarshalBinaryArray(d interface{}, data []byte) error {
	b := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(b)
	return decoder.Decode(d)
}
