// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

// Package hash implements the SHA-1 algorithm as defined in RFC 3174, both
// for messages held in memory and for seekable sources that are too large to
// buffer, along with the Digest value used throughout sha1print.
//
// SHA-1 is broken for collision resistance. It is provided for fingerprinting
// and for compatibility with existing checksums, not as a secure hash.
package hash

import (
	"encoding/binary"
)

// Size is the size of a SHA-1 digest in bytes.
const Size = 20

// BlockSize is the block size of SHA-1 in bytes.
const BlockSize = 64

const (
	init0 = 0x67452301
	init1 = 0xEFCDAB89
	init2 = 0x98BADCFE
	init3 = 0x10325476
	init4 = 0xC3D2E1F0
)

// state holds the five chaining registers h0..h4. It is passed by value, so
// a finished state can be encoded any number of times.
type state [5]uint32

func initialState() state {
	return state{init0, init1, init2, init3, init4}
}

func (s state) digest() Digest {
	var d Digest
	for i, h := range s {
		binary.BigEndian.PutUint32(d[i*4:], h)
	}
	return d
}

// Bytes is the set of types with an underlying byte view that SumOf accepts.
type Bytes interface {
	~string | ~[]byte
}

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) Digest {
	whole := len(data) &^ (BlockSize - 1)
	s := compressAll(initialState(), data[:whole])
	s = compressAll(s, pad(data[whole:], uint64(len(data))))
	return s.digest()
}

// SumOf returns the SHA-1 digest of the bytes of v.
func SumOf[T Bytes](v T) Digest {
	return Sum([]byte(v))
}

// SumString returns the SHA-1 digest of the UTF-8 bytes of s.
func SumString(s string) Digest {
	return SumOf(s)
}
