// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Round constants, one per 20-round quadrant.
const (
	_K0 = 0x5A827999
	_K1 = 0x6ED9EBA1
	_K2 = 0x8F1BBCDC
	_K3 = 0xCA62C1D6
)

var roundConstants = [4]uint32{_K0, _K1, _K2, _K3}

type block [BlockSize]byte

// schedule is the message schedule expanded from one block.
type schedule [80]uint32

// toBlock views p as a block. Anything other than exactly BlockSize bytes is a
// framing bug and panics.
func toBlock(p []byte) *block {
	if len(p) != BlockSize {
		panic(fmt.Sprintf("sha1: block is %d bytes, not %d", len(p), BlockSize))
	}
	return (*block)(p)
}

func expand(p *block) schedule {
	var w schedule
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for t := 16; t < len(w); t++ {
		w[t] = bits.RotateLeft32(w[t-3]^w[t-8]^w[t-14]^w[t-16], 1)
	}
	return w
}

// compress runs the 80 rounds over one block and returns the updated state.
func compress(s state, p *block) state {
	w := expand(p)

	a, b, c, d, e := s[0], s[1], s[2], s[3], s[4]
	for t := range w {
		var f uint32
		q := t / 20
		switch q {
		case 0:
			f = b&c | (^b)&d
		case 1, 3:
			f = b ^ c ^ d
		case 2:
			f = b&c | b&d | c&d
		default:
			panic(fmt.Sprintf("sha1: round %d outside quadrants", t))
		}
		temp := bits.RotateLeft32(a, 5) + f + e + roundConstants[q] + w[t]
		a, b, c, d, e = temp, a, bits.RotateLeft32(b, 30), c, d
	}

	s[0] += a
	s[1] += b
	s[2] += c
	s[3] += d
	s[4] += e
	return s
}

// compressAll folds every block of p into s. len(p) must be a multiple of
// BlockSize.
func compressAll(s state, p []byte) state {
	if len(p)%BlockSize != 0 {
		panic(fmt.Sprintf("sha1: %d bytes is not a whole number of blocks", len(p)))
	}
	for len(p) > 0 {
		s = compress(s, toBlock(p[:BlockSize]))
		p = p[BlockSize:]
	}
	return s
}
