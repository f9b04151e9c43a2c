// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"encoding/binary"
	"fmt"
)

// PaddedLen returns the length of an n byte message after framing: the 0x80
// marker, zero fill up to 56 mod 64, and the 8 byte bit length.
func PaddedLen(n uint64) uint64 {
	return ((n+8)/BlockSize + 1) * BlockSize
}

// BlockCount returns the number of blocks compressed for an n byte message.
func BlockCount(n uint64) uint64 {
	return PaddedLen(n) / BlockSize
}

// pad frames the end of a message that is total bytes long. tail holds the
// bytes not yet compressed, normally total%64 of them, so the result is one
// or two blocks.
func pad(tail []byte, total uint64) []byte {
	n := uint64(len(tail))
	padded := make([]byte, PaddedLen(n))
	copy(padded, tail)
	padded[n] = 0x80
	// length in bits, modulo 2^64
	binary.BigEndian.PutUint64(padded[len(padded)-8:], total<<3)

	if len(padded)%BlockSize != 0 {
		panic(fmt.Sprintf("sha1: padded tail is %d bytes", len(padded)))
	}
	return padded
}
