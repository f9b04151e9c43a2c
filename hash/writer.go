// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"hash"
)

// digester is an incremental SHA-1 computation for inputs that arrive as a
// stream of writes rather than a seekable source. It holds at most one partial
// block.
type digester struct {
	s   state
	x   block
	nx  int
	len uint64
}

var _ hash.Hash = &digester{}

// New returns a hash.Hash computing the SHA-1 checksum incrementally. It
// produces the same digest as Sum and SumStream for the same bytes.
func New() hash.Hash {
	d := new(digester)
	d.Reset()
	return d
}

func (d *digester) Reset() {
	d.s = initialState()
	d.nx = 0
	d.len = 0
}

func (d *digester) Size() int { return Size }

func (d *digester) BlockSize() int { return BlockSize }

func (d *digester) Write(p []byte) (int, error) {
	nn := len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			d.s = compress(d.s, &d.x)
			d.nx = 0
		}
		p = p[n:]
	}
	whole := len(p) &^ (BlockSize - 1)
	d.s = compressAll(d.s, p[:whole])
	if p = p[whole:]; len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the digest of everything written so far. The running state is
// left untouched so writing can continue.
func (d *digester) Sum(in []byte) []byte {
	dg := d.digest()
	return append(in, dg[:]...)
}

func (d *digester) digest() Digest {
	return compressAll(d.s, pad(d.x[:d.nx], d.len)).digest()
}
