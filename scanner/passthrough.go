// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"io"

	"github.com/IBM/sha1print/hash"
)

// we use this un-exported type to detect recursive wrapping
type passthroughHasher struct {
	r io.Reader
	h *hash.BasicHasher
}

// like TeeReader except we close the hasher when we read io.EOF
func (p *passthroughHasher) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		if _, werr := p.h.Write(b[:n]); werr != nil {
			return n, werr
		}
	}
	switch {
	case err == io.EOF:
		p.h.Close()
	case err != nil:
		p.h.Abort(err)
	}
	return n, err
}

// Passthrough returns a reader yielding the contents of r unchanged, and a
// hasher that digests everything read through it. The digest is delivered
// once the returned reader reaches io.EOF. A read error aborts the hasher.
func Passthrough(r io.Reader) (io.Reader, *hash.BasicHasher) {
	if _, ok := r.(*passthroughHasher); ok {
		panic("nested passthrough hasher!")
	}
	if r == nil {
		panic("nil reader passed to Passthrough")
	}
	h := hash.NewSHA1Hasher()
	return &passthroughHasher{r: r, h: h}, h
}
