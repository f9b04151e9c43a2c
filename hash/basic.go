// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"hash"
	"io"
)

// BasicHasher is an AsyncHash that feeds everything written to it through a
// pipe into an incremental SHA-1 computation running in its own goroutine.
type BasicHasher struct {
	h           hash.Hash
	done        chan Digest
	finished    chan struct{}
	result      Digest
	err         error
	w           *io.PipeWriter
	bytesHashed int64
}

var _ AsyncHash = &BasicHasher{}

// Done returns a channel that delivers the Digest once, after Close.
func (bh *BasicHasher) Done() <-chan Digest {
	return bh.done
}

// Digest returns the calculated Digest, blocking until the input is closed.
// It does not consume the channel returned by Done and always returns the
// same Digest.
func (bh *BasicHasher) Digest() Digest {
	<-bh.finished
	return bh.result
}

// Err returns the error that aborted hashing, if any. Only meaningful once
// Digest has returned.
func (bh *BasicHasher) Err() error {
	<-bh.finished
	return bh.err
}

// BytesHashed returns the number of bytes that went into the digest. Only
// meaningful once Digest has returned.
func (bh *BasicHasher) BytesHashed() int64 {
	<-bh.finished
	return bh.bytesHashed
}

// Size returns the digest size in bytes.
func (bh *BasicHasher) Size() int { return Size }

// Write adds the given slice to the internal Hash
func (bh *BasicHasher) Write(p []byte) (int, error) {
	return bh.w.Write(p)
}

// Close closes the underlying pipe and finalizes the hash
func (bh *BasicHasher) Close() error {
	return bh.w.Close()
}

// Abort closes the pipe with err. The digest is discarded and reported as the
// zero Digest.
func (bh *BasicHasher) Abort(err error) error {
	return bh.w.CloseWithError(err)
}

// NewSHA1Hasher creates a new async hasher for generating sha1sums
func NewSHA1Hasher() *BasicHasher {
	bh := new(BasicHasher)
	newBasicHasher(bh, New(), func(h *BasicHasher) Digest {
		return NewDigest(h.h)
	})
	return bh
}

func newBasicHasher(wrapper *BasicHasher, hasher hash.Hash, digester func(*BasicHasher) Digest) {
	wrapper.h = hasher
	wrapper.done = make(chan Digest, 1)
	wrapper.finished = make(chan struct{})
	r, w := io.Pipe()
	wrapper.w = w
	go func() {
		defer close(wrapper.done)
		n, err := io.Copy(wrapper.h, r)
		r.Close()
		wrapper.bytesHashed = n
		if err != nil {
			log.WithError(err).Warnf("Discarding digest after %d bytes", n)
			wrapper.err = err
		} else {
			wrapper.result = digester(wrapper)
		}
		close(wrapper.finished)
		wrapper.done <- wrapper.result
	}()
}
