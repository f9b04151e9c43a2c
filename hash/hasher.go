// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"io"
)

// AsyncHash accepts input through a buffering pipe and delivers the final
// digest on a channel once the writer is closed.
type AsyncHash interface {
	io.Writer
	io.Closer
	// Size returns the digest size in bytes.
	Size() int
	// Digest blocks until the input is closed and returns the result. It may
	// be called any number of times.
	Digest() Digest
	// Done delivers the digest exactly once.
	Done() <-chan Digest
}
