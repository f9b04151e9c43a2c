// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// SumStream returns the SHA-1 digest of the first length bytes of src without
// holding more than one block of it in memory. The tail past the last whole
// block is read and framed first, then src is rewound and the whole blocks are
// compressed in order.
//
// SumStream owns the read position of src for the duration of the call and
// leaves it at the end of the last whole block. Reading src concurrently, or
// sharing its cursor with another reader, corrupts the result. If src is
// shorter than length the error wraps io.EOF or io.ErrUnexpectedEOF and no
// digest is returned.
func SumStream(src io.ReadSeeker, length int64) (Digest, error) {
	if length < 0 {
		return Digest{}, errors.Errorf("sha1: negative length %d", length)
	}
	whole := length / BlockSize
	rem := length % BlockSize

	var tail [BlockSize]byte
	if _, err := src.Seek(whole*BlockSize, io.SeekStart); err != nil {
		return Digest{}, errors.Wrapf(err, "seek to offset %d", whole*BlockSize)
	}
	if _, err := io.ReadFull(src, tail[:rem]); err != nil {
		return Digest{}, errors.Wrapf(err, "read %d trailing bytes", rem)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Digest{}, errors.Wrap(err, "rewind")
	}

	s := initialState()
	var b block
	for i := int64(0); i < whole; i++ {
		if _, err := io.ReadFull(src, b[:]); err != nil {
			return Digest{}, errors.Wrapf(err, "read block %d of %d", i, whole)
		}
		s = compress(s, &b)
	}
	s = compressAll(s, pad(tail[:rem], uint64(length)))
	return s.digest(), nil
}

// SumFile returns the SHA-1 digest of the named file using SumStream.
func SumFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return Digest{}, err
	}
	d, err := SumStream(f, stat.Size())
	if err != nil {
		return Digest{}, errors.Wrap(err, path)
	}
	return d, nil
}
