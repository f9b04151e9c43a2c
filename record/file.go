// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package record

import (
	"github.com/IBM/sha1print/hash"
)

// File represents a hashed file by mapping a Path string to its digests.
type File struct {
	Path      string
	Size      int64       `yaml:",omitempty"`
	SHA1      hash.Digest `yaml:"sha1,omitempty"`
	GitSHA    hash.Digest `yaml:"gitsha,omitempty"`
	storeSlot `yaml:"-"`
}

// SerializedFile is an alternative representation of File carrying the
// serialization specific numeric id the Store assigned.
type SerializedFile struct {
	ID   uint64
	File `yaml:",inline"`
}

// Is reports whether other is a File with the same path and digest, or a
// hash.Digest equal to this file's SHA-1.
func (f File) Is(other interface{}) bool {
	var of *File
	switch o := other.(type) {
	case hash.Digest:
		return !f.SHA1.IsZero() && f.SHA1 == o
	case File:
		of = &o
	case *File:
		of = o
	default:
		return false
	}
	return f.SHA1 == of.SHA1 && f.Path == of.Path
}

// String renders the file the way sha1sum does.
func (f File) String() string {
	return f.Format(hash.Lower)
}

// Format renders the file as a checksum line in the given case.
func (f File) Format(c hash.Case) string {
	return Checksum{Digest: f.SHA1, Path: f.Path}.Format(c)
}

// SRI returns a subresource integrity string for the file.
func (f File) SRI() string {
	return f.SHA1.SRI()
}
