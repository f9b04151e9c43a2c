// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package record

import (
	"os"

	"github.com/IBM/sha1print/hash"
)

// FileMatcher describes a function which matches a File given to it.
type FileMatcher func(*File) bool

// Store provides the API to be implemented by a storage backend for hashed
// files, so that unchanged files do not need to be hashed again.
type Store interface {
	GetStatDigest(os.FileInfo) (hash.Digest, bool)
	PutStatDigest(os.FileInfo, hash.Digest)
	PutFile(*File) *File
	Files() []*File
	FindFiles(hash.Digest) []*File
	FindMatching(FileMatcher) []*File
	Known(hash.Digest) bool
	PersistRememberedObjects() error
}
