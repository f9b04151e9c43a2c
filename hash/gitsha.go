// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// gitHeader returns the prefix git hashes in front of an object's content:
//
//	<type><SP><length><NUL>
//
// where length is the decimal length of the content.
func gitHeader(objectType string, size int64) []byte {
	return append([]byte(fmt.Sprintf("%s %d", objectType, size)), 0)
}

// GitBlobSum returns the object id git assigns to data stored as a blob.
func GitBlobSum(data []byte) Digest {
	h := New()
	h.Write(gitHeader("blob", int64(len(data))))
	h.Write(data)
	return NewDigest(h)
}

// GitShaHasher is an AsyncHash that calculates a sha1sum using the same
// salting mechanism as git does when storing objects. The object size is part
// of the salt, so it has to be known before the first write.
type GitShaHasher struct {
	BasicHasher
	size int64
}

// NewGitShaHasher returns an AsyncHash computing the git object id of an
// object of the given type and size. If the number of bytes written differs
// from size the result is the zero Digest.
func NewGitShaHasher(objectType string, size int64) *GitShaHasher {
	gh := &GitShaHasher{size: size}
	sha1Hash := New()
	sha1Hash.Write(gitHeader(objectType, size))
	newBasicHasher(&gh.BasicHasher, sha1Hash, func(h *BasicHasher) Digest {
		if h.bytesHashed != gh.size {
			log.Printf("Expected %d, hashed %d. Discarding invalid gitsha\n", gh.size, h.bytesHashed)
			return Digest{}
		}
		return NewDigest(h.h)
	})
	return gh
}

// SumGitObject reads size bytes from r and returns their git object id.
func SumGitObject(objectType string, r io.Reader, size int64) (Digest, error) {
	gh := NewGitShaHasher(objectType, size)
	if _, err := io.Copy(gh, r); err != nil {
		gh.Abort(err)
		return Digest{}, err
	}
	gh.Close()
	d := gh.Digest()
	if d.IsZero() {
		return d, errors.Errorf("git object: expected %d bytes, read %d", size, gh.BytesHashed())
	}
	return d, nil
}
