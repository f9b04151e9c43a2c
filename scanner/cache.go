// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

// FindMatchingFiles searches the store for every file whose SHA-1 satisfies
// the given pattern, such as "sha1:561fc183" or a complete hex digest.
func FindMatchingFiles(st record.Store, pattern string) ([]*record.File, error) {
	matcher, err := hash.NewDigestMatcher(pattern)
	if err != nil {
		return nil, err
	}

	// If we are looking for a full digest then we can just do a direct lookup without scanning
	if exact, ok := matcher.Exact(); ok {
		return st.FindFiles(exact), nil
	}

	log.WithField("matcher", matcher.String()).Debug("scanning store for partial digest")
	return st.FindMatching(func(f *record.File) bool {
		return matcher.Match(f.SHA1)
	}), nil
}
