// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package store

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"syscall"

	"github.com/hashicorp/golang-lru"
	"github.com/steakknife/bloomfilter"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

const (
	statCacheSize   = 1024 * 1024
	expectedDigests = 100 * 1024
	filterFalseRate = 0.000001
)

// StatKey is an opaque key generated from the stat info of a file.
type StatKey string

type digestInMemoryCache struct {
	files      []*record.File
	filesLock  sync.Mutex
	sha1Index  map[hash.Digest][]uint64
	sha1Filter *bloomfilter.Filter
	statCache  *lru.ARCCache
	// where PersistRememberedObjects writes to, empty for memory only
	path string
}

var _ record.Store = &digestInMemoryCache{}

// newStatKey takes an os.FileInfo to create a key based on the device,
// inode, size, and mtime of the target file. Files whose stat info carries no
// inode fall back to size and mtime alone.
func newStatKey(fileInfo os.FileInfo) StatKey {
	str := strconv.FormatInt(fileInfo.Size(), 36) + "," + strconv.FormatInt(fileInfo.ModTime().UnixNano(), 36)
	if stat, ok := fileInfo.Sys().(*syscall.Stat_t); ok {
		str += "," + strconv.FormatUint(uint64(stat.Dev), 36) + "," + strconv.FormatUint(uint64(stat.Ino), 36)
	}
	return StatKey(str)
}

// NewInMemoryStore returns a new memory-backed Store. It is valid until the
// process exits and is never persisted to disk.
func NewInMemoryStore() record.Store {
	return newInMemoryCache("")
}

func newInMemoryCache(path string) *digestInMemoryCache {
	statCache, err := lru.NewARC(statCacheSize)
	if err != nil {
		log.WithError(err).Panicf("Error initializing ARC cache(%d)", statCacheSize)
	}
	filter, err := bloomfilter.NewOptimal(expectedDigests, filterFalseRate)
	if err != nil {
		log.WithError(err).Panic("Error initializing digest filter")
	}
	return &digestInMemoryCache{
		files:      make([]*record.File, 0, 1024),
		sha1Index:  make(map[hash.Digest][]uint64, 1024),
		sha1Filter: filter,
		statCache:  statCache,
		path:       path,
	}
}

// Verify checks that every file's cache id matches its position and is
// indexed under its digest.
func (v *digestInMemoryCache) Verify() error {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	for id, f := range v.files {
		if f.CacheID() != uint64(id) {
			return fmt.Errorf("Incorrect key on file. Expected %s id %d to be %d", f.Path, f.CacheID(), id)
		}
		if !containsID(v.sha1Index[f.SHA1], uint64(id)) {
			return fmt.Errorf("File %s (%d) missing from digest index", f.Path, id)
		}
	}
	return nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint64, id uint64) []uint64 {
	out := ids[:0]
	for _, i := range ids {
		if i != id {
			out = append(out, i)
		}
	}
	return out
}

// GetStatDigest returns the digest remembered for a file with the given stat
// info, if there is one.
func (v *digestInMemoryCache) GetStatDigest(stat os.FileInfo) (hash.Digest, bool) {
	if d, ok := v.statCache.Get(newStatKey(stat)); ok {
		return d.(hash.Digest), true
	}
	return hash.Digest{}, false
}

func (v *digestInMemoryCache) PutStatDigest(stat os.FileInfo, d hash.Digest) {
	v.statCache.Add(newStatKey(stat), d)
}

// PutFile ensures that the given record.File is stored in the in-memory
// database. If a file with the same path is already stored it is updated in
// place and that pointer is returned, so the returned pointer should be used
// after calling PutFile instead of the previous value.
// Intended use is:
//
//	someFile = PutFile(someFile)
func (v *digestInMemoryCache) PutFile(f *record.File) *record.File {
	if f.IsCached() {
		return f
	}

	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	for _, existing := range v.files {
		if existing.Path != f.Path {
			continue
		}
		if !existing.Is(f) {
			// same path, new contents
			id := existing.CacheID()
			v.sha1Index[existing.SHA1] = removeID(v.sha1Index[existing.SHA1], id)
			v.index(f.SHA1, id)
		}
		existing.SHA1 = f.SHA1
		existing.Size = f.Size
		if !f.GitSHA.IsZero() {
			existing.GitSHA = f.GitSHA
		}
		return existing
	}

	id := uint64(len(v.files))
	f.SetCacheID(id)
	v.files = append(v.files, f)
	v.index(f.SHA1, id)
	return f
}

// index must be called with filesLock held
func (v *digestInMemoryCache) index(d hash.Digest, id uint64) {
	v.sha1Index[d] = append(v.sha1Index[d], id)
	v.sha1Filter.Add(d)
}

// Files returns every stored file in insertion order.
func (v *digestInMemoryCache) Files() []*record.File {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()
	return append([]*record.File(nil), v.files...)
}

// Known reports whether any stored file has the digest d.
func (v *digestInMemoryCache) Known(d hash.Digest) bool {
	return len(v.FindFiles(d)) > 0
}

// FindFiles returns every stored file whose SHA-1 is d.
func (v *digestInMemoryCache) FindFiles(d hash.Digest) []*record.File {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	// Misses are the common case when checking foreign digests, and the
	// filter answers them without touching the index.
	if !v.sha1Filter.Contains(d) {
		return nil
	}
	var found []*record.File
	for _, id := range v.sha1Index[d] {
		found = append(found, v.files[id])
	}
	return found
}

// FindMatching returns every stored file accepted by match.
func (v *digestInMemoryCache) FindMatching(match record.FileMatcher) []*record.File {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	var found []*record.File
	for _, f := range v.files {
		if match(f) {
			found = append(found, f)
		}
	}
	return found
}
