// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package store

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

// SnapshotExt marks a cache path as a snappy compressed gob snapshot rather
// than YAML.
const SnapshotExt = ".gob"

// SerializedStore is an alternative representation of digestInMemoryCache
// that uses numeric IDs in place of pointers. It is directly serializable
// using the defaults for more or less any encoding format desired.
type SerializedStore struct {
	Files     []record.SerializedFile
	StatCache map[StatKey]hash.Digest `yaml:",omitempty"`
}

// NewSerializedStore creates a new serializable copy of the current store
func (v *digestInMemoryCache) NewSerializedStore() *SerializedStore {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	onDisk := SerializedStore{
		Files:     make([]record.SerializedFile, 0, len(v.files)),
		StatCache: make(map[StatKey]hash.Digest, v.statCache.Len()),
	}

	for _, f := range v.files {
		onDisk.Files = append(onDisk.Files, record.SerializedFile{ID: f.CacheID(), File: *f})
	}

	for _, k := range v.statCache.Keys() {
		d, ok := v.statCache.Peek(k)
		if !ok {
			log.Debug("cache miss on known stat key")
			continue
		}
		onDisk.StatCache[k.(StatKey)] = d.(hash.Digest)
	}

	return &onDisk
}

func (v *digestInMemoryCache) loadSerializedStore(onDisk *SerializedStore) error {
	v.filesLock.Lock()
	defer v.filesLock.Unlock()

	v.files = make([]*record.File, len(onDisk.Files))
	v.sha1Index = make(map[hash.Digest][]uint64, len(onDisk.Files))
	for _, sf := range onDisk.Files {
		if sf.ID >= uint64(len(v.files)) || v.files[sf.ID] != nil {
			return errors.Errorf("file %s has invalid id %d", sf.Path, sf.ID)
		}
		f := new(record.File)
		*f = sf.File
		f.SetCacheID(sf.ID)
		v.files[sf.ID] = f
		v.index(f.SHA1, sf.ID)
	}
	for id, f := range v.files {
		if f == nil {
			return errors.Errorf("no file with id %d", id)
		}
	}

	for statKey, d := range onDisk.StatCache {
		v.statCache.Add(statKey, d)
	}

	return nil
}

func (v *digestInMemoryCache) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(v.NewSerializedStore()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary modifies the receiver so it must take a pointer receiver.
func (v *digestInMemoryCache) UnmarshalBinary(data []byte) error {
	onDisk := new(SerializedStore)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(onDisk); err != nil {
		return err
	}
	return v.loadSerializedStore(onDisk)
}

func (v *digestInMemoryCache) MarshalYAML() (interface{}, error) {
	return v.NewSerializedStore(), nil
}

// UnmarshalYAML modifies the receiver so it must take a pointer receiver.
func (v *digestInMemoryCache) UnmarshalYAML(unmarshal func(interface{}) error) error {
	onDisk := new(SerializedStore)
	if err := unmarshal(onDisk); err != nil {
		return err
	}
	return v.loadSerializedStore(onDisk)
}

// SaveSnapshot writes the store to w as gob inside a snappy stream.
func (v *digestInMemoryCache) SaveSnapshot(w io.Writer) error {
	snappyWriter := snappy.NewBufferedWriter(w)
	if err := gob.NewEncoder(snappyWriter).Encode(v.NewSerializedStore()); err != nil {
		snappyWriter.Close()
		return errors.Wrap(err, "encoding snapshot")
	}
	return snappyWriter.Close()
}

// LoadSnapshot replaces the contents of the store with a snapshot previously
// written by SaveSnapshot.
func (v *digestInMemoryCache) LoadSnapshot(r io.Reader) error {
	onDisk := new(SerializedStore)
	if err := gob.NewDecoder(snappy.NewReader(r)).Decode(onDisk); err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}
	return v.loadSerializedStore(onDisk)
}

// Save writes the store to path, as a snapshot if path ends in SnapshotExt and
// as YAML otherwise. The file is replaced atomically.
func (v *digestInMemoryCache) Save(path string) error {
	if err := v.Verify(); err != nil {
		return errors.Wrap(err, "in-memory store is inconsistent, not persisting")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if isSnapshot(path) {
		err = v.SaveSnapshot(tmp)
	} else {
		enc := yaml.NewEncoder(tmp)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PersistRememberedObjects takes the accumulated in-memory database and
// serializes it to the path the store was opened from. Stores without a path
// are not persisted.
func (v *digestInMemoryCache) PersistRememberedObjects() error {
	if v.path == "" {
		return nil
	}
	defer logTime("persist " + v.path)()
	return v.Save(v.path)
}

func isSnapshot(path string) bool {
	return strings.HasSuffix(path, SnapshotExt)
}

// Open loads a persisted store from path. A missing file yields an empty store
// that will be written to path by PersistRememberedObjects.
func Open(path string) (record.Store, error) {
	cache := newInMemoryCache(path)

	indexFile, err := os.Open(path)
	if os.IsNotExist(err) {
		log.WithField("path", path).Debug("No cache file, starting empty")
		return cache, nil
	}
	if err != nil {
		return nil, err
	}
	defer indexFile.Close()

	if isSnapshot(path) {
		err = cache.LoadSnapshot(indexFile)
	} else {
		err = yaml.NewDecoder(indexFile).Decode(cache)
		if err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "restoring %s", path)
	}

	if err := cache.Verify(); err != nil {
		return nil, errors.Wrapf(err, "restore of %s failed due to inconsistency", path)
	}
	log.WithField("path", path).Debugf("Restored %d files", len(cache.files))
	return cache, nil
}
