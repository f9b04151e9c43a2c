// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package record

// storeSlot remembers the position a Store assigned to a record. The zero
// value means the record has not been stored; the slot holds id+1 otherwise.
type storeSlot struct {
	slot uint64
}

// IsCached reports whether a Store has assigned this record an id.
func (s storeSlot) IsCached() bool {
	return s.slot != 0
}

// CacheID returns the id assigned by the Store. It is only meaningful when
// IsCached is true.
func (s storeSlot) CacheID() uint64 {
	if s.slot == 0 {
		return 0
	}
	return s.slot - 1
}

// SetCacheID is called by a Store when it takes ownership of the record.
func (s *storeSlot) SetCacheID(id uint64) {
	s.slot = id + 1
}
