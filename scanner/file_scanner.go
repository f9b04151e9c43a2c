// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

// IsScannablePath returns true if the name matches an existing path that looks like something we can scan.
func IsScannablePath(name string, stat os.FileInfo) bool {
	var err error
	if stat == nil {
		stat, err = os.Stat(name)
	}
	return err == nil && (stat.IsDir() || stat.Mode().IsRegular())
}

// progressReader reads through a progress bar proxy but seeks the underlying
// file, so the streaming path can reposition while every byte read is still
// counted.
type progressReader struct {
	io.Reader
	io.Seeker
}

// HashFile returns the record of the given regular file, either from the stat
// cache of st or by hashing the file. st may be nil to always hash.
func HashFile(st record.Store, fileName string, opts Options) (*record.File, error) {
	stat, err := os.Stat(fileName)
	if err != nil {
		return nil, err
	}
	if !stat.Mode().IsRegular() {
		return nil, errors.Errorf("%s: not a regular file", fileName)
	}
	return HashFileWithStat(st, fileName, stat, opts)
}

// HashFileWithStat is HashFile for callers that already have the stat info.
func HashFileWithStat(st record.Store, fileName string, stat os.FileInfo, opts Options) (*record.File, error) {
	flog := log.WithFields(logrus.Fields{"file": fileName, "mode": opts.Mode})

	if st != nil {
		if f, ok := cachedFile(st, fileName, stat, opts); ok {
			// Cache hit!
			flog.Debug("stat cache hit")
			if opts.Bar != nil {
				opts.Bar.Add64(stat.Size())
			}
			return st.PutFile(f), nil
		}
	}

	defer logTime("hashed", logrus.Fields{"file": fileName, "size": stat.Size()})()
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.ReadSeeker = f
	if opts.Bar != nil {
		src = &progressReader{Reader: opts.Bar.NewProxyReader(f), Seeker: f}
	}

	result := &record.File{Path: fileName, Size: stat.Size()}
	if result.SHA1, err = digestOf(src, stat.Size(), opts.Mode); err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	if opts.Git {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if result.GitSHA, err = hash.SumGitObject("blob", f, stat.Size()); err != nil {
			return nil, errors.Wrap(err, fileName)
		}
	}

	if st == nil {
		return result, nil
	}
	st.PutStatDigest(stat, result.SHA1)
	return st.PutFile(result), nil
}

// cachedFile builds a record from the stat cache. A git blob id can only be
// reused from a stored file with the same content.
func cachedFile(st record.Store, fileName string, stat os.FileInfo, opts Options) (*record.File, bool) {
	d, ok := st.GetStatDigest(stat)
	if !ok {
		return nil, false
	}
	f := &record.File{Path: fileName, Size: stat.Size(), SHA1: d}
	for _, known := range st.FindFiles(d) {
		if !known.GitSHA.IsZero() {
			f.GitSHA = known.GitSHA
			break
		}
	}
	if opts.Git && f.GitSHA.IsZero() {
		return nil, false
	}
	return f, true
}

// digestOf hashes exactly size bytes of src using the given mode.
func digestOf(src io.ReadSeeker, size int64, mode Mode) (hash.Digest, error) {
	switch mode {
	case ModeStream:
		return hash.SumStream(src, size)
	case ModeMemory:
		data := make([]byte, size)
		if _, err := io.ReadFull(src, data); err != nil {
			return hash.Digest{}, err
		}
		return hash.Sum(data), nil
	case ModeAsync:
		h := hash.NewSHA1Hasher()
		if _, err := io.CopyN(h, src, size); err != nil {
			h.Abort(err)
			return hash.Digest{}, err
		}
		if err := h.Close(); err != nil {
			return hash.Digest{}, err
		}
		return h.Digest(), h.Err()
	default:
		return hash.Digest{}, errors.Errorf("unknown mode %d", mode)
	}
}

// HashReader digests everything readable from r, which need not be seekable.
// ModeStream needs random access, so it falls back to ModeMemory here.
func HashReader(r io.Reader, mode Mode) (hash.Digest, error) {
	if mode == ModeAsync {
		tee, h := Passthrough(r)
		if _, err := io.Copy(io.Discard, tee); err != nil {
			return hash.Digest{}, err
		}
		return <-h.Done(), h.Err()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return hash.Digest{}, err
	}
	return hash.Sum(data), nil
}

// HashSelf returns the record of the running executable.
func HashSelf(st record.Store, opts Options) (*record.File, error) {
	fileName, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return HashFile(st, fileName, opts)
}
