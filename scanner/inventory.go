// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/IBM/sha1print/record"
)

// PathEntry is a regular file found by Walk, or a path that could not be
// resolved to one.
type PathEntry struct {
	Path string
	Stat os.FileInfo
	Err  error
}

// Hashed is the outcome of hashing one PathEntry.
type Hashed struct {
	Path string
	File *record.File
	Err  error
}

// Walk expands each of the given paths into the regular files beneath it, in
// lexical order, and calls fn for each of them. Paths that cannot be read are
// reported to fn with Err set instead of stopping the walk.
func Walk(paths []string, fn func(PathEntry)) {
	for _, root := range paths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				fn(PathEntry{Path: path, Err: err})
				return nil
			}
			// walk uses os.Lstat, which will confuse the hasher when it ends up hashing a large file
			// instead of a tiny symlink
			if info.Mode()&os.ModeSymlink != 0 {
				info, err = os.Stat(path)
				if err != nil {
					log.WithField("file", path).Debug("Could not stat symlink target")
					fn(PathEntry{Path: path, Err: err})
					return nil
				}
				if info.IsDir() {
					// following directory links risks cycles
					return nil
				}
			}
			if info.IsDir() {
				return nil
			}
			if !info.Mode().IsRegular() {
				log.WithField("file", path).Debug("Skipping irregular file")
				return nil
			}
			fn(PathEntry{Path: path, Stat: info})
			return nil
		})
		if err != nil {
			log.WithError(err).Warn("Error during search for hashable files")
		}
	}
}

// Collect returns every entry Walk reports for paths.
func Collect(paths []string) []PathEntry {
	var entries []PathEntry
	Walk(paths, func(e PathEntry) {
		entries = append(entries, e)
	})
	return entries
}

// newBar picks between counting bytes and counting files the way a user
// would want to see it: a small number of larger files is better shown in
// bytes. The returned byte bar is nil when counting files.
func newBar(out io.Writer, prefix string, files int, totalBytes int64) (bar *pb.ProgressBar, byteProgress *pb.ProgressBar) {
	if files == 0 {
		files = 1
	}
	if totalBytes/int64(files) > 10000 {
		bar = pb.New64(totalBytes).SetUnits(pb.U_BYTES)
		byteProgress = bar
	} else {
		bar = pb.New(files)
	}
	bar.Output = out
	bar.Prefix(prefix).Start()
	return bar, byteProgress
}

// HashPaths hashes every regular file under paths and returns one Hashed per
// entry, in the order Walk found them. Files are hashed by opts.Workers
// goroutines sharing st.
func HashPaths(st record.Store, paths []string, opts Options) []Hashed {
	entries := Collect(paths)
	results := make([]Hashed, len(entries))

	var totalBytes int64
	files := 0
	for _, e := range entries {
		if e.Err == nil {
			totalBytes += e.Stat.Size()
			files++
		}
	}
	log.WithFields(logrus.Fields{"files": files, "bytes": totalBytes}).Debug("Found files")
	defer logTime("hashed paths", logrus.Fields{"files": files, "workers": opts.workers()})()

	var bar *pb.ProgressBar
	if opts.Progress != nil && files > 0 {
		bar, opts.Bar = newBar(opts.Progress, "Files:", files, totalBytes)
		defer bar.Finish()
	}

	work := make(chan int, len(entries))
	for i := range entries {
		work <- i
	}
	close(work)

	wg := sync.WaitGroup{}
	for i := 0; i < opts.workers(); i++ {
		wg.Add(1)
		go hashWorker(st, entries, results, opts, bar, work, &wg)
	}
	wg.Wait()
	return results
}

func hashWorker(st record.Store, entries []PathEntry, results []Hashed, opts Options, bar *pb.ProgressBar, input <-chan int, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := range input {
		e := entries[i]
		results[i] = Hashed{Path: e.Path, Err: e.Err}
		if e.Err != nil {
			continue
		}
		results[i].File, results[i].Err = HashFileWithStat(st, e.Path, e.Stat, opts)
		if bar != nil && opts.Bar == nil {
			bar.Increment()
		}
	}
}
