// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"sync"

	"github.com/sirupsen/logrus"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

// Result is the outcome of checking one entry of a checksum list.
type Result struct {
	record.Checksum
	Actual hash.Digest
	Err    error
	OK     bool
}

// Verify hashes the file named by each checksum and compares it against the
// listed digest. Paths are resolved relative to the working directory, the
// same way sha1sum does. Files are hashed by opts.Workers goroutines and the
// results are in the order of sums.
func Verify(st record.Store, sums []record.Checksum, opts Options) []Result {
	results := make([]Result, len(sums))
	defer logTime("verified", logrus.Fields{"files": len(sums), "workers": opts.workers()})()

	var bar *pb.ProgressBar
	if opts.Progress != nil && len(sums) > 0 {
		bar, _ = newBar(opts.Progress, "Checking:", len(sums), 0)
		defer bar.Finish()
	}

	work := make(chan int, len(sums))
	for i := range sums {
		work <- i
	}
	close(work)

	wg := sync.WaitGroup{}
	for i := 0; i < opts.workers(); i++ {
		wg.Add(1)
		go verifyWorker(st, sums, results, opts, bar, work, &wg)
	}
	wg.Wait()
	return results
}

func verifyWorker(st record.Store, sums []record.Checksum, results []Result, opts Options, bar *pb.ProgressBar, input <-chan int, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := range input {
		c := sums[i]
		r := Result{Checksum: c}
		f, err := HashFile(st, c.Path, opts)
		if err == nil {
			r.Actual = f.SHA1
		}
		r.Err = err
		r.OK = err == nil && r.Actual == c.Digest
		results[i] = r
		log.WithFields(logrus.Fields{"file": c.Path, "ok": r.OK}).Debug("verified")
		if bar != nil {
			bar.Increment()
		}
	}
}

// Failures counts the results that did not match, including unreadable files.
func Failures(results []Result) (mismatched, unreadable int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			unreadable++
		case !r.OK:
			mismatched++
		}
	}
	return mismatched, unreadable
}
