// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	_ "expvar"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

// realMain runs the command line. Checksum lines, tables and --tee output are
// the only things written to stdout, so `sha1print hash dir > SHA1SUMS` gives
// a list `sha1print check` and sha1sum -c can read back. Logs, per-file errors,
// check warnings and progress bars all go to stderr.
func realMain() error {
	logrus.SetOutput(os.Stderr)

	// SHA1PRINT_PROFILE serves pprof and expvar on localhost:8910 while the
	// command runs and writes a CPU profile when it exits.
	if os.Getenv("SHA1PRINT_PROFILE") != "" {
		runtime.SetBlockProfileRate(100)
		go http.ListenAndServe("localhost:8910", nil)
		defer profile.Start(profile.Quiet).Stop()
	}
	return Execute()
}

// Execute has already reported the error, main only sets the exit status once
// the deferred profile has been written.
func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
