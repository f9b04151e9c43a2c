// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package store

import (
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var logger = logrus.New()
var log logrus.FieldLogger

func init() {
	log = logger.WithField("prefix", "store")
	logger.Formatter = new(prefixed.TextFormatter)
	logger.Level = logrus.InfoLevel
}

// SetLogLevel adjusts the verbosity of this package's logger.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// logTime returns a function that will log the elapsed time since logTime was called.
// Example usage:
//   defer logTime("thing I am timing")()
func logTime(name string) func() {
	start := time.Now()
	return func() {
		log.Debugf("%s: %s", name, time.Since(start))
	}
}
