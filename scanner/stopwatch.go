// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"time"

	"github.com/sirupsen/logrus"
)

// logTime returns a function that will log the elapsed time since logTime was called.
// Example usage:
//   defer logTime("thing I am timing", fields)()
func logTime(name string, fields logrus.Fields) func() {
	start := time.Now()
	return func() {
		log.WithFields(fields).WithField("elapsed", time.Since(start).String()).Debug(name)
	}
}
