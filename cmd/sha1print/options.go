// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/markkurossi/tabulate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/record"
	"github.com/IBM/sha1print/scanner"
)

// scanOptions holds the flags shared by the commands that read files.
type scanOptions struct {
	mode    scanner.Mode
	workers int
}

func (o *scanOptions) register(cmd *cobra.Command) {
	cmd.Flags().VarP(&o.mode, "mode", "m", "how files are read: stream, memory or async")
	cmd.Flags().IntVarP(&o.workers, "workers", "j", 1, "number of files hashed concurrently")
}

func (o *scanOptions) options(cmd *cobra.Command) scanner.Options {
	opts := scanner.Options{Mode: o.mode, Workers: o.workers}
	if cfg.progress {
		opts.Progress = cmd.ErrOrStderr()
	}
	return opts
}

// reportFailure prints a per-file error the way coreutils does and keeps going.
func reportFailure(cmd *cobra.Command, path string, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "sha1print: %s: %v\n", path, err)
}

// failedFiles is returned when some inputs could not be read. The usage text is
// not printed for it since the command line itself was fine.
func failedFiles(cmd *cobra.Command, failed, total int) error {
	if failed == 0 {
		return nil
	}
	cmd.SilenceUsage = true
	return errors.Errorf("%d of %d files could not be read", failed, total)
}

// printTable renders files with their size and digests.
func printTable(w io.Writer, files []*record.File, withGit bool) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Path").SetAlign(tabulate.ML)
	tab.Header("Size").SetAlign(tabulate.MR)
	tab.Header("SHA-1").SetAlign(tabulate.ML)
	if withGit {
		tab.Header("Git").SetAlign(tabulate.ML)
	}
	var total int64
	for _, f := range files {
		row := tab.Row()
		row.Column(f.Path)
		row.Column(strconv.FormatInt(f.Size, 10))
		row.Column(f.SHA1.Hex(hexCase()))
		if withGit {
			row.Column(f.GitSHA.Hex(hexCase()))
		}
		total += f.Size
	}
	if len(files) > 1 {
		row := tab.Row()
		row.Column("Total").SetFormat(tabulate.FmtBold)
		row.Column(strconv.FormatInt(total, 10)).SetFormat(tabulate.FmtBold)
	}
	tab.Print(w)
}
