// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/record"
	"github.com/IBM/sha1print/scanner"
)

type checkOptions struct {
	scanOptions
	quiet bool
}

var checkOpts checkOptions

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] [FILE...]",
	Short: "Verify files against checksum lists",
	Long: `Each FILE is a list of checksums as written by sha1sum or by the hash
command, optionally compressed with xz, lzma, gzip, bzip2 or snappy. Every
listed file is hashed and compared. With no FILE, or when FILE is -, the list
is read from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"-"}
		}
		st, err := openStore()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var results []scanner.Result
		for _, list := range args {
			sums, err := readList(cmd, list)
			if err != nil {
				cmd.SilenceUsage = true
				return errors.Wrap(err, list)
			}
			results = append(results, scanner.Verify(st, sums, checkOpts.options(cmd))...)
		}

		for _, r := range results {
			switch {
			case r.Err != nil:
				reportFailure(cmd, r.Path, r.Err)
				fmt.Fprintf(out, "%s: FAILED open or read\n", r.Path)
			case !r.OK:
				fmt.Fprintf(out, "%s: FAILED\n", r.Path)
			case !checkOpts.quiet:
				fmt.Fprintf(out, "%s: OK\n", r.Path)
			}
		}

		mismatched, unreadable := scanner.Failures(results)
		if unreadable > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "sha1print: WARNING: %d listed %s could not be read\n", unreadable, plural(unreadable, "file", "files"))
		}
		if mismatched > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "sha1print: WARNING: %d computed %s did NOT match\n", mismatched, plural(mismatched, "checksum", "checksums"))
		}
		if mismatched+unreadable > 0 {
			cmd.SilenceUsage = true
			return errors.Errorf("%d of %d files failed verification", mismatched+unreadable, len(results))
		}
		return nil
	},
}

func readList(cmd *cobra.Command, name string) ([]record.Checksum, error) {
	var r io.Reader
	if name == "-" {
		r = cmd.InOrStdin()
	} else {
		rc, err := scanner.OpenDecompressed(name)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		r = rc
	}
	return record.ReadChecksums(r)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	checkOpts.register(checkCmd)
	checkCmd.Flags().BoolVarP(&checkOpts.quiet, "quiet", "q", false, "don't print OK for each successfully verified file")
	rootCmd.AddCommand(checkCmd)
}
