// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
	"github.com/IBM/sha1print/scanner"
)

var findTable bool

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:                   "find [flags] <DIGEST|PREFIX|PATH>...",
	DisableFlagsInUseLine: true,
	Args:                  cobra.MinimumNArgs(1),
	Short:                 "Find remembered files by digest",
	Long: `Searches the digest cache for files whose SHA-1 matches a complete digest, a
hex prefix such as sha1:561fc183, or the contents of an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if st == nil {
			return errors.New("find needs the digest cache, remove --no-cache")
		}

		out := cmd.OutOrStdout()
		var found []*record.File
		for _, arg := range args {
			matches, err := findArg(st, arg)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "sha1print: %s: no matching files\n", arg)
				continue
			}
			found = append(found, matches...)
		}

		if findTable {
			printTable(out, found, false)
			return nil
		}
		for _, f := range found {
			fmt.Fprintln(out, f.Format(hexCase()))
		}
		return nil
	},
}

// findArg resolves arg as a full digest, then as an existing file or
// directory, and last as a digest prefix. A sha1: prefix always means a digest.
func findArg(st record.Store, arg string) ([]*record.File, error) {
	if d, err := hash.ParseDigest(arg); err == nil {
		if !st.Known(d) {
			return nil, nil
		}
		return st.FindFiles(d), nil
	}
	if !strings.HasPrefix(arg, "sha1:") && scanner.IsScannablePath(arg, nil) {
		return otherCopies(st, arg)
	}
	return scanner.FindMatchingFiles(st, arg)
}

// otherCopies returns the remembered files with the same contents as the
// files at path, leaving out the files at path themselves.
func otherCopies(st record.Store, path string) ([]*record.File, error) {
	hashed := scanner.HashPaths(st, []string{path}, scanner.Options{})
	queried := make(map[string]bool, len(hashed))
	for _, h := range hashed {
		if h.Err != nil {
			return nil, h.Err
		}
		queried[h.Path] = true
	}

	var others []*record.File
	for _, h := range hashed {
		for _, match := range st.FindFiles(h.File.SHA1) {
			if !queried[match.Path] {
				queried[match.Path] = true
				others = append(others, match)
			}
		}
	}
	return others, nil
}

func init() {
	findCmd.Flags().BoolVarP(&findTable, "table", "t", false, "print a table of sizes and digests")
	rootCmd.AddCommand(findCmd)
}
