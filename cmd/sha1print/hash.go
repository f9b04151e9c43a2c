// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
	"github.com/IBM/sha1print/scanner"
)

type hashOptions struct {
	scanOptions
	git        bool
	table      bool
	decompress bool
	tee        bool
}

var hashOpts hashOptions

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash [flags] [PATH...]",
	Short: "Print SHA-1 digests of files",
	Long: `Each named file, and every regular file beneath each named directory, is
hashed and printed in the same format as sha1sum. With no PATH, or when PATH
is -, standard input is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"-"}
		}
		if hashOpts.tee {
			if len(args) != 1 || args[0] != "-" {
				return errors.New("--tee only applies to standard input")
			}
			return teeStdin(cmd)
		}

		var files []*record.File
		failed, total := 0, 0
		for _, arg := range args {
			for _, res := range hashArg(cmd, arg) {
				total++
				if res.Err != nil {
					reportFailure(cmd, res.Path, res.Err)
					failed++
					continue
				}
				files = append(files, res.File)
			}
		}

		out := cmd.OutOrStdout()
		if hashOpts.table {
			printTable(out, files, hashOpts.git)
		} else {
			for _, f := range files {
				d := f.SHA1
				if hashOpts.git {
					d = f.GitSHA
				}
				fmt.Fprintln(out, record.Checksum{Digest: d, Path: f.Path}.Format(hexCase()))
			}
		}
		return failedFiles(cmd, failed, total)
	},
}

func hashArg(cmd *cobra.Command, arg string) []scanner.Hashed {
	if arg == "-" {
		f, err := hashReader("-", cmd.InOrStdin())
		return []scanner.Hashed{{Path: arg, File: f, Err: err}}
	}

	if !hashOpts.decompress {
		st, err := openStore()
		if err != nil {
			return []scanner.Hashed{{Path: arg, Err: err}}
		}
		opts := hashOpts.options(cmd)
		opts.Git = hashOpts.git
		return scanner.HashPaths(st, []string{arg}, opts)
	}

	// decompressed contents have no stat info to cache against
	var results []scanner.Hashed
	scanner.Walk([]string{arg}, func(e scanner.PathEntry) {
		res := scanner.Hashed{Path: e.Path, Err: e.Err}
		if e.Err == nil {
			res.File, res.Err = hashDecompressed(e.Path)
		}
		results = append(results, res)
	})
	return results
}

func hashDecompressed(path string) (*record.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hashReader(path, f)
}

// hashReader digests a stream. The git blob header needs the size up front,
// so --git reads the whole stream into memory.
func hashReader(name string, r io.Reader) (*record.File, error) {
	var err error
	if hashOpts.decompress {
		if r, err = scanner.DecompressSniffed(r); err != nil {
			return nil, err
		}
	}

	f := &record.File{Path: name}
	if hashOpts.git {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		f.Size = int64(len(data))
		f.SHA1 = hash.Sum(data)
		f.GitSHA = hash.GitBlobSum(data)
		return f, nil
	}

	counter := &countingReader{r: r}
	if f.SHA1, err = scanner.HashReader(counter, hashOpts.mode); err != nil {
		return nil, err
	}
	f.Size = counter.n
	return f, nil
}

// teeStdin copies standard input to standard output, so the digest is
// printed on stderr instead.
func teeStdin(cmd *cobra.Command) error {
	tee, h := scanner.Passthrough(cmd.InOrStdin())
	if _, err := io.Copy(cmd.OutOrStdout(), tee); err != nil {
		return err
	}
	d := h.Digest()
	if err := h.Err(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), record.Checksum{Digest: d, Path: "-"}.Format(hexCase()))
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func init() {
	hashOpts.register(hashCmd)
	flags := hashCmd.Flags()
	flags.BoolVar(&hashOpts.git, "git", false, "print the git blob id instead of the SHA-1, like git hash-object")
	flags.BoolVarP(&hashOpts.table, "table", "t", false, "print a table of sizes and digests")
	flags.BoolVarP(&hashOpts.decompress, "decompress", "d", false, "hash the decompressed contents of xz, gzip, bzip2 and snappy input")
	flags.BoolVar(&hashOpts.tee, "tee", false, "copy standard input to standard output and print its digest on stderr")
	rootCmd.AddCommand(hashCmd)
}
