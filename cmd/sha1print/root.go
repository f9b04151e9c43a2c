// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
	"github.com/IBM/sha1print/scanner"
	"github.com/IBM/sha1print/store"
)

const defaultCachePath = "sha1print.yaml"

type config struct {
	verbose   bool
	upper     bool
	cachePath string
	noCache   bool
	progress  bool
}

var cfg config

// st is opened on first use by openStore and persisted by Execute
var st record.Store

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sha1print",
	Short: "SHA-1 digests of files, streams and strings",
	Long: `The sha1print utility computes SHA-1 digests. Files are streamed a block at
a time so their size does not matter, and the output is compatible with
sha1sum. Digests of files are remembered in a cache keyed on the stat info of
each file, so unchanged files are not read again.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logrus.InfoLevel
		if cfg.verbose {
			level = logrus.DebugLevel
		}
		logrus.SetLevel(level)
		hash.SetLogLevel(level)
		scanner.SetLogLevel(level)
		store.SetLogLevel(level)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug information to stderr")
	flags.BoolVarP(&cfg.upper, "upper", "U", false, "print digests in upper case hex")
	flags.StringVar(&cfg.cachePath, "cache", "", "digest cache file, a .gob suffix selects the compressed binary format (default $SHA1PRINT_CACHE or "+defaultCachePath+")")
	flags.BoolVar(&cfg.noCache, "no-cache", false, "neither read nor write the digest cache")
	flags.BoolVar(&cfg.progress, "progress", false, "draw progress bars on stderr")
}

func hexCase() hash.Case {
	if cfg.upper {
		return hash.Upper
	}
	return hash.Lower
}

func cachePath() string {
	if cfg.cachePath != "" {
		return cfg.cachePath
	}
	if env := os.Getenv("SHA1PRINT_CACHE"); env != "" {
		return env
	}
	return defaultCachePath
}

// openStore returns the digest cache, or nil when caching is disabled.
func openStore() (record.Store, error) {
	if cfg.noCache {
		return nil, nil
	}
	if st == nil {
		var err error
		if st, err = store.Open(cachePath()); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func persistStore() error {
	if st == nil {
		return nil
	}
	return st.PersistRememberedObjects()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if perr := persistStore(); perr != nil {
		logrus.WithError(perr).Warn("Failed to persist digest cache")
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "sha1print:", err)
		return err
	}
	return nil
}
