// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/scanner"
)

var sriOpts scanOptions

// sriCmd represents the sri command
var sriCmd = &cobra.Command{
	Use:   "sri <PATH...>",
	Args:  cobra.MinimumNArgs(1),
	Short: "Print Subresource Integrity strings",
	Long:  `Each named input is hashed and a sha1 Subresource Integrity string is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		results := scanner.HashPaths(st, args, sriOpts.options(cmd))
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				reportFailure(cmd, res.Path, res.Err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, res.File.SRI())
		}
		return failedFiles(cmd, failed, len(results))
	},
}

func init() {
	sriOpts.register(sriCmd)
	rootCmd.AddCommand(sriCmd)
}
