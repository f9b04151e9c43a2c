// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/scanner"
)

// selfCmd represents the self command
var selfCmd = &cobra.Command{
	Use:   "self",
	Args:  cobra.NoArgs,
	Short: "Print digests of the sha1print executable",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		f, err := scanner.HashSelf(st, scanner.Options{Git: true})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sha1:%s\n", f.SHA1.Hex(hexCase()))
		// Same output as git-hash-object would give
		fmt.Fprintf(out, "gitsha:%s\n", f.GitSHA.Hex(hexCase()))
		fmt.Fprintf(out, "sri:%s\n", f.SRI())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selfCmd)
}
