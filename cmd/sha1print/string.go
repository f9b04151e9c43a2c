// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBM/sha1print/hash"
)

// stringCmd represents the string command
var stringCmd = &cobra.Command{
	Use:   "string <TEXT...>",
	Args:  cobra.MinimumNArgs(1),
	Short: "Print SHA-1 digests of literal text",
	Long: `Each argument is hashed exactly as given, without a trailing newline, and
printed with its digest.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, text := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %q\n", hash.SumString(text).Hex(hexCase()), text)
		}
	},
}

func init() {
	rootCmd.AddCommand(stringCmd)
}
