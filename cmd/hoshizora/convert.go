// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"

	"github.com/hoshizora/hoshizora/edgelist"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "convert an edge list between formats",
	Long: `
Read the edge list at <src> and write it to <dst>. The format of each file is
taken from its name: a trailing .gz, .zst, .sz or .mz selects gzip, zstd,
snappy or minlz compression, and a remaining .hszr suffix selects the binary
format. Any other name is read and written as text.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		edges, err := edgelist.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := edgelist.WriteFile(args[1], edges); err != nil {
			return err
		}
		format, c := edgelist.ParsePath(args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s edges to %s (%s, %s)\n",
			humanCount(len(edges)), args[1], format, c)
		return nil
	},
}
