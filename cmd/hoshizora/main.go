// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/hoshizora/hoshizora"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var graphOpts struct {
	partitions int
	domains    int
	pin        bool
	verbose    bool
	memory     bool
}

var rootCmd = &cobra.Command{
	Use:   "hoshizora [command] (flags)",
	Short: "hoshizora graph processing tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		pagerankCmd,
		statsCmd,
		codecCmd,
		convertCmd,
	)

	for _, cmd := range []*cobra.Command{pagerankCmd, statsCmd} {
		cmd.Flags().IntVarP(
			&graphOpts.partitions, "partitions", "p", 0,
			"number of partitions per direction (0 means GOMAXPROCS)")
		cmd.Flags().IntVar(
			&graphOpts.domains, "domains", 0,
			"number of memory domains (0 means the number of NUMA nodes)")
		cmd.Flags().BoolVar(
			&graphOpts.pin, "pin", false, "pin partition workers to the CPUs of their domain")
		cmd.Flags().BoolVarP(
			&graphOpts.verbose, "verbose", "v", false, "enable verbose logging")
		cmd.Flags().BoolVar(
			&graphOpts.memory, "memory", false, "print memory usage by purpose and domain")
	}

	pagerankCmd.Flags().IntVar(
		&pagerankConfig.maxRounds, "max-rounds", 100, "maximum number of rounds")
	pagerankCmd.Flags().Float32Var(
		&pagerankConfig.damping, "damping", 0.85, "damping factor")
	pagerankCmd.Flags().Float32Var(
		&pagerankConfig.epsilon, "epsilon", 1e-7,
		"rank change below which a vertex is considered converged")
	pagerankCmd.Flags().IntVarP(
		&pagerankConfig.top, "top", "k", 10, "number of top ranked vertices to print")
	pagerankCmd.Flags().BoolVar(
		&pagerankConfig.plot, "plot", false, "plot the active vertices per round")

	statsCmd.Flags().BoolVar(
		&statsConfig.compress, "compress", false, "report the size of the compressed adjacency lists")

	codecCmd.Flags().IntVar(
		&codecConfig.random, "random", 0, "encode this many random sorted values instead of the arguments")
	codecCmd.Flags().Uint32Var(
		&codecConfig.maxDelta, "max-delta", 1000, "largest delta between random values")
	codecCmd.Flags().Int64Var(
		&codecConfig.seed, "seed", 1, "random seed")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}

func options() *hoshizora.Options {
	return &hoshizora.Options{
		NumPartitions: graphOpts.partitions,
		NumDomains:    graphOpts.domains,
		PinThreads:    graphOpts.pin,
		Verbose:       graphOpts.verbose,
	}
}

func printMemory(w io.Writer) {
	if !graphOpts.memory {
		return
	}
	m := manual.GetMetrics()
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Purpose", "In use", "Total"})
	for p := manual.Purpose(1); p < manual.NumPurposes; p++ {
		u := m.ByPurpose[p]
		if u.TotalBytes == 0 {
			continue
		}
		tbl.Append([]string{p.String(), humanBytes(u.InUseBytes), humanBytes(u.TotalBytes)})
	}
	tbl.Render()

	tbl = tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Domain", "In use", "Total"})
	for d, u := range m.ByDomain {
		if u.TotalBytes == 0 {
			continue
		}
		tbl.Append([]string{fmt.Sprint(d), humanBytes(u.InUseBytes), humanBytes(u.TotalBytes)})
	}
	tbl.Render()
}

func humanBytes(n uint64) string {
	return string(crhumanize.Bytes(n, crhumanize.Compact, crhumanize.OmitI))
}

func humanCount(n int) string {
	return string(crhumanize.Count(n, crhumanize.Compact))
}
