// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/hoshizora/hoshizora"
	"github.com/hoshizora/hoshizora/app/pagerank"
	"github.com/hoshizora/hoshizora/edgelist"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var pagerankConfig struct {
	maxRounds int
	damping   float32
	epsilon   float32
	top       int
	plot      bool
}

var pagerankCmd = &cobra.Command{
	Use:   "pagerank <edge-list>",
	Short: "run PageRank over an edge list",
	Long: `
Load the edge list, build the graph and run PageRank until the ranks converge
or the round limit is reached. The edge list format and compression are
derived from the file name (see "convert").
`,
	Args: cobra.ExactArgs(1),
	RunE: runPagerank,
}

func runPagerank(cmd *cobra.Command, args []string) error {
	edges, err := edgelist.ReadFile(args[0])
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return fmt.Errorf("%s: no edges", args[0])
	}
	g := hoshizora.FromEdgeList[float32, float32](edges, options())
	defer g.Release()

	k := pagerank.New()
	k.Damping = pagerankConfig.damping
	k.Epsilon = pagerankConfig.epsilon
	k.TopK = pagerankConfig.top

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	d := hoshizora.NewDispatcher(k, g, hoshizora.DispatchOptions{MaxRounds: pagerankConfig.maxRounds})
	res, err := d.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range res.Lines {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)

	h := res.RoundLatency
	micros := func(v int64) string { return (time.Duration(v) * time.Microsecond).String() }
	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Rounds", "Active", "p50", "p99", "Max"})
	active := 0
	if len(res.Active) > 0 {
		active = res.Active[len(res.Active)-1]
	}
	tbl.Append([]string{
		fmt.Sprint(res.Rounds),
		humanCount(active),
		micros(h.ValueAtQuantile(50)),
		micros(h.ValueAtQuantile(99)),
		micros(h.Max()),
	})
	tbl.Render()

	if pagerankConfig.plot && len(res.Active) > 1 {
		series := make([]float64, len(res.Active))
		for i, n := range res.Active {
			series[i] = float64(n)
		}
		fmt.Fprintln(out, asciigraph.Plot(series,
			asciigraph.Height(10), asciigraph.Caption("active vertices per round")))
	}
	printMemory(out)
	return nil
}
