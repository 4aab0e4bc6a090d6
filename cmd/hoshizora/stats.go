// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/hoshizora/hoshizora"
	"github.com/hoshizora/hoshizora/edgelist"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsConfig struct {
	compress bool
}

var statsCmd = &cobra.Command{
	Use:   "stats <edge-list>",
	Short: "print the structure of a graph",
	Long: `
Build the graph and print its size, the partitioning of both edge directions
and, with --compress, the size of the delta-packed adjacency lists.
`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	edges, err := edgelist.ReadFile(args[0])
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return fmt.Errorf("%s: no edges", args[0])
	}
	g := hoshizora.FromEdgeList[uint8, uint8](edges, options())
	defer g.Release()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vertices: %s\nedges:    %s\n\n", humanCount(int(g.NumVertices)), humanCount(int(g.NumEdges)))

	for _, dir := range []hoshizora.Direction{hoshizora.Outbound, hoshizora.Inbound} {
		printPartitions(out, g, dir)
		if statsConfig.compress {
			if err := printCompressed(out, g, dir); err != nil {
				return err
			}
		}
	}
	printMemory(out)
	return nil
}

func printPartitions(w io.Writer, g *hoshizora.Graph[uint8, uint8], dir hoshizora.Direction) {
	csr := g.CSR(dir)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{dir.String(), "Vertices", "Edges", "Max degree"})
	for _, p := range g.Partitions(dir) {
		degrees := csr.Degrees.Shard(p.ID)
		var edges, maxDegree hoshizora.ID
		for _, d := range degrees {
			edges += d
			maxDegree = max(maxDegree, d)
		}
		tbl.Append([]string{
			fmt.Sprintf("%d [%d,%d)", p.ID, p.Lower, p.Upper),
			humanCount(len(degrees)),
			humanCount(int(edges)),
			fmt.Sprint(maxDegree),
		})
	}
	tbl.Render()
}

func printCompressed(w io.Writer, g *hoshizora.Graph[uint8, uint8], dir hoshizora.Direction) error {
	ca, err := g.Compress(dir)
	if err != nil {
		return err
	}
	defer ca.Release()
	raw := 4 * uint64(g.NumEdges)
	fmt.Fprintf(w, "%s compressed: %s of %s (%.2fx)\n\n", dir,
		humanBytes(uint64(ca.SizeBytes())), humanBytes(raw),
		float64(raw)/float64(max(ca.SizeBytes(), 1)))
	return nil
}
