// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/hoshizora/hoshizora/internal/testutils"
	"github.com/stretchr/testify/require"
)

func testOptions(t testing.TB, partitions int) *Options {
	return (&Options{
		NumPartitions: partitions,
		NumDomains:    2,
		Logger:        testutils.Logger{T: t},
	}).EnsureDefaults()
}

func parseEdges(t testing.TB, input string) []Edge {
	var edges []Edge
	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, "malformed edge %q", line)
		edges = append(edges, Edge{Src: parseID(t, fields[0]), Dst: parseID(t, fields[1])})
	}
	return edges
}

func parseAdjacency(t testing.TB, input string) [][]ID {
	var adj [][]ID
	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		v, nbrs, ok := strings.Cut(line, ":")
		require.True(t, ok, "malformed adjacency list %q", line)
		require.Equal(t, len(adj), int(parseID(t, v)))
		list := []ID{}
		for _, f := range strings.Fields(nbrs) {
			list = append(list, parseID(t, f))
		}
		adj = append(adj, list)
	}
	return adj
}

func parseID(t testing.TB, s string) ID {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	require.NoError(t, err)
	return ID(v)
}

func formatIDs(ids []ID) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range ids {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}

func collect[T any](s *Sharded[T]) []T {
	var res []T
	for _, v := range s.All() {
		res = append(res, v)
	}
	return res
}

func describeGraph[V, E any](g *Graph[V, E]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "vertices=%d edges=%d\n", g.NumVertices, g.NumEdges)
	for _, dir := range []Direction{Outbound, Inbound} {
		c := g.CSR(dir)
		fmt.Fprintf(&b, "%s:\n", map[Direction]string{Outbound: "out", Inbound: "in"}[dir])
		fmt.Fprintf(&b, "  boundaries=%s\n", formatIDs(c.Boundaries))
		fmt.Fprintf(&b, "  degrees=%s\n", formatIDs(collect(&c.Degrees)))
		fmt.Fprintf(&b, "  offsets=%s\n", formatIDs(collect(&c.Offsets)))
		fmt.Fprintf(&b, "  neighbors:")
		for v, nbrs := range c.Neighbors.All() {
			fmt.Fprintf(&b, " %d:%s", v, formatIDs(nbrs))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "forward=%s\n", formatIDs(collect(&g.ForwardIndices)))
	return b.String()
}

func TestGraphDataDriven(t *testing.T) {
	datadriven.RunTest(t, "testdata/graph", func(t *testing.T, td *datadriven.TestData) string {
		var partitions int
		td.ScanArgs(t, "partitions", &partitions)
		opts := testOptions(t, partitions)

		var g *Graph[float32, float32]
		switch td.Cmd {
		case "build-edges":
			g = FromEdgeList[float32, float32](parseEdges(t, td.Input), opts)
		case "build-adjacency":
			g = FromAdjacencyList[float32, float32](parseAdjacency(t, td.Input), opts)
		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
		defer g.Release()
		require.NoError(t, g.CheckInvariants())
		return describeGraph(g)
	})
}
