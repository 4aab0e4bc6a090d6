// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import "github.com/cockroachdb/errors"

// CheckInvariants verifies the structural invariants of a built graph:
//   - offsets are non-decreasing within every partition, and every partition's
//     cap entry minus its first offset equals its edge count;
//   - the degrees of each direction sum to NumEdges;
//   - ForwardIndices is a permutation of [0, NumEdges), and the inbound slot
//     of every outbound edge belongs to its destination and holds its source.
//
// It runs in time linear in the size of the graph. Builds with the
// invariants tag call it after construction.
func (g *Graph[V, E]) CheckInvariants() error {
	g.require("check invariants", stageAll)
	for _, dir := range []Direction{Outbound, Inbound} {
		c := g.CSR(dir)
		var degrees uint64
		for p := 0; p < c.Offsets.NumShards(); p++ {
			n := len(c.Offsets.Shard(p))
			offsets := c.Offsets.ShardWithCap(p)
			for i := 0; i < n; i++ {
				if offsets[i+1] < offsets[i] {
					return errors.AssertionFailedf("%s partition %d: offsets decrease at vertex %d: %d > %d",
						dir, p, c.Offsets.Start(p)+i, offsets[i], offsets[i+1])
				}
			}
			if edges := len(c.Indices.Shard(p)); int(offsets[n]-offsets[0]) != edges {
				return errors.AssertionFailedf("%s partition %d: offsets span %d edges, indices hold %d",
					dir, p, offsets[n]-offsets[0], edges)
			}
		}
		for _, d := range c.Degrees.All() {
			degrees += uint64(d)
		}
		if degrees != uint64(g.NumEdges) {
			return errors.AssertionFailedf("%s degrees sum to %d, want %d", dir, degrees, g.NumEdges)
		}
	}

	seen := make([]bool, g.NumEdges)
	s := 0
	for src := ID(0); src < g.NumVertices; src++ {
		for _, dst := range g.OutNeighbors(src) {
			slot := g.ForwardIndices.At(s)
			s++
			if slot >= g.NumEdges || seen[slot] {
				return errors.AssertionFailedf("forward index %d of edge (%d, %d) is not a permutation entry", slot, src, dst)
			}
			seen[slot] = true
			if lo, hi := g.InOffset(dst), g.InOffset(dst)+g.InDegree(dst); slot < lo || slot >= hi {
				return errors.AssertionFailedf("forward index %d of edge (%d, %d) outside inbound range [%d, %d)",
					slot, src, dst, lo, hi)
			}
			if got := g.In.Indices.At(int(slot)); got != src {
				return errors.AssertionFailedf("forward index %d of edge (%d, %d) holds source %d", slot, src, dst, got)
			}
		}
	}
	return nil
}
