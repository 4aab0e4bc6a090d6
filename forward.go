// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
// Modifications copyright 2026 The Hoshizora Authors.

package hoshizora

import (
	"github.com/cockroachdb/swiss"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

func fibonacciHash(k *ID, seed uintptr) uintptr {
	const m = 11400714819323198485
	h := uint64(seed)
	h ^= uint64(*k) * m
	return uintptr(h)
}

// dstCountsAllocator places the groups of a partition's destination map on
// the partition's memory domain.
type dstCountsAllocator struct {
	domain int
}

func (a dstCountsAllocator) Alloc(n int) []swiss.Group[ID, ID] {
	return manual.New[swiss.Group[ID, ID]](manual.Staging, a.domain, n)
}

func (a dstCountsAllocator) Free(v []swiss.Group[ID, ID]) {
	manual.Free(manual.Staging, a.domain, v)
}

// dstCounts counts the edges of one outbound partition per destination, and
// later holds the partition's running cursor per destination.
type dstCounts struct {
	swiss.Map[ID, ID]
	// order lists the destinations in first-touch order.
	order []ID
}

func (c *dstCounts) init(domain, capacity int) {
	c.Map.Init(capacity,
		swiss.WithHash[ID, ID](fibonacciHash),
		swiss.WithAllocator[ID, ID](dstCountsAllocator{domain: domain}))
}

func (c *dstCounts) close() {
	c.Map.Close()
	c.order = nil
}

// setForwardIndices computes, for every outbound edge slot s with source src
// and destination dst, the inbound slot of the same logical edge:
//
//	forward[s] = inOffset(dst) + (number of edges into dst visited before s)
//
// where edges are visited partition by partition, sources in increasing
// order, neighbors in list order. That is exactly the order of the inbound
// lists, which are sorted by source.
//
// The computation avoids sharing counters between partition workers:
//
//  1. Every partition counts its edges per destination.
//  2. Sequentially, in partition order, the counts are turned into the
//     partition's starting cursor per destination using a dense running count
//     per destination.
//  3. Every partition walks its edges again, writing the forward indices of
//     its own shard and advancing its own cursors.
func (g *Graph[V, E]) setForwardIndices() {
	g.require("forward indices", stageOutBoundaries|stageOutOffsets|stageOutDegrees|
		stageOutIndices|stageOutNeighbors|stageInOffsets)
	parts := g.runner.Partitions(g.Out.Boundaries)
	counts := make([]dstCounts, len(parts))

	g.runner.ForEach(g.Out.Boundaries, func(p parallel.Partition) {
		c := &counts[p.ID]
		indices := g.Out.Indices.Shard(p.ID)
		c.init(p.Domain, min(len(indices), int(g.NumVertices)))
		for _, dst := range indices {
			n, ok := c.Get(dst)
			if !ok {
				c.order = append(c.order, dst)
			}
			c.Put(dst, n+1)
		}
	})

	running := manual.New[ID](manual.Staging, 0, int(g.NumVertices))
	for i := range counts {
		c := &counts[i]
		for _, dst := range c.order {
			n, _ := c.Get(dst)
			c.Put(dst, running[dst])
			running[dst] += n
		}
	}
	manual.Free(manual.Staging, 0, running)

	g.ForwardIndices = makeSharded[ID](manual.ForwardIndices, len(parts))
	g.runner.ForEach(g.Out.Boundaries, func(p parallel.Partition) {
		c := &counts[p.ID]
		neighbors := g.Out.Neighbors.Shard(p.ID)
		buf := manual.New[ID](manual.ForwardIndices, p.Domain, len(g.Out.Indices.Shard(p.ID)))
		s := 0
		for _, nbrs := range neighbors {
			for _, dst := range nbrs {
				cursor, _ := c.Get(dst)
				buf[s] = g.In.Offsets.At(int(dst)) + cursor
				c.Put(dst, cursor+1)
				s++
			}
		}
		c.close()
		g.ForwardIndices.set(p, buf, len(buf))
	})
	g.ForwardIndices.seal()
	g.complete(stageForwardIndices)
}
