// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

// The construction stages below run in a fixed order; each one asserts that
// its predecessors have completed. Per-partition work runs on the partition's
// worker, which allocates the partition's shards on its memory domain.

// setBoundaries splits the vertices of one direction into partitions holding
// roughly NumEdges/NumPartitions edges each. Boundary t is the first vertex
// whose offset reaches t edge chunks.
func (g *Graph[V, E]) setBoundaries(dir Direction) {
	if g.stages&stageOutOffsets.forDirection(dir) != 0 {
		panic(errors.AssertionFailedf("%s boundaries: offsets already partitioned", dir))
	}
	offsets := g.staging[dir].offsets
	numPartitions := g.opts.NumPartitions
	chunk := g.NumEdges / ID(numPartitions)

	b := make([]ID, numPartitions+1)
	for t := 1; t < numPartitions; t++ {
		i, _ := slices.BinarySearch(offsets[:g.NumVertices], chunk*ID(t))
		b[t] = ID(i)
	}
	b[numPartitions] = g.NumVertices
	g.CSR(dir).Boundaries = b
	g.complete(stageOutBoundaries.forDirection(dir))
}

// setOffsets copies every partition's offsets, including the cap entry, into
// its shard and frees the staging offsets.
func (g *Graph[V, E]) setOffsets(dir Direction) {
	g.require(dir.String()+" offsets", stageOutBoundaries.forDirection(dir))
	c := g.CSR(dir)
	offsets := g.staging[dir].offsets

	c.Offsets = makeSharded[ID](manual.Offsets, g.opts.NumPartitions)
	g.runner.ForEach(c.Boundaries, func(p parallel.Partition) {
		n := p.Len()
		buf := manual.New[ID](manual.Offsets, p.Domain, n+1)
		copy(buf, offsets[p.Lower:p.Upper+1])
		c.Offsets.set(p, buf, n)
	})
	c.Offsets.seal()

	manual.Free(manual.Staging, 0, g.staging[dir].offsets)
	g.staging[dir].offsets = nil
	g.complete(stageOutOffsets.forDirection(dir))
}

// setDegrees derives every vertex's degree from consecutive offsets.
func (g *Graph[V, E]) setDegrees(dir Direction) {
	g.require(dir.String()+" degrees", (stageOutBoundaries | stageOutOffsets).forDirection(dir))
	c := g.CSR(dir)

	c.Degrees = makeSharded[ID](manual.Degrees, g.opts.NumPartitions)
	g.runner.ForEach(c.Boundaries, func(p parallel.Partition) {
		n := p.Len()
		offsets := c.Offsets.ShardWithCap(p.ID)
		buf := manual.New[ID](manual.Degrees, p.Domain, n)
		for i := range buf {
			buf[i] = offsets[i+1] - offsets[i]
		}
		c.Degrees.set(p, buf, n)
	})
	c.Degrees.seal()
	g.complete(stageOutDegrees.forDirection(dir))
}

// setIndices copies every partition's slice of the staging indices into its
// shard and frees the staging indices.
func (g *Graph[V, E]) setIndices(dir Direction) {
	g.require(dir.String()+" indices", (stageOutBoundaries | stageOutOffsets).forDirection(dir))
	c := g.CSR(dir)
	indices := g.staging[dir].indices

	c.Indices = makeSharded[ID](manual.Indices, g.opts.NumPartitions)
	g.runner.ForEach(c.Boundaries, func(p parallel.Partition) {
		offsets := c.Offsets.ShardWithCap(p.ID)
		start, end := offsets[0], offsets[p.Len()]
		buf := manual.New[ID](manual.Indices, p.Domain, int(end-start))
		copy(buf, indices[start:end])
		c.Indices.set(p, buf, len(buf))
	})
	c.Indices.seal()

	manual.Free(manual.Staging, 0, g.staging[dir].indices)
	g.staging[dir].indices = nil
	g.complete(stageOutIndices.forDirection(dir))
}

// setNeighbors points every vertex at its neighbor list within its
// partition's indices.
func (g *Graph[V, E]) setNeighbors(dir Direction) {
	g.require(dir.String()+" neighbors", (stageOutOffsets | stageOutIndices).forDirection(dir))
	c := g.CSR(dir)

	c.Neighbors = makeSharded[[]ID](manual.Neighbors, g.opts.NumPartitions)
	g.runner.ForEach(c.Boundaries, func(p parallel.Partition) {
		n := p.Len()
		offsets := c.Offsets.ShardWithCap(p.ID)
		indices := c.Indices.Shard(p.ID)
		base := offsets[0]
		buf := manual.New[[]ID](manual.Neighbors, p.Domain, n)
		for i := range buf {
			lo, hi := offsets[i]-base, offsets[i+1]-base
			buf[i] = indices[lo:hi:hi]
		}
		c.Neighbors.set(p, buf, n)
	})
	c.Neighbors.seal()
	g.complete(stageOutNeighbors.forDirection(dir))
}

// setVertexData allocates the vertex data and active flags of every outbound
// partition. Vertices start active.
func (g *Graph[V, E]) setVertexData() {
	g.require("vertex data", stageOutBoundaries)
	g.VData = makeSharded[V](manual.VertexData, g.opts.NumPartitions)
	g.Active = makeSharded[bool](manual.ActiveFlags, g.opts.NumPartitions)
	g.runner.ForEach(g.Out.Boundaries, func(p parallel.Partition) {
		n := p.Len()
		g.VData.set(p, manual.New[V](manual.VertexData, p.Domain, n), n)
		active := manual.New[bool](manual.ActiveFlags, p.Domain, n)
		for i := range active {
			active[i] = true
		}
		g.Active.set(p, active, n)
	})
	g.VData.seal()
	g.Active.seal()
	g.complete(stageVertexData)
}

// setEdgeData allocates edge data sized to every outbound partition's edge
// count.
func (g *Graph[V, E]) setEdgeData() {
	g.require("edge data", stageOutBoundaries|stageOutOffsets)
	g.EData = makeSharded[E](manual.EdgeData, g.opts.NumPartitions)
	g.runner.ForEach(g.Out.Boundaries, func(p parallel.Partition) {
		offsets := g.Out.Offsets.ShardWithCap(p.ID)
		n := int(offsets[p.Len()] - offsets[0])
		g.EData.set(p, manual.New[E](manual.EdgeData, p.Domain, n), n)
	})
	g.EData.seal()
	g.complete(stageEdgeData)
}
