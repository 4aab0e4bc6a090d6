// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"cmp"
	"math"
	"slices"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/invariants"
	"github.com/hoshizora/hoshizora/internal/manual"
)

// FromEdgeList builds a graph from a list of directed edges. Duplicate edges
// and self-loops are kept. The number of vertices is one more than the
// largest vertex id.
//
// The edges are sorted in place by source, then destination; callers that need
// the original order must pass a copy. FromEdgeList panics if edges is empty.
func FromEdgeList[V, E any](edges []Edge, opts *Options) *Graph[V, E] {
	if len(edges) == 0 {
		panic(errors.AssertionFailedf("from edge list: no edges"))
	}
	if uint64(len(edges)) > math.MaxUint32 {
		panic(errors.AssertionFailedf("from edge list: %d edges overflow vertex ids", len(edges)))
	}
	opts = opts.EnsureDefaults()
	start := crtime.NowMono()

	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Src, b.Src); c != 0 {
			return c
		}
		return cmp.Compare(a.Dst, b.Dst)
	})
	var maxID ID
	for _, e := range edges {
		maxID = max(maxID, e.Src, e.Dst)
	}
	if maxID == math.MaxUint32 {
		panic(errors.AssertionFailedf("from edge list: vertex id %d out of range", maxID))
	}
	numVertices := maxID + 1
	numEdges := ID(len(edges))

	var out staging
	out.offsets = manual.New[ID](manual.Staging, 0, int(numVertices)+1)
	out.indices = manual.New[ID](manual.Staging, 0, int(numEdges))
	for i, e := range edges {
		out.offsets[e.Src+1]++
		out.indices[i] = e.Dst
	}
	prefixSum(out.offsets)

	return build[V, E](numVertices, numEdges, out, opts, start)
}

// FromAdjacencyList builds a graph from adjacency lists: adj[v] lists the
// destinations of the outbound edges of v, in the order they are kept. The
// number of vertices is len(adj). Duplicate edges are kept in both
// directions. FromAdjacencyList panics if adj is empty or names a vertex
// outside [0, len(adj)).
func FromAdjacencyList[V, E any](adj [][]ID, opts *Options) *Graph[V, E] {
	if len(adj) == 0 {
		panic(errors.AssertionFailedf("from adjacency list: no vertices"))
	}
	if uint64(len(adj)) >= math.MaxUint32 {
		panic(errors.AssertionFailedf("from adjacency list: %d vertices overflow vertex ids", len(adj)))
	}
	opts = opts.EnsureDefaults()
	start := crtime.NowMono()

	numVertices := ID(len(adj))
	var total int
	for _, nbrs := range adj {
		total += len(nbrs)
	}
	if uint64(total) > math.MaxUint32 {
		panic(errors.AssertionFailedf("from adjacency list: %d edges overflow vertex ids", total))
	}

	var out staging
	out.offsets = manual.New[ID](manual.Staging, 0, int(numVertices)+1)
	out.indices = manual.New[ID](manual.Staging, 0, total)
	var off ID
	for v, nbrs := range adj {
		out.offsets[v] = off
		for _, u := range nbrs {
			if u >= numVertices {
				panic(errors.AssertionFailedf("from adjacency list: vertex %d has neighbor %d outside [0, %d)", v, u, numVertices))
			}
		}
		copy(out.indices[off:], nbrs)
		off += ID(len(nbrs))
	}
	out.offsets[numVertices] = off

	return build[V, E](numVertices, ID(total), out, opts, start)
}

// prefixSum turns per-vertex counts stored at a[v+1] into offsets.
func prefixSum(a []ID) {
	for i := 1; i < len(a); i++ {
		a[i] += a[i-1]
	}
}

// invert derives the inbound staging arrays from the outbound ones. Sources
// are visited in increasing order, so every inbound list is sorted by source,
// duplicates included.
func invert(numVertices ID, out staging) staging {
	var in staging
	in.offsets = manual.New[ID](manual.Staging, 0, int(numVertices)+1)
	in.indices = manual.New[ID](manual.Staging, 0, len(out.indices))
	for _, dst := range out.indices {
		in.offsets[dst+1]++
	}
	prefixSum(in.offsets)

	cursor := manual.New[ID](manual.Staging, 0, int(numVertices))
	defer manual.Free(manual.Staging, 0, cursor)
	for src := ID(0); src < numVertices; src++ {
		for _, dst := range out.indices[out.offsets[src]:out.offsets[src+1]] {
			in.indices[in.offsets[dst]+cursor[dst]] = src
			cursor[dst]++
		}
	}
	return in
}

// build runs the construction pipeline over the outbound staging arrays.
func build[V, E any](
	numVertices, numEdges ID, out staging, opts *Options, start crtime.Mono,
) *Graph[V, E] {
	g := &Graph[V, E]{
		NumVertices: numVertices,
		NumEdges:    numEdges,
		opts:        opts,
		runner:      opts.runner(),
	}
	g.staging[Outbound] = out
	g.staging[Inbound] = invert(numVertices, out)
	staged := start.Elapsed()

	for _, dir := range []Direction{Outbound, Inbound} {
		g.setBoundaries(dir)
		g.setOffsets(dir)
		g.setDegrees(dir)
		g.setIndices(dir)
		g.setNeighbors(dir)
	}
	g.setForwardIndices()
	g.setVertexData()
	g.setEdgeData()
	g.require("build", stageAll)

	if invariants.Enabled {
		if err := g.CheckInvariants(); err != nil {
			panic(err)
		}
	}

	opts.Logger.Infof("built graph: %s vertices, %s edges, %d partitions, %d domains in %s (staging %s)",
		crhumanize.Count(g.NumVertices, crhumanize.Compact), crhumanize.Count(g.NumEdges, crhumanize.Compact),
		opts.NumPartitions, opts.NumDomains, start.Elapsed(), staged)
	return g
}
