// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/invariants"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

// ID identifies a vertex. Vertex ids are dense: a graph with N vertices uses
// the ids [0, N).
type ID = uint32

// Edge is a directed edge from Src to Dst.
type Edge struct {
	Src, Dst ID
}

// Direction selects the outbound or the inbound view of a graph.
type Direction uint8

const (
	// Outbound indexes edges by source vertex.
	Outbound Direction = iota
	// Inbound indexes edges by destination vertex.
	Inbound
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// CSR is one direction of a graph in compressed sparse row form, split into
// partitions of roughly equal edge counts.
type CSR struct {
	// Boundaries holds #partitions+1 vertex cut points; partition p owns the
	// vertices [Boundaries[p], Boundaries[p+1]).
	Boundaries []ID
	// Offsets maps a vertex to the global index of its first edge. Every
	// shard carries a cap entry: the end offset of its last vertex.
	Offsets Sharded[ID]
	// Degrees maps a vertex to its number of edges in this direction.
	Degrees Sharded[ID]
	// Indices holds the neighbor ids of all edges, grouped by vertex.
	Indices Sharded[ID]
	// Neighbors maps a vertex to its neighbor list, a subslice of Indices.
	Neighbors Sharded[[]ID]
}

func (c *CSR) release() {
	c.Offsets.Release()
	c.Degrees.Release()
	c.Indices.Release()
	c.Neighbors.Release()
}

// Graph is an immutable directed graph in partitioned CSR form, in both
// directions, plus mutable per-vertex data V and per-edge data E.
//
// Graphs are built by FromEdgeList or FromAdjacencyList.
type Graph[V, E any] struct {
	NumVertices ID
	NumEdges    ID

	Out CSR
	In  CSR

	// ForwardIndices maps every outbound edge slot to the inbound edge slot
	// holding the same logical edge. It is sharded like the outbound edges.
	ForwardIndices Sharded[ID]

	// VData and Active are indexed by vertex and sharded by the outbound
	// partitions. EData is indexed by inbound edge slot and sharded by the
	// outbound partition edge counts.
	VData  Sharded[V]
	EData  Sharded[E]
	Active Sharded[bool]

	opts   *Options
	runner parallel.Runner
	stages stage
	// sharesStructure is set on forks, which do not own the CSR arrays.
	sharesStructure bool
	staging         [2]staging
	closeCheck      invariants.CloseChecker
}

// staging holds the unpartitioned offsets (#vertices+1 entries) and indices
// of one direction until they are copied into their partitions.
type staging struct {
	offsets []ID
	indices []ID
}

// stage is a set of completed construction stages.
type stage uint16

const (
	stageOutBoundaries stage = 1 << iota
	stageOutOffsets
	stageOutDegrees
	stageOutIndices
	stageOutNeighbors
	stageInBoundaries
	stageInOffsets
	stageInDegrees
	stageInIndices
	stageInNeighbors
	stageForwardIndices
	stageVertexData
	stageEdgeData

	stageAll = stageEdgeData<<1 - 1
)

var stageNames = []string{
	"out-boundaries", "out-offsets", "out-degrees", "out-indices", "out-neighbors",
	"in-boundaries", "in-offsets", "in-degrees", "in-indices", "in-neighbors",
	"forward-indices", "vertex-data", "edge-data",
}

// String implements fmt.Stringer.
func (s stage) String() string {
	var names []string
	for s != 0 {
		i := bits.TrailingZeros16(uint16(s))
		names = append(names, stageNames[i])
		s &^= 1 << i
	}
	return strings.Join(names, ",")
}

// forDirection returns the stage s refers to in direction dir. Stages are
// declared for the outbound direction.
func (s stage) forDirection(dir Direction) stage {
	if dir == Inbound {
		return s << 5
	}
	return s
}

func (g *Graph[V, E]) require(op string, s stage) {
	if missing := s &^ g.stages; missing != 0 {
		panic(errors.AssertionFailedf("%s: missing construction stages %s", op, missing))
	}
}

func (g *Graph[V, E]) complete(s stage) {
	g.stages |= s
}

// CSR returns the given direction of the graph.
func (g *Graph[V, E]) CSR(dir Direction) *CSR {
	if dir == Inbound {
		return &g.In
	}
	return &g.Out
}

// Partitions returns the partitions of the given direction.
func (g *Graph[V, E]) Partitions(dir Direction) []Partition {
	return g.runner.Partitions(g.CSR(dir).Boundaries)
}

// OutDegree returns the number of outbound edges of v.
func (g *Graph[V, E]) OutDegree(v ID) ID {
	return g.Out.Degrees.At(int(v))
}

// InDegree returns the number of inbound edges of v.
func (g *Graph[V, E]) InDegree(v ID) ID {
	return g.In.Degrees.At(int(v))
}

// OutOffset returns the global index of the first outbound edge of v.
func (g *Graph[V, E]) OutOffset(v ID) ID {
	return g.Out.Offsets.At(int(v))
}

// InOffset returns the global index of the first inbound edge of v, which is
// the slot of its first inbound edge in EData.
func (g *Graph[V, E]) InOffset(v ID) ID {
	return g.In.Offsets.At(int(v))
}

// OutNeighbors returns the destinations of the outbound edges of v.
func (g *Graph[V, E]) OutNeighbors(v ID) []ID {
	return g.Out.Neighbors.At(int(v))
}

// InNeighbors returns the sources of the inbound edges of v, in increasing
// order.
func (g *Graph[V, E]) InNeighbors(v ID) []ID {
	return g.In.Neighbors.At(int(v))
}

// Next swaps the vertex data, edge data and active flags of two graphs that
// share their structure. Dispatchers call it between rounds so that the
// values computed in a round become the inputs of the next.
func Next[V, E any](prev, curr *Graph[V, E]) {
	if prev.NumVertices != curr.NumVertices || prev.NumEdges != curr.NumEdges {
		panic(errors.AssertionFailedf("next: graphs do not share structure"))
	}
	prev.VData, curr.VData = curr.VData, prev.VData
	prev.EData, curr.EData = curr.EData, prev.EData
	prev.Active, curr.Active = curr.Active, prev.Active
}

// Fork returns a graph sharing g's structure with freshly allocated vertex
// data, edge data and active flags. Releasing the fork releases only its own
// data.
func (g *Graph[V, E]) Fork() *Graph[V, E] {
	g.closeCheck.AssertNotClosed()
	g.require("fork", stageAll)
	f := &Graph[V, E]{
		NumVertices:     g.NumVertices,
		NumEdges:        g.NumEdges,
		Out:             g.Out,
		In:              g.In,
		ForwardIndices:  g.ForwardIndices,
		opts:            g.opts,
		runner:          g.runner,
		stages:          g.stages &^ (stageVertexData | stageEdgeData),
		sharesStructure: true,
	}
	f.setVertexData()
	f.setEdgeData()
	return f
}

// ResetData releases the vertex data, edge data and active flags and
// allocates fresh, zeroed ones.
func (g *Graph[V, E]) ResetData() {
	g.closeCheck.AssertNotClosed()
	g.require("reset data", stageVertexData|stageEdgeData)
	g.releaseData()
	g.stages &^= stageVertexData | stageEdgeData
	g.setVertexData()
	g.setEdgeData()
}

func (g *Graph[V, E]) releaseData() {
	g.VData.Release()
	g.EData.Release()
	g.Active.Release()
}

// Release frees the memory of the graph. A fork releases only its data; the
// structure is freed by releasing the graph it was forked from. The graph
// must not be used afterwards.
func (g *Graph[V, E]) Release() {
	g.closeCheck.Close()
	g.releaseData()
	if !g.sharesStructure {
		g.Out.release()
		g.In.release()
		g.ForwardIndices.Release()
	}
	for i := range g.staging {
		g.freeStaging(Direction(i))
	}
}

func (g *Graph[V, E]) freeStaging(dir Direction) {
	s := &g.staging[dir]
	if s.offsets != nil {
		manual.Free(manual.Staging, 0, s.offsets)
	}
	if s.indices != nil {
		manual.Free(manual.Staging, 0, s.indices)
	}
	*s = staging{}
}
