// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package pagerank implements PageRank as a scatter-gather-apply kernel.
package pagerank

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/hoshizora/hoshizora"
	"github.com/viterin/vek/vek32"
)

// Graph is the graph type PageRank runs on: one rank per vertex and the rank
// share carried by every edge.
type Graph = hoshizora.Graph[float32, float32]

const (
	// DefaultDamping is the probability of following an edge.
	DefaultDamping = 0.85
	// DefaultEpsilon is the rank change below which a vertex is converged.
	DefaultEpsilon = 1e-7
	// DefaultTopK is the number of ranks rendered by Result.
	DefaultTopK = 10
)

// Kernel computes PageRank. Ranks start at 1/N. Rank held by vertices without
// outbound edges is not redistributed.
type Kernel struct {
	Damping float32
	Epsilon float32
	TopK    int
}

var _ hoshizora.Kernel[float32, float32] = Kernel{}
var _ hoshizora.Activator[float32] = Kernel{}

// New returns a kernel with the default parameters.
func New() Kernel {
	return Kernel{
		Damping: DefaultDamping,
		Epsilon: DefaultEpsilon,
		TopK:    DefaultTopK,
	}
}

// Init implements hoshizora.Kernel.
func (k Kernel) Init(_ hoshizora.ID, g *Graph) float32 {
	return 1 / float32(g.NumVertices)
}

// Scatter implements hoshizora.Kernel.
func (k Kernel) Scatter(src, _ hoshizora.ID, val float32, g *Graph) float32 {
	return val / float32(g.OutDegree(src))
}

// Gather implements hoshizora.Kernel.
func (k Kernel) Gather(_, _ hoshizora.ID, _, curr float32, _ *Graph) float32 {
	return curr
}

// Zero implements hoshizora.Kernel.
func (k Kernel) Zero(hoshizora.ID, *Graph) float32 {
	return 0
}

// Sum implements hoshizora.Kernel.
func (k Kernel) Sum(_, _ hoshizora.ID, acc, e float32, _ *Graph) float32 {
	return acc + e
}

// Apply implements hoshizora.Kernel.
func (k Kernel) Apply(_ hoshizora.ID, _, curr float32, g *Graph) float32 {
	return (1-k.Damping)/float32(g.NumVertices) + k.Damping*curr
}

// Active implements hoshizora.Activator.
func (k Kernel) Active(_ hoshizora.ID, prev, curr float32) bool {
	return math.Abs(float64(curr-prev)) > float64(k.Epsilon)
}

// Rank is the score of one vertex.
type Rank struct {
	ID    hoshizora.ID
	Score float32
}

// Top returns the k highest ranks, ordered by decreasing score and then by
// increasing id.
func Top(g *Graph, k int) []Rank {
	ranks := make([]Rank, 0, g.NumVertices)
	for v, score := range g.VData.All() {
		ranks = append(ranks, Rank{ID: hoshizora.ID(v), Score: score})
	}
	slices.SortFunc(ranks, func(a, b Rank) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ranks[:min(k, len(ranks))]
}

// Mass returns the sum of all ranks.
func Mass(g *Graph) float32 {
	var mass float32
	for p := 0; p < g.VData.NumShards(); p++ {
		if s := g.VData.Shard(p); len(s) > 0 {
			mass += vek32.Sum(s)
		}
	}
	return mass
}

// Result implements hoshizora.Kernel. It renders the top ranks as
// "id<TAB>score" lines followed by the total rank mass.
func (k Kernel) Result(g *Graph) []string {
	top := Top(g, k.TopK)
	lines := make([]string, 0, len(top)+1)
	for _, r := range top {
		lines = append(lines, fmt.Sprintf("%d\t%.6f", r.ID, r.Score))
	}
	return append(lines, fmt.Sprintf("mass\t%.6f", Mass(g)))
}
