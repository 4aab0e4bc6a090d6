// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

// Kernel is a vertex program in scatter-gather-apply form, run by a
// Dispatcher over a graph with vertex data V and edge data E.
//
// In every round each edge (src, dst) carries the value Scatter computes from
// the source's current vertex value, folded with the edge's previous value by
// Gather. Every destination then folds its inbound edge values with Sum,
// starting from Zero, and Apply turns the previous vertex value and the sum
// into the new vertex value. Gather and Sum must be associative, and ideally
// commutative: the order in which edges are folded is unspecified.
//
// The Dispatcher is generic over the concrete kernel type, so kernel calls
// are resolved when the dispatcher is instantiated rather than through an
// interface value.
type Kernel[V, E any] interface {
	// Init returns the initial value of vertex v.
	Init(v ID, g *Graph[V, E]) V
	// Scatter returns the value sent along the edge (src, dst).
	Scatter(src, dst ID, val V, g *Graph[V, E]) E
	// Gather combines the previous and the current value of an edge.
	Gather(src, dst ID, prev, curr E, g *Graph[V, E]) E
	// Zero returns the identity of Sum for destination dst.
	Zero(dst ID, g *Graph[V, E]) V
	// Sum folds the value of the inbound edge (src, dst) into acc.
	Sum(src, dst ID, acc V, e E, g *Graph[V, E]) V
	// Apply returns the new value of dst from its previous value and the sum
	// of its inbound edges.
	Apply(dst ID, prev, curr V, g *Graph[V, E]) V
	// Result renders the outcome of the computation.
	Result(g *Graph[V, E]) []string
}

// Activator is implemented by kernels that report convergence. A vertex whose
// value no longer changes is inactive, and a Dispatcher stops once every
// vertex is inactive.
type Activator[V any] interface {
	Active(dst ID, prev, curr V) bool
}
