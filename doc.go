// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package hoshizora is a shared-memory graph analytics engine. It builds a
// directed graph into a partitioned compressed sparse row (CSR) form, in both
// edge directions, and runs vertex programs over it in bulk-synchronous
// scatter-gather-apply rounds.
//
// # Layout
//
// Each direction of a graph is split into partitions of contiguous vertex
// ranges holding roughly the same number of edges. Every partition is owned
// by one worker, bound to a memory domain (NUMA node), and every per-vertex
// and per-edge array is stored as one shard per partition allocated on the
// partition's domain (see Sharded).
//
// Forward indices connect the two directions: for every outbound edge slot
// they give the inbound slot of the same logical edge, so that values
// scattered along outbound edges land where the destination gathers them.
//
// # Computation
//
// A Kernel describes a vertex program; a Dispatcher runs it. Two graphs
// sharing one structure hold the previous and the current generation of
// vertex and edge data, and are swapped by Next between rounds.
//
// # Compression
//
// Sorted neighbor lists can be stored with the deltapack codec (see
// Graph.Compress).
package hoshizora
