// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/deltapack"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

// ErrUnsortedNeighbors is returned by Compress when a neighbor list is not
// non-decreasing and therefore cannot be delta packed.
var ErrUnsortedNeighbors = errors.New("hoshizora: neighbor list not sorted")

// CompressedAdjacency holds the neighbor lists of one direction of a graph,
// each encoded with deltapack into its partition's buffer.
type CompressedAdjacency struct {
	dir     Direction
	degrees *Sharded[ID]
	// offsets maps a vertex to the byte offset of its stream within its
	// partition's buffer. Shards carry a cap entry.
	offsets Sharded[uint32]
	data    [][]byte
	domains []int
}

// Compress encodes every neighbor list of the given direction. Inbound lists
// are always sorted; outbound lists are sorted for graphs built by
// FromEdgeList but keep their given order for graphs built by
// FromAdjacencyList.
func (g *Graph[V, E]) Compress(dir Direction) (*CompressedAdjacency, error) {
	g.closeCheck.AssertNotClosed()
	g.require("compress", (stageOutBoundaries | stageOutDegrees | stageOutNeighbors).forDirection(dir))
	c := g.CSR(dir)
	parts := g.runner.Partitions(c.Boundaries)
	ca := &CompressedAdjacency{
		dir:     dir,
		degrees: &c.Degrees,
		offsets: makeSharded[uint32](manual.Compressed, len(parts)),
		data:    make([][]byte, len(parts)),
		domains: make([]int, len(parts)),
	}
	err := g.runner.ForEachErr(context.Background(), c.Boundaries, func(_ context.Context, p parallel.Partition) error {
		neighbors := c.Neighbors.Shard(p.ID)
		offsets := manual.New[uint32](manual.Compressed, p.Domain, len(neighbors)+1)
		ca.offsets.set(p, offsets, len(neighbors))
		ca.domains[p.ID] = p.Domain

		size := 0
		for i, nbrs := range neighbors {
			if !slices.IsSorted(nbrs) {
				return errors.Wrapf(ErrUnsortedNeighbors, "%s neighbors of vertex %d", dir, p.Lower+ID(i))
			}
			offsets[i] = uint32(size)
			size += deltapack.Estimate(nbrs)
		}
		offsets[len(neighbors)] = uint32(size)

		buf := manual.NewAligned(manual.Compressed, p.Domain, size)
		ca.data[p.ID] = buf
		for i, nbrs := range neighbors {
			deltapack.Encode(nbrs, buf[offsets[i]:offsets[i+1]])
		}
		return nil
	})
	ca.offsets.seal()
	if err != nil {
		ca.Release()
		return nil, err
	}
	return ca, nil
}

// Direction returns the direction of the graph the lists were taken from.
func (ca *CompressedAdjacency) Direction() Direction {
	return ca.dir
}

// Degree returns the number of neighbors of v.
func (ca *CompressedAdjacency) Degree(v ID) ID {
	return ca.degrees.At(int(v))
}

func (ca *CompressedAdjacency) stream(v ID) []byte {
	p, j := ca.offsets.Locate(int(v))
	return ca.data[p][ca.offsets.Local(p, j):]
}

// Neighbors decodes the neighbors of v into buf, growing it if needed, and
// returns the result.
func (ca *CompressedAdjacency) Neighbors(v ID, buf []ID) []ID {
	n := int(ca.Degree(v))
	buf = slices.Grow(buf[:0], n)[:n]
	deltapack.Decode(ca.stream(v), n, buf)
	return buf
}

// ForEachNeighbor calls fn with every neighbor of v and its position in the
// list.
func (ca *CompressedAdjacency) ForEachNeighbor(v ID, fn func(u ID, i int)) {
	deltapack.ForEach(ca.stream(v), int(ca.Degree(v)), fn)
}

// SizeBytes returns the size of the encoded neighbor lists.
func (ca *CompressedAdjacency) SizeBytes() int {
	n := 0
	for _, b := range ca.data {
		n += len(b)
	}
	return n
}

// Release frees the encoded lists. The degrees remain owned by the graph.
func (ca *CompressedAdjacency) Release() {
	for p, b := range ca.data {
		if b != nil {
			manual.Free(manual.Compressed, ca.domains[p], b)
		}
	}
	ca.data = nil
	ca.offsets.Release()
}
