// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"iter"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/invariants"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

// Sharded is a logically contiguous array split into one shard per
// partition. Each shard is allocated on the memory domain of the partition
// that owns it.
//
// Shards are installed concurrently by partition workers, each into its own
// slot, and the array is sealed once all workers have joined. Sealing computes
// the global index of the first element of every shard; before that only the
// per-shard accessors may be used.
//
// A shard may carry elements past its logical length. Offset arrays use this
// to keep a trailing "cap" entry holding the end offset of the shard's last
// vertex.
type Sharded[T any] struct {
	purpose manual.Purpose
	shards  []shard[T]
	// starts[p] is the global index of the first element of shard p, and
	// starts[len(shards)] is the logical length of the array.
	starts []int
	sealed bool
}

type shard[T any] struct {
	buf    []T
	n      int
	domain int
}

func makeSharded[T any](purpose manual.Purpose, numShards int) Sharded[T] {
	return Sharded[T]{
		purpose: purpose,
		shards:  make([]shard[T], numShards),
	}
}

// set installs buf as the shard of partition p, of which the first n
// elements are logical. buf must have been allocated through manual.New with
// the array's purpose on p's domain.
func (s *Sharded[T]) set(p parallel.Partition, buf []T, n int) {
	if s.sealed {
		panic(errors.AssertionFailedf("%s: set on sealed array", s.purpose))
	}
	if n > len(buf) {
		panic(errors.AssertionFailedf("%s: shard %d logical length %d exceeds %d", s.purpose, p.ID, n, len(buf)))
	}
	s.shards[p.ID] = shard[T]{buf: buf, n: n, domain: p.Domain}
}

// seal computes the shard starts. It must be called after every shard has
// been installed.
func (s *Sharded[T]) seal() {
	s.starts = make([]int, len(s.shards)+1)
	for p := range s.shards {
		s.starts[p+1] = s.starts[p] + s.shards[p].n
	}
	s.sealed = true
}

// Len returns the logical length of the array.
func (s *Sharded[T]) Len() int {
	s.assertSealed()
	return s.starts[len(s.shards)]
}

// NumShards returns the number of shards.
func (s *Sharded[T]) NumShards() int {
	return len(s.shards)
}

// Shard returns the logical part of shard p.
func (s *Sharded[T]) Shard(p int) []T {
	sh := &s.shards[p]
	return sh.buf[:sh.n]
}

// ShardWithCap returns shard p including the elements past its logical
// length, such as the cap entry of an offset array.
func (s *Sharded[T]) ShardWithCap(p int) []T {
	return s.shards[p].buf
}

// Start returns the global index of the first element of shard p.
func (s *Sharded[T]) Start(p int) int {
	s.assertSealed()
	return s.starts[p]
}

// Locate returns the shard p holding global index i and the position j of i
// within that shard.
func (s *Sharded[T]) Locate(i int) (p, j int) {
	s.assertSealed()
	if invariants.Enabled {
		invariants.CheckBounds(i, s.starts[len(s.shards)])
	}
	// The first shard whose end lies past i; empty shards are skipped.
	p = sort.Search(len(s.shards), func(p int) bool {
		return s.starts[p+1] > i
	})
	return p, i - s.starts[p]
}

// At returns the element at global index i.
func (s *Sharded[T]) At(i int) T {
	p, j := s.Locate(i)
	return s.shards[p].buf[j]
}

// Set stores v at global index i.
func (s *Sharded[T]) Set(i int, v T) {
	p, j := s.Locate(i)
	s.shards[p].buf[j] = v
}

// Ptr returns a pointer to the element at global index i.
func (s *Sharded[T]) Ptr(i int) *T {
	p, j := s.Locate(i)
	return &s.shards[p].buf[j]
}

// Local returns element j of shard p. j may address elements past the
// shard's logical length.
func (s *Sharded[T]) Local(p, j int) T {
	return s.shards[p].buf[j]
}

// AtIn returns the element at global index i, which the caller knows to lie
// in shard p. It avoids the search performed by At, and may address the cap
// entry one past the shard's logical end.
func (s *Sharded[T]) AtIn(p, i int) T {
	return s.shards[p].buf[i-s.starts[p]]
}

// All returns an iterator over the logical elements of the array and their
// global indices, in increasing index order.
func (s *Sharded[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for p := range s.shards {
			for _, v := range s.Shard(p) {
				if !yield(i, v) {
					return
				}
				i++
			}
		}
	}
}

// Release frees every shard. The array must not be used afterwards.
func (s *Sharded[T]) Release() {
	for p := range s.shards {
		sh := &s.shards[p]
		if sh.buf != nil {
			manual.Free(s.purpose, sh.domain, sh.buf)
		}
		*sh = shard[T]{}
	}
	s.starts = nil
	s.sealed = false
}

func (s *Sharded[T]) assertSealed() {
	if !s.sealed {
		panic(errors.AssertionFailedf("%s: array is not sealed", s.purpose))
	}
}
