// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"testing"

	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/parallel"
	"github.com/stretchr/testify/require"
)

func TestSharded(t *testing.T) {
	s := makeSharded[ID](manual.Offsets, 4)
	lens := []int{2, 0, 3, 1}
	next := ID(0)
	for p, n := range lens {
		buf := manual.New[ID](manual.Offsets, 0, n+1)
		for i := range buf {
			buf[i] = next + ID(i)
		}
		next += ID(n)
		s.set(parallel.Partition{ID: p}, buf, n)
	}
	require.Panics(t, func() { s.Len() })
	s.seal()
	require.Panics(t, func() { s.set(parallel.Partition{ID: 0}, nil, 0) })

	require.Equal(t, 6, s.Len())
	require.Equal(t, 4, s.NumShards())
	require.Equal(t, []ID{2, 3, 4}, s.Shard(2))
	require.Empty(t, s.Shard(1))

	for i, want := range []struct{ p, j int }{{0, 0}, {0, 1}, {2, 0}, {2, 1}, {2, 2}, {3, 0}} {
		p, j := s.Locate(i)
		require.Equal(t, want.p, p, "index %d", i)
		require.Equal(t, want.j, j, "index %d", i)
		require.Equal(t, ID(i), s.At(i))
		require.Equal(t, ID(i), s.AtIn(p, i))
	}
	// Cap entries.
	require.Equal(t, ID(2), s.AtIn(0, 2))
	require.Equal(t, ID(5), s.Local(2, 3))
	require.Equal(t, ID(2), s.Local(1, 0))
	require.Equal(t, []ID{2, 3, 4, 5}, s.ShardWithCap(2))
	require.Equal(t, []ID{2}, s.ShardWithCap(1))
	require.Len(t, s.ShardWithCap(3), 2)

	s.Set(4, 40)
	*s.Ptr(5) += 50
	var got []ID
	for i, v := range s.All() {
		require.Equal(t, len(got), i)
		got = append(got, v)
	}
	require.Equal(t, []ID{0, 1, 2, 3, 40, 55}, got)

	for i, v := range s.All() {
		if i == 2 {
			break
		}
		require.Equal(t, ID(i), v)
	}
	s.Release()
	require.Zero(t, s.Shard(0))
}
