// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package manual

import (
	"testing"

	"github.com/hoshizora/hoshizora/internal/aligned"
	"github.com/stretchr/testify/require"
)

func TestNewFree(t *testing.T) {
	before := GetMetrics()

	a := New[uint32](Indices, 1, 100)
	require.Len(t, a, 100)
	b := New[uint64](Indices, 2, 10)
	require.Len(t, b, 10)

	m := GetMetrics()
	require.Equal(t, uint64(480), m.ByPurpose[Indices].InUseBytes-before.ByPurpose[Indices].InUseBytes)
	require.Equal(t, uint64(400), m.ByDomain[1].InUseBytes-before.ByDomain[1].InUseBytes)
	require.Equal(t, uint64(80), m.ByDomain[2].InUseBytes-before.ByDomain[2].InUseBytes)

	Free(Indices, 1, a)
	Free(Indices, 2, b)
	m = GetMetrics()
	require.Equal(t, before.ByPurpose[Indices].InUseBytes, m.ByPurpose[Indices].InUseBytes)
	require.Equal(t, uint64(480), m.ByPurpose[Indices].TotalBytes-before.ByPurpose[Indices].TotalBytes)
}

func TestFreeUsesCapacity(t *testing.T) {
	before := GetMetrics()
	a := New[uint32](Offsets, 0, 9)
	// Callers commonly keep only the logical part of an allocation around.
	Free(Offsets, 0, a[:8])
	m := GetMetrics()
	require.Equal(t, before.ByPurpose[Offsets].InUseBytes, m.ByPurpose[Offsets].InUseBytes)
}

func TestNewAligned(t *testing.T) {
	before := GetMetrics()
	for _, n := range []int{1, 31, 32, 33, 1000} {
		b := NewAligned(Compressed, 3, n)
		require.Len(t, b, n)
		require.True(t, aligned.IsAligned(b))
		m := GetMetrics()
		require.Equal(t, uint64(n), m.ByDomain[3].InUseBytes-before.ByDomain[3].InUseBytes)
		Free(Compressed, 3, b[:0])
	}
	m := GetMetrics()
	require.Equal(t, before.ByPurpose[Compressed].InUseBytes, m.ByPurpose[Compressed].InUseBytes)
	require.Panics(t, func() { NewAligned(Compressed, 0, -1) })
}

func TestDomainOutOfRange(t *testing.T) {
	require.Panics(t, func() { New[byte](Staging, MaxDomains, 1) })
	require.Panics(t, func() { New[byte](Staging, -1, 1) })
}

func TestPurposeString(t *testing.T) {
	require.Equal(t, "forward-indices", ForwardIndices.String())
	require.Equal(t, "purpose(0)", Purpose(0).String())
}
