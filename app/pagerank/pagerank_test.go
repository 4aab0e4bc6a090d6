// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package pagerank

import (
	"context"
	"math"
	"testing"

	"github.com/hoshizora/hoshizora"
	"github.com/hoshizora/hoshizora/internal/testutils"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testOptions(t *testing.T, partitions int) *hoshizora.Options {
	return &hoshizora.Options{
		NumPartitions: partitions,
		Logger:        testutils.Logger{T: t},
		Verbose:       true,
	}
}

func TestCycleIsUniform(t *testing.T) {
	edges := []hoshizora.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}, {Src: 2, Dst: 3}, {Src: 3, Dst: 0}}
	g := hoshizora.FromEdgeList[float32, float32](edges, testOptions(t, 2))
	defer g.Release()

	res, err := hoshizora.NewDispatcher(New(), g, hoshizora.DispatchOptions{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Rounds)
	require.Equal(t, []string{
		"0\t0.250000",
		"1\t0.250000",
		"2\t0.250000",
		"3\t0.250000",
		"mass\t1.000000",
	}, res.Lines)
}

// reference computes PageRank with a dense power iteration.
func reference(n int, edges []hoshizora.Edge, damping float64, rounds int) []float64 {
	outDegree := make([]int, n)
	for _, e := range edges {
		outDegree[e.Src]++
	}
	ranks := make([]float64, n)
	for i := range ranks {
		ranks[i] = 1 / float64(n)
	}
	for r := 0; r < rounds; r++ {
		next := make([]float64, n)
		for _, e := range edges {
			next[e.Dst] += ranks[e.Src] / float64(outDegree[e.Src])
		}
		for i := range next {
			next[i] = (1-damping)/float64(n) + damping*next[i]
		}
		ranks = next
	}
	return ranks
}

func TestMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 200
	var edges []hoshizora.Edge
	for i := 0; i < 2000; i++ {
		edges = append(edges, hoshizora.Edge{
			Src: hoshizora.ID(rng.Uint64n(n)),
			Dst: hoshizora.ID(rng.Uint64n(n)),
		})
	}
	edges = append(edges, hoshizora.Edge{Src: n - 1, Dst: n - 1})
	want := reference(n, edges, DefaultDamping, 20)

	for _, partitions := range []int{1, 4} {
		g := hoshizora.FromEdgeList[float32, float32](append([]hoshizora.Edge(nil), edges...), testOptions(t, partitions))
		k := New()
		k.Epsilon = 0
		res, err := hoshizora.NewDispatcher(k, g, hoshizora.DispatchOptions{MaxRounds: 20}).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 20, res.Rounds)
		for v, score := range g.VData.All() {
			require.InDelta(t, want[v], score, 1e-5, "vertex %d", v)
		}

		top := Top(g, 5)
		require.Len(t, top, 5)
		for i := 1; i < len(top); i++ {
			require.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
		}
		var sum float64
		for _, r := range want {
			sum += r
		}
		require.InDelta(t, sum, Mass(g), 1e-4)
		require.LessOrEqual(t, float64(Mass(g)), 1+1e-4)
		g.Release()
	}
}

func TestActive(t *testing.T) {
	k := New()
	require.False(t, k.Active(0, 0.5, 0.5))
	require.True(t, k.Active(0, 0.5, 0.6))
	require.False(t, k.Active(0, 0.5, 0.5+float32(math.SmallestNonzeroFloat32)))
}
