// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// minLabel propagates the smallest vertex id along directed edges.
type minLabel struct{}

var _ Kernel[ID, ID] = minLabel{}
var _ Activator[ID] = minLabel{}

func (minLabel) Init(v ID, _ *Graph[ID, ID]) ID { return v }
func (minLabel) Scatter(_, _ ID, val ID, _ *Graph[ID, ID]) ID { return val }
func (minLabel) Gather(_, _ ID, _, curr ID, _ *Graph[ID, ID]) ID { return curr }
func (minLabel) Zero(ID, *Graph[ID, ID]) ID { return math.MaxUint32 }
func (minLabel) Sum(_, _ ID, acc ID, e ID, _ *Graph[ID, ID]) ID { return min(acc, e) }
func (minLabel) Apply(_ ID, prev, curr ID, _ *Graph[ID, ID]) ID { return min(prev, curr) }
func (minLabel) Active(_ ID, prev, curr ID) bool { return prev != curr }
func (minLabel) Result(g *Graph[ID, ID]) []string {
	var lines []string
	for v, label := range g.VData.All() {
		lines = append(lines, fmt.Sprintf("%d\t%d", v, label))
	}
	return lines
}

// edgeCount counts the rounds by accumulating on every edge. It never
// converges.
type edgeCount struct{}

func (edgeCount) Init(ID, *Graph[int, int]) int { return 0 }
func (edgeCount) Scatter(_, _ ID, _ int, _ *Graph[int, int]) int { return 1 }
func (edgeCount) Gather(_, _ ID, prev, curr int, _ *Graph[int, int]) int {
	return prev + curr
}
func (edgeCount) Zero(ID, *Graph[int, int]) int { return 0 }
func (edgeCount) Sum(_, _ ID, acc int, e int, _ *Graph[int, int]) int { return acc + e }
func (edgeCount) Apply(_ ID, _, curr int, _ *Graph[int, int]) int { return curr }
func (edgeCount) Result(*Graph[int, int]) []string { return nil }

func TestDispatcherConverges(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for _, partitions := range []int{1, 2, 3} {
		t.Run(fmt.Sprint(partitions), func(t *testing.T) {
			before := inUseBytes()
			g := FromEdgeList[ID, ID]([]Edge{{0, 1}, {1, 2}, {2, 0}}, testOptions(t, partitions))
			hist := prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "round_latency_seconds",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
			})
			res, err := NewDispatcher(minLabel{}, g, DispatchOptions{RoundLatency: hist}).Run(context.Background())
			require.NoError(t, err)
			require.Equal(t, 3, res.Rounds)
			require.Equal(t, []int{2, 1, 0}, res.Active)
			require.Equal(t, []string{"0\t0", "1\t0", "2\t0"}, res.Lines)
			require.Equal(t, int64(3), res.RoundLatency.TotalCount())

			metric := &dto.Metric{}
			require.NoError(t, hist.Write(metric))
			require.Equal(t, uint64(3), metric.GetHistogram().GetSampleCount())

			g.Release()
			require.Equal(t, before, inUseBytes())
		})
	}
}

func TestDispatcherMaxRounds(t *testing.T) {
	// Vertex 1 has two inbound edges, vertex 0 has one.
	g := FromEdgeList[int, int]([]Edge{{0, 1}, {2, 1}, {1, 0}}, testOptions(t, 2))
	defer g.Release()
	res, err := NewDispatcher(edgeCount{}, g, DispatchOptions{MaxRounds: 4}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, res.Rounds)
	require.Equal(t, []int{3, 3, 3, 3}, res.Active)
	// Every edge carries the number of rounds.
	require.Equal(t, 4, g.VData.At(0))
	require.Equal(t, 8, g.VData.At(1))
	require.Equal(t, 0, g.VData.At(2))
}

func TestDispatcherCanceled(t *testing.T) {
	g := FromEdgeList[ID, ID]([]Edge{{0, 1}}, testOptions(t, 1))
	defer g.Release()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewDispatcher(minLabel{}, g, DispatchOptions{}).Run(ctx)
	require.True(t, errors.Is(err, context.Canceled), "%v", err)
	require.Zero(t, res.Rounds)
}
