// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/parallel"
)

// Dispatcher runs a kernel over a graph in bulk-synchronous rounds. It is
// generic over the concrete kernel type K so that kernel calls are statically
// dispatched.
type Dispatcher[K Kernel[V, E], V, E any] struct {
	kernel    K
	activator Activator[V]
	g         *Graph[V, E]
	opts      DispatchOptions
}

// Result summarizes a Dispatcher run.
type Result struct {
	// Rounds is the number of completed scatter-gather-apply rounds.
	Rounds int
	// Lines is the kernel's rendering of the outcome.
	Lines []string
	// Active holds the number of active vertices after every round.
	Active []int
	// RoundLatency records the duration of every round in microseconds.
	RoundLatency *hdrhistogram.Histogram
}

// NewDispatcher returns a dispatcher running k over g. The final vertex data
// is left in g.
func NewDispatcher[K Kernel[V, E], V, E any](
	k K, g *Graph[V, E], opts DispatchOptions,
) *Dispatcher[K, V, E] {
	d := &Dispatcher[K, V, E]{
		kernel: k,
		g:      g,
		opts:   *opts.EnsureDefaults(),
	}
	if a, ok := any(k).(Activator[V]); ok {
		d.activator = a
	}
	return d
}

// maxRoundMicros bounds the round latencies the histogram tracks.
const maxRoundMicros = int64(time.Hour / time.Microsecond)

// Run initializes the vertex data and runs rounds until every vertex is
// inactive or MaxRounds rounds have completed. Cancellation of ctx is checked
// between rounds; a round in progress always completes.
func (d *Dispatcher[K, V, E]) Run(ctx context.Context) (Result, error) {
	prev := d.g
	prev.require("dispatch", stageAll)
	curr := prev.Fork()
	defer curr.Release()

	res := Result{RoundLatency: hdrhistogram.New(1, maxRoundMicros, 3)}
	log := prev.opts.Logger

	prev.runner.ForEach(prev.Out.Boundaries, func(p parallel.Partition) {
		vals := prev.VData.Shard(p.ID)
		active := prev.Active.Shard(p.ID)
		for i := range vals {
			vals[i] = d.kernel.Init(p.Lower+ID(i), prev)
			active[i] = true
		}
	})

	for res.Rounds < d.opts.MaxRounds {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "dispatch interrupted after %d rounds", res.Rounds)
		}
		start := crtime.NowMono()
		d.scatter(prev, curr)
		active := d.gatherApply(prev, curr)
		Next(prev, curr)
		elapsed := start.Elapsed()

		res.Rounds++
		res.Active = append(res.Active, active)
		if err := res.RoundLatency.RecordValue(max(elapsed.Microseconds(), 1)); err != nil {
			return res, errors.Wrap(err, "recording round latency")
		}
		if d.opts.RoundLatency != nil {
			d.opts.RoundLatency.Observe(elapsed.Seconds())
		}
		if prev.opts.Verbose {
			log.Infof("round %d: %d active vertices in %s", res.Rounds, active, elapsed)
		}
		if active == 0 {
			break
		}
	}
	res.Lines = d.kernel.Result(prev)
	return res, nil
}

// scatter computes the value of every edge from the vertex values of prev and
// stores it in curr's slot for the edge. Every outbound partition writes the
// distinct inbound slots its edges forward to.
func (d *Dispatcher[K, V, E]) scatter(prev, curr *Graph[V, E]) {
	prev.runner.ForEach(prev.Out.Boundaries, func(p parallel.Partition) {
		vals := prev.VData.Shard(p.ID)
		neighbors := prev.Out.Neighbors.Shard(p.ID)
		forward := prev.ForwardIndices.Shard(p.ID)
		s := 0
		for i, nbrs := range neighbors {
			src := p.Lower + ID(i)
			val := vals[i]
			for _, dst := range nbrs {
				slot := int(forward[s])
				s++
				e := d.kernel.Scatter(src, dst, val, prev)
				curr.EData.Set(slot, d.kernel.Gather(src, dst, prev.EData.At(slot), e, prev))
			}
		}
	})
}

// gatherApply folds the inbound edge values of every vertex and applies the
// result, returning the number of vertices that remain active.
func (d *Dispatcher[K, V, E]) gatherApply(prev, curr *Graph[V, E]) int {
	var active atomic.Int64
	curr.runner.ForEach(curr.In.Boundaries, func(p parallel.Partition) {
		offsets := curr.In.Offsets.ShardWithCap(p.ID)
		neighbors := curr.In.Neighbors.Shard(p.ID)
		n := 0
		for i, nbrs := range neighbors {
			dst := p.Lower + ID(i)
			acc := d.kernel.Zero(dst, curr)
			slot := int(offsets[i])
			for j, src := range nbrs {
				acc = d.kernel.Sum(src, dst, acc, curr.EData.At(slot+j), curr)
			}
			old := prev.VData.At(int(dst))
			val := d.kernel.Apply(dst, old, acc, curr)
			curr.VData.Set(int(dst), val)
			isActive := d.activator == nil || d.activator.Active(dst, old, val)
			curr.Active.Set(int(dst), isActive)
			if isActive {
				n++
			}
		}
		active.Add(int64(n))
	})
	return int(active.Load())
}
