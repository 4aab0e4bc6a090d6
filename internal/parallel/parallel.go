// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package parallel runs one unit of work per partition of a vertex range and
// joins before returning (fork-join). Each partition is bound to a memory
// domain and, optionally, to that domain's CPUs.
package parallel

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/numa"
	"golang.org/x/sync/errgroup"
)

// Partition is a contiguous vertex range [Lower, Upper) owned by one worker.
type Partition struct {
	ID     int
	Domain int
	Lower  uint32
	Upper  uint32
}

// Len returns the number of vertices in the partition.
func (p Partition) Len() int {
	return int(p.Upper - p.Lower)
}

// Runner fans work out over partitions.
type Runner struct {
	// NumDomains is the number of memory domains partitions are spread over.
	NumDomains int
	// Topology supplies the CPUs of each domain when Pin is set.
	Topology numa.Topology
	// Pin locks each worker to an OS thread restricted to its domain's CPUs,
	// so that the pages a worker touches first are placed on its domain.
	Pin bool
}

// Partitions returns the partitions described by a boundary set of
// #partitions+1 cut points.
func (r Runner) Partitions(boundaries []uint32) []Partition {
	if len(boundaries) < 2 {
		panic(errors.AssertionFailedf("boundary set needs at least 2 cut points, got %d", len(boundaries)))
	}
	n := len(boundaries) - 1
	parts := make([]Partition, n)
	for i := range parts {
		lower, upper := boundaries[i], boundaries[i+1]
		if upper < lower {
			panic(errors.AssertionFailedf("boundaries not monotonic: b[%d]=%d > b[%d]=%d", i, lower, i+1, upper))
		}
		parts[i] = Partition{
			ID:     i,
			Domain: numa.DomainOf(i, n, r.NumDomains),
			Lower:  lower,
			Upper:  upper,
		}
	}
	return parts
}

// ForEach invokes fn once per partition, each on its own goroutine, and
// blocks until all of them return.
func (r Runner) ForEach(boundaries []uint32, fn func(p Partition)) {
	parts := r.Partitions(boundaries)
	if len(parts) == 1 {
		r.run(parts[0], fn)
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(parts))
	for _, p := range parts {
		go func(p Partition) {
			defer wg.Done()
			r.run(p, fn)
		}(p)
	}
	wg.Wait()
}

// ForEachErr is like ForEach but fn may fail. The first error cancels the
// context handed to the remaining partitions and is returned once all
// partitions have finished.
func (r Runner) ForEachErr(
	ctx context.Context, boundaries []uint32, fn func(ctx context.Context, p Partition) error,
) error {
	parts := r.Partitions(boundaries)
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range parts {
		g.Go(func() error {
			var err error
			r.run(p, func(p Partition) { err = fn(ctx, p) })
			return err
		})
	}
	return g.Wait()
}

func (r Runner) run(p Partition, fn func(p Partition)) {
	if r.Pin {
		if unpin, err := numa.Pin(r.Topology.CPUs(p.Domain)); err == nil {
			defer unpin()
		}
	}
	fn(p)
}
