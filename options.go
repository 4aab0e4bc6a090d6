// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hoshizora

import (
	"runtime"

	"github.com/hoshizora/hoshizora/internal/base"
	"github.com/hoshizora/hoshizora/internal/manual"
	"github.com/hoshizora/hoshizora/internal/numa"
	"github.com/hoshizora/hoshizora/internal/parallel"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
var DefaultLogger = base.DefaultLogger

// Partition is a contiguous vertex range owned by one worker.
type Partition = parallel.Partition

// Options holds the parameters for building a graph.
type Options struct {
	// NumPartitions is the number of partitions each edge direction is split
	// into, and the number of workers building and processing them. The
	// default is runtime.GOMAXPROCS(0).
	NumPartitions int

	// NumDomains is the number of memory domains the partitions are spread
	// over. The default is the number of NUMA nodes of the machine.
	NumDomains int

	// PinThreads restricts every partition worker to the CPUs of its memory
	// domain while it runs.
	PinThreads bool

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// Verbose enables a log line per dispatcher round.
	Verbose bool

	topology numa.Topology
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.NumPartitions <= 0 {
		o.NumPartitions = runtime.GOMAXPROCS(0)
	}
	if len(o.topology.Domains) == 0 {
		o.topology = numa.Discover()
	}
	if o.NumDomains <= 0 {
		o.NumDomains = o.topology.NumDomains()
	}
	o.NumDomains = min(o.NumDomains, manual.MaxDomains)
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
	return o
}

func (o *Options) runner() parallel.Runner {
	return parallel.Runner{
		NumDomains: o.NumDomains,
		Topology:   o.topology,
		Pin:        o.PinThreads,
	}
}

// DispatchOptions holds the parameters of a Dispatcher run.
type DispatchOptions struct {
	// MaxRounds bounds the number of scatter-gather-apply rounds. The default
	// is 100.
	MaxRounds int

	// RoundLatency, if set, observes the duration of every round in seconds.
	RoundLatency prometheus.Histogram
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *DispatchOptions) EnsureDefaults() *DispatchOptions {
	if o == nil {
		o = &DispatchOptions{}
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = 100
	}
	return o
}
