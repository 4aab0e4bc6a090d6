// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
// Modifications copyright 2026 The Hoshizora Authors.

// Package manual is the graph builder's allocator. Every allocation is tagged
// with a Purpose and the memory domain (NUMA node) of the partition that owns
// it, and must be handed back through Free once the owner is done with it.
//
// Memory comes from the Go heap. Placement on a domain relies on the kernel's
// first-touch policy: partition workers pinned to a domain's CPUs (see
// internal/numa) allocate and populate their own buffers, so the pages are
// faulted in on that domain.
package manual

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/aligned"
	"github.com/hoshizora/hoshizora/internal/invariants"
)

// Purpose identifies the use-case for an allocation.
type Purpose uint8

const (
	_ Purpose = iota

	// Staging holds unpartitioned temporaries built before the partition
	// boundaries are known.
	Staging
	Offsets
	Degrees
	Indices
	Neighbors
	ForwardIndices
	VertexData
	EdgeData
	ActiveFlags
	Compressed

	NumPurposes
)

var purposeNames = [NumPurposes]string{
	Staging:        "staging",
	Offsets:        "offsets",
	Degrees:        "degrees",
	Indices:        "indices",
	Neighbors:      "neighbors",
	ForwardIndices: "forward-indices",
	VertexData:     "vertex-data",
	EdgeData:       "edge-data",
	ActiveFlags:    "active-flags",
	Compressed:     "compressed",
}

// String implements fmt.Stringer.
func (p Purpose) String() string {
	if p == 0 || p >= NumPurposes {
		return fmt.Sprintf("purpose(%d)", uint8(p))
	}
	return purposeNames[p]
}

// MaxDomains is the largest number of memory domains tracked separately.
const MaxDomains = 64

// Usage contains memory statistics for one purpose or one domain.
type Usage struct {
	// InUseBytes is the total number of bytes currently allocated. This is just
	// the sum of the lengths of the allocations and does not include any overhead
	// or fragmentation.
	InUseBytes uint64

	// TotalBytes is the total cumulative number of bytes allocated since the
	// process started.
	TotalBytes uint64
}

// Metrics contains memory statistics by purpose and by domain.
type Metrics struct {
	ByPurpose [NumPurposes]Usage
	ByDomain  [MaxDomains]Usage
}

type counter struct {
	TotalAllocated atomic.Uint64
	TotalFreed     atomic.Uint64
	// Pad to separate counters into cache lines. We assume 64 byte cache line
	// size which is the case for ARM64 servers and AMD64.
	_ [6]uint64
}

var (
	purposeCounters [NumPurposes]counter
	domainCounters  [MaxDomains]counter
)

// GetMetrics returns allocator usage statistics.
func GetMetrics() Metrics {
	var res Metrics
	for i := range res.ByPurpose {
		res.ByPurpose[i] = purposeCounters[i].usage()
	}
	for i := range res.ByDomain {
		res.ByDomain[i] = domainCounters[i].usage()
	}
	return res
}

func (c *counter) usage() Usage {
	total := c.TotalAllocated.Load()
	return Usage{TotalBytes: total, InUseBytes: total - c.TotalFreed.Load()}
}

// New allocates a zeroed slice of n elements of T for the given purpose on the
// given memory domain. The slice must be released with Free.
func New[T any](purpose Purpose, domain int, n int) []T {
	checkDomain(domain)
	if n < 0 {
		panic(errors.AssertionFailedf("negative allocation size %d", n))
	}
	recordAlloc(purpose, domain, byteSize[T](n))
	return make([]T, n)
}

// NewAligned allocates a zeroed byte slice of length n whose first byte is
// aligned to aligned.Alignment. The slice must be released with Free.
func NewAligned(purpose Purpose, domain int, n int) []byte {
	checkDomain(domain)
	if n < 0 {
		panic(errors.AssertionFailedf("negative allocation size %d", n))
	}
	recordAlloc(purpose, domain, uint64(n))
	return aligned.ByteSlice(n)
}

// Free releases a slice returned by New. It has to be exactly the slice that
// was returned by New (its capacity determines the accounted size). The
// contents are mangled in invariant builds.
func Free[T any](purpose Purpose, domain int, s []T) {
	checkDomain(domain)
	s = s[:cap(s)]
	invariants.MaybeMangle(s)
	recordFree(purpose, domain, byteSize[T](len(s)))
}

func byteSize[T any](n int) uint64 {
	var zero T
	return uint64(n) * uint64(unsafe.Sizeof(zero))
}

func checkDomain(domain int) {
	if domain < 0 || domain >= MaxDomains {
		panic(errors.AssertionFailedf("memory domain %d out of range [0, %d)", domain, MaxDomains))
	}
}

func recordAlloc(purpose Purpose, domain int, n uint64) {
	purposeCounters[purpose].TotalAllocated.Add(n)
	domainCounters[domain].TotalAllocated.Add(n)
}

func recordFree(purpose Purpose, domain int, n uint64) {
	purposeCounters[purpose].TotalFreed.Add(n)
	domainCounters[domain].TotalFreed.Add(n)
}
