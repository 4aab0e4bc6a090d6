// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package numa discovers the machine's memory domains and pins goroutines to
// the CPUs of a domain.
package numa

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Domain is a memory domain (NUMA node) and the CPUs local to it.
type Domain struct {
	ID   int
	CPUs []int
}

// Topology describes the memory domains of the machine.
type Topology struct {
	Domains []Domain
}

const sysfsNodeDir = "/sys/devices/system/node"

// Discover returns the topology of the running machine. Machines without
// sysfs NUMA information are reported as one domain holding every CPU.
func Discover() Topology {
	if t, err := discover(sysfsNodeDir); err == nil && len(t.Domains) > 0 {
		return t
	}
	return Uniform(1, runtime.NumCPU())
}

func discover(root string) (Topology, error) {
	matches, err := filepath.Glob(filepath.Join(root, "node[0-9]*"))
	if err != nil {
		return Topology{}, err
	}
	var t Topology
	for _, dir := range matches {
		id, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(dir), "node"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "cpulist"))
		if err != nil {
			return Topology{}, errors.Wrapf(err, "reading cpulist of node %d", id)
		}
		cpus, err := ParseCPUList(strings.TrimSpace(string(data)))
		if err != nil {
			return Topology{}, errors.Wrapf(err, "node %d", id)
		}
		t.Domains = append(t.Domains, Domain{ID: id, CPUs: cpus})
	}
	sort.Slice(t.Domains, func(i, j int) bool { return t.Domains[i].ID < t.Domains[j].ID })
	return t, nil
}

// Uniform returns a synthetic topology of n domains sharing ncpu CPUs in
// contiguous runs.
func Uniform(n, ncpu int) Topology {
	if n < 1 {
		n = 1
	}
	t := Topology{Domains: make([]Domain, n)}
	for d := range t.Domains {
		t.Domains[d].ID = d
	}
	for c := 0; c < ncpu; c++ {
		d := c * n / ncpu
		t.Domains[d].CPUs = append(t.Domains[d].CPUs, c)
	}
	return t
}

// NumDomains returns the number of domains, at least 1.
func (t Topology) NumDomains() int {
	return max(len(t.Domains), 1)
}

// CPUs returns the CPUs of domain d, or nil if unknown.
func (t Topology) CPUs(d int) []int {
	if d < 0 || d >= len(t.Domains) {
		return nil
	}
	return t.Domains[d].CPUs
}

// DomainOf maps a partition to a memory domain. Partitions are spread over
// the domains in contiguous runs so that neighbouring vertex ranges share a
// domain.
func DomainOf(partition, numPartitions, numDomains int) int {
	if numDomains <= 1 || numPartitions <= 0 {
		return 0
	}
	return partition * numDomains / numPartitions
}

// ParseCPUList parses the kernel's cpulist format, e.g. "0-3,8,10-11".
func ParseCPUList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var cpus []int
	for _, part := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid cpulist %q", s)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return nil, errors.Wrapf(err, "invalid cpulist %q", s)
			}
		}
		if last < first {
			return nil, errors.Newf("invalid cpulist %q: descending range %s", s, part)
		}
		for c := first; c <= last; c++ {
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}
