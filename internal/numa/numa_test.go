// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package numa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCPUList(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"0", []int{0}},
		{"0-3", []int{0, 1, 2, 3}},
		{"0-1,8,10-11", []int{0, 1, 8, 10, 11}},
	} {
		got, err := ParseCPUList(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"a", "3-1", "1-x"} {
		_, err := ParseCPUList(bad)
		require.Error(t, err, bad)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	write := func(node, cpulist string) {
		dir := filepath.Join(root, node)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cpulist"), []byte(cpulist+"\n"), 0644))
	}
	write("node1", "4-7")
	write("node0", "0-3")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "power"), 0755))

	topo, err := discover(root)
	require.NoError(t, err)
	require.Equal(t, 2, topo.NumDomains())
	require.Equal(t, []int{0, 1, 2, 3}, topo.CPUs(0))
	require.Equal(t, []int{4, 5, 6, 7}, topo.CPUs(1))
	require.Nil(t, topo.CPUs(2))
}

func TestUniform(t *testing.T) {
	topo := Uniform(2, 6)
	require.Equal(t, []int{0, 1, 2}, topo.CPUs(0))
	require.Equal(t, []int{3, 4, 5}, topo.CPUs(1))
	require.Equal(t, 1, Uniform(0, 4).NumDomains())
}

func TestDomainOf(t *testing.T) {
	var got []int
	for p := 0; p < 8; p++ {
		got = append(got, DomainOf(p, 8, 2))
	}
	require.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 1}, got)
	require.Equal(t, 0, DomainOf(5, 8, 1))
}

func TestPin(t *testing.T) {
	unpin, err := Pin(nil)
	require.NoError(t, err)
	unpin()
}
