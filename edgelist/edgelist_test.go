// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package edgelist

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora"
	"github.com/hoshizora/hoshizora/internal/invariants"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func randomEdges(rng *rand.Rand, n int) []hoshizora.Edge {
	edges := make([]hoshizora.Edge, n)
	for i := range edges {
		edges[i] = hoshizora.Edge{Src: rng.Uint32(), Dst: rng.Uint32() % 1000}
	}
	return edges
}

func TestReadText(t *testing.T) {
	const input = `# Directed graph: example.txt
% another comment style
0	1

1 2
  2   0  
3 0 17
`
	edges, err := ReadText(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []hoshizora.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}, {Src: 2, Dst: 0}, {Src: 3, Dst: 0}}, edges)

	edges, err = ReadText(strings.NewReader("1 2"))
	require.NoError(t, err)
	require.Equal(t, []hoshizora.Edge{{Src: 1, Dst: 2}}, edges)

	edges, err = ReadText(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestReadTextErrors(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  string
	}{
		{"0 1\n2\n", "line 2"},
		{"# c\n0 1\n1 x\n", "line 3"},
		{"0 4294967296\n", "line 1"},
		{"0 -1\n", "line 1"},
	} {
		t.Run("", func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tc.input))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrSyntax), "%v", err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSplitLines(t *testing.T) {
	data := []byte("a\nbb\nccc\ndddd\neeeee")
	for n := 1; n <= 8; n++ {
		chunks := splitLines(data, n)
		require.LessOrEqual(t, len(chunks), n)
		require.Equal(t, data, bytes.Join(chunks, nil))
		for _, c := range chunks[:len(chunks)-1] {
			require.Equal(t, byte('\n'), c[len(c)-1])
		}
	}
	require.Len(t, splitLines(nil, 4), 1)
}

// TestReadTextChunked checks line numbers and edge order survive the
// concurrent parse of a large input.
func TestReadTextChunked(t *testing.T) {
	if invariants.RaceEnabled {
		t.Skip("too slow under race")
	}
	rng := rand.New(rand.NewSource(1))
	edges := randomEdges(rng, 3*minChunkBytes/10)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, edges))
	got, err := ReadText(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, edges, got)

	fmt.Fprintf(&buf, "1 2 3\nbogus\n")
	_, err = ReadText(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrSyntax)
	require.Contains(t, err.Error(), fmt.Sprintf("line %d", len(edges)+2))
}

func TestBinary(t *testing.T) {
	edges := []hoshizora.Edge{{Src: 1, Dst: 2}, {Src: 0x01020304, Dst: 0xffffffff}}
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, edges))
	require.Equal(t, []byte{
		'H', 'S', 'Z', 'R', 1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0, 2, 0, 0, 0,
		4, 3, 2, 1, 0xff, 0xff, 0xff, 0xff,
	}, buf.Bytes())

	got, err := ReadBinary(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, edges, got)

	_, err = ReadBinary(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	require.ErrorIs(t, err, ErrCorrupt)

	bad := bytes.Clone(buf.Bytes())
	bad[0] = 'X'
	_, err = ReadBinary(bytes.NewReader(bad))
	require.ErrorIs(t, err, ErrCorrupt)

	bad = bytes.Clone(buf.Bytes())
	bad[4] = 2
	_, err = ReadBinary(bytes.NewReader(bad))
	require.ErrorContains(t, err, "unsupported binary version 2")

	// A huge count with no edges behind it fails without a huge allocation.
	bad = bytes.Clone(buf.Bytes()[:headerLen])
	bad[15] = 0xff
	_, err = ReadBinary(bytes.NewReader(bad))
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestParsePath(t *testing.T) {
	for _, tc := range []struct {
		path   string
		format Format
		c      Compression
	}{
		{"graph.txt", Text, NoCompression},
		{"graph", Text, NoCompression},
		{"dir.hszr/graph.txt.gz", Text, Gzip},
		{"graph.hszr", Binary, NoCompression},
		{"graph.hszr.zst", Binary, Zstd},
		{"graph.hszr.sz", Binary, Snappy},
		{"graph.txt.mz", Text, MinLZ},
	} {
		format, c := ParsePath(tc.path)
		require.Equal(t, tc.format, format, tc.path)
		require.Equal(t, tc.c, c, tc.path)
	}
}

func TestFiles(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	edges := randomEdges(rng, 5000)
	dir := t.TempDir()
	for _, format := range []string{".txt", BinarySuffix} {
		for c := NoCompression; c <= MinLZ; c++ {
			path := filepath.Join(dir, "edges"+format+compressionSuffixes[c])
			t.Run(filepath.Base(path), func(t *testing.T) {
				require.NoError(t, WriteFile(path, edges))
				got, err := ReadFile(path)
				require.NoError(t, err)
				require.Equal(t, edges, got)
			})
		}
	}

	_, err := ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
