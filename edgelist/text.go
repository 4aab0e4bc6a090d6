// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package edgelist

import (
	"bufio"
	"bytes"
	"io"
	"runtime"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora"
	"golang.org/x/sync/errgroup"
)

// ErrSyntax is returned, wrapped with the offending line, for text that does
// not parse as an edge list.
var ErrSyntax = errors.New("edgelist: syntax error")

// minChunkBytes is the smallest piece of text handed to a parsing goroutine.
const minChunkBytes = 1 << 20

// ReadText reads a text edge list. Large inputs are split at line boundaries
// and parsed concurrently.
func ReadText(r io.Reader) ([]hoshizora.Edge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	chunks := splitLines(data, max(1, min(runtime.GOMAXPROCS(0), len(data)/minChunkBytes)))
	results := make([][]hoshizora.Edge, len(chunks))

	var g errgroup.Group
	line := 1
	for i, chunk := range chunks {
		first := line
		line += bytes.Count(chunk, []byte{'\n'})
		g.Go(func() error {
			edges, err := parseText(chunk, first)
			results[i] = edges
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, edges := range results {
		n += len(edges)
	}
	all := make([]hoshizora.Edge, 0, n)
	for _, edges := range results {
		all = append(all, edges...)
	}
	return all, nil
}

// splitLines splits data into at most n pieces of roughly equal size, each
// ending at a newline or at the end of data.
func splitLines(data []byte, n int) [][]byte {
	chunks := make([][]byte, 0, n)
	for i := n; i > 1 && len(data) > 0; i-- {
		cut := len(data) / i
		if j := bytes.IndexByte(data[cut:], '\n'); j >= 0 {
			cut += j + 1
		} else {
			cut = len(data)
		}
		chunks = append(chunks, data[:cut])
		data = data[cut:]
	}
	if len(data) > 0 || len(chunks) == 0 {
		chunks = append(chunks, data)
	}
	return chunks
}

func parseText(data []byte, line int) ([]hoshizora.Edge, error) {
	var edges []hoshizora.Edge
	for ; len(data) > 0; line++ {
		var l []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			l, data = data[:i], data[i+1:]
		} else {
			l, data = data, nil
		}
		l = bytes.TrimSpace(l)
		if len(l) == 0 || l[0] == '#' || l[0] == '%' {
			continue
		}
		fields := bytes.Fields(l)
		if len(fields) < 2 {
			return nil, errors.Wrapf(ErrSyntax, "line %d: expected \"src dst\", found %q", line, l)
		}
		src, err := parseID(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		dst, err := parseID(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		edges = append(edges, hoshizora.Edge{Src: src, Dst: dst})
	}
	return edges, nil
}

func parseID(b []byte) (hoshizora.ID, error) {
	v, err := strconv.ParseUint(string(b), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrSyntax, "invalid vertex id %q", b)
	}
	return hoshizora.ID(v), nil
}

// WriteText writes edges as text, one "src dst" pair per line.
func WriteText(w io.Writer, edges []hoshizora.Edge) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, e := range edges {
		buf = strconv.AppendUint(buf[:0], uint64(e.Src), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(e.Dst), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
