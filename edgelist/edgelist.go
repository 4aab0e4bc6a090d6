// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package edgelist reads and writes edge lists.
//
// Two formats are supported. The text format holds one "src dst" pair per
// line, separated by whitespace; lines starting with '#' or '%' and blank
// lines are ignored. The binary format (suffix .hszr) is laid out as:
//
//	+--------+-----------+-----------+----------------------------+
//	| "HSZR" | version:4 | count:8   | (src:4, dst:4) * count     |
//	+--------+-----------+-----------+----------------------------+
//
// with all integers little-endian. Either format may be wrapped in a
// compressed stream, selected by the outermost suffix of the file name: .gz
// (gzip), .zst (zstd), .sz (snappy framing format) or .mz (minlz).
package edgelist

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
	"github.com/hoshizora/hoshizora"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minlz"
)

// Format is the encoding of the edges themselves.
type Format uint8

const (
	// Text is the whitespace separated "src dst" format.
	Text Format = iota
	// Binary is the .hszr format.
	Binary
)

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Compression is the stream compression wrapping an edge list file.
type Compression uint8

const (
	NoCompression Compression = iota
	Gzip
	Zstd
	Snappy
	MinLZ
)

var compressionSuffixes = [...]string{
	NoCompression: "",
	Gzip:          ".gz",
	Zstd:          ".zst",
	Snappy:        ".sz",
	MinLZ:         ".mz",
}

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	case MinLZ:
		return "minlz"
	default:
		return "unknown"
	}
}

// BinarySuffix is the file name suffix selecting the binary format.
const BinarySuffix = ".hszr"

// ParsePath returns the format and compression implied by the suffixes of
// path.
func ParsePath(path string) (Format, Compression) {
	name := filepath.Base(path)
	c := NoCompression
	for i := Gzip; i <= MinLZ; i++ {
		if strings.HasSuffix(name, compressionSuffixes[i]) {
			c = i
			name = strings.TrimSuffix(name, compressionSuffixes[i])
			break
		}
	}
	if strings.HasSuffix(name, BinarySuffix) {
		return Binary, c
	}
	return Text, c
}

// Read decodes edges in format f from r.
func Read(r io.Reader, f Format) ([]hoshizora.Edge, error) {
	switch f {
	case Text:
		return ReadText(r)
	case Binary:
		return ReadBinary(r)
	default:
		return nil, errors.Newf("edgelist: unknown format %d", f)
	}
}

// Write encodes edges in format f to w.
func Write(w io.Writer, f Format, edges []hoshizora.Edge) error {
	switch f {
	case Text:
		return WriteText(w, edges)
	case Binary:
		return WriteBinary(w, edges)
	default:
		return errors.Newf("edgelist: unknown format %d", f)
	}
}

// Decompress wraps r in a reader undoing compression c.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case NoCompression:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case MinLZ:
		return io.NopCloser(minlz.NewReader(r)), nil
	default:
		return nil, errors.Newf("edgelist: unknown compression %d", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Compress wraps w in a writer applying compression c. Closing the returned
// writer flushes it but does not close w.
func Compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case NoCompression:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case MinLZ:
		return minlz.NewWriter(w), nil
	default:
		return nil, errors.Newf("edgelist: unknown compression %d", c)
	}
}

// ReadFile reads the edge list stored at path.
func ReadFile(path string) ([]hoshizora.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, c := ParsePath(path)
	r, err := Decompress(f, c)
	if err != nil {
		return nil, errors.Wrapf(err, "edgelist: opening %s", path)
	}
	defer r.Close()
	edges, err := Read(r, format)
	if err != nil {
		return nil, errors.Wrapf(err, "edgelist: reading %s", path)
	}
	return edges, nil
}

// WriteFile writes edges to path, replacing any existing file.
func WriteFile(path string, edges []hoshizora.Edge) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, f.Close())
	}()

	format, c := ParsePath(path)
	w, err := Compress(f, c)
	if err != nil {
		return errors.Wrapf(err, "edgelist: creating %s", path)
	}
	if err := Write(w, format, edges); err != nil {
		return errors.Wrapf(err, "edgelist: writing %s", path)
	}
	return w.Close()
}
