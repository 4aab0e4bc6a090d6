// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package edgelist

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora"
)

const (
	binaryMagic   = "HSZR"
	binaryVersion = 1
	headerLen     = 16
	edgeLen       = 8

	// maxPrealloc bounds the edges allocated up front from an untrusted count.
	maxPrealloc = 1 << 20
)

// ErrCorrupt is returned, wrapped, for malformed binary edge lists.
var ErrCorrupt = errors.New("edgelist: corrupt binary edge list")

// ReadBinary reads a binary edge list.
func ReadBinary(r io.Reader) ([]hoshizora.Edge, error) {
	br := bufio.NewReader(r)
	var hdr [headerLen]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "reading header: %v", err)
	}
	if string(hdr[:4]) != binaryMagic {
		return nil, errors.Wrapf(ErrCorrupt, "bad magic %q", hdr[:4])
	}
	if v := binary.LittleEndian.Uint32(hdr[4:]); v != binaryVersion {
		return nil, errors.Newf("edgelist: unsupported binary version %d", v)
	}
	count := binary.LittleEndian.Uint64(hdr[8:])

	edges := make([]hoshizora.Edge, 0, min(count, maxPrealloc))
	var buf [edgeLen]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, errors.Wrapf(ErrCorrupt, "reading edge %d of %d: %v", i, count, err)
		}
		edges = append(edges, hoshizora.Edge{
			Src: binary.LittleEndian.Uint32(buf[:]),
			Dst: binary.LittleEndian.Uint32(buf[4:]),
		})
	}
	return edges, nil
}

// WriteBinary writes edges as a binary edge list.
func WriteBinary(w io.Writer, edges []hoshizora.Edge) error {
	bw := bufio.NewWriter(w)
	hdr := make([]byte, 0, headerLen)
	hdr = append(hdr, binaryMagic...)
	hdr = binary.LittleEndian.AppendUint32(hdr, binaryVersion)
	hdr = binary.LittleEndian.AppendUint64(hdr, uint64(len(edges)))
	if _, err := bw.Write(hdr); err != nil {
		return err
	}
	var buf [edgeLen]byte
	for _, e := range edges {
		binary.LittleEndian.PutUint32(buf[:], e.Src)
		binary.LittleEndian.PutUint32(buf[4:], e.Dst)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
