// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package deltapack

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Decode decodes n values from the stream in, produced by Encode, into
// out[:n]. It returns the number of stream bytes consumed: the flags region,
// the payload chunks and the tail fields, but not the tail slack or the final
// alignment padding. Decoding bytes not produced by Encode is undefined.
func Decode(in []byte, n int, out []uint32) int {
	if n == 0 {
		return 0
	}
	if len(out) < n {
		panic(errors.AssertionFailedf("deltapack: output buffer too small: %d < %d", len(out), n))
	}
	l := makeLayout(n)
	off, prev := unpackBlocks(in, l, func(first int, block *[BlockLen]uint32) {
		copy(out[first:first+BlockLen], block[:])
	})
	if l.tailLen > 0 {
		off = unpackTail(in, off, prev, out[l.tailStart():n])
	}
	return off
}

// ForEach decodes n values from the stream in and calls fn with every value
// and its index, in increasing index order. It returns the same number of
// consumed bytes as Decode.
func ForEach(in []byte, n int, fn func(v uint32, i int)) int {
	if n == 0 {
		return 0
	}
	l := makeLayout(n)
	off, prev := unpackBlocks(in, l, func(first int, block *[BlockLen]uint32) {
		for j, v := range block {
			fn(v, first+j)
		}
	})
	if l.tailLen > 0 {
		var tail [tailFields]uint32
		off = unpackTail(in, off, prev, tail[:l.tailLen])
		start := l.tailStart()
		for k, v := range tail[:l.tailLen] {
			fn(v, start+k)
		}
	}
	return off
}

// unpackBlocks decodes the complete blocks of a stream, calling emit with the
// index of the first value of every block. It returns the offset following
// the last payload chunk and the last decoded value (0 if there are no
// blocks).
func unpackBlocks(
	in []byte, l layout, emit func(first int, block *[BlockLen]uint32),
) (off int, prev uint32) {
	if l.nBlocks == 0 {
		return 0, 0
	}
	off = l.flagRegion
	var used uint
	var block [BlockLen]uint32
	for b := 0; b < l.nBlocks; b++ {
		idx, shift := l.flagPosition(b)
		class := (in[idx] >> shift) & 0xF
		w := uint(widths[class])
		if used+w > LaneBits {
			off += ChunkBytes
			used = 0
		}
		if w == 0 {
			// Width-0 blocks repeat the baseline and occupy no chunk.
			for j := range block {
				block[j] = prev
			}
		} else {
			chunk := in[off : off+ChunkBytes]
			mask := masks[class]
			for j := range block {
				block[j] = prev + (binary.LittleEndian.Uint32(chunk[4*j:])>>used)&mask
			}
		}
		used += w
		prev = block[BlockLen-1]
		emit(b*BlockLen, &block)
	}
	if used > 0 {
		off += ChunkBytes
	}
	return off, prev
}
