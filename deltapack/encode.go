// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package deltapack

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/internal/invariants"
)

// Estimate returns the number of bytes Encode writes for in. The result is a
// multiple of ChunkBytes, and 0 for an empty input.
func Estimate(in []uint32) int {
	if len(in) == 0 {
		return 0
	}
	l := makeLayout(len(in))
	size := l.flagRegion
	if l.nBlocks > 0 {
		var used uint
		var base uint32
		chunks := 0
		for b := 0; b < l.nBlocks; b++ {
			last := in[b*BlockLen+BlockLen-1]
			w := uint(widths[classOf(last-base)])
			if used+w > LaneBits {
				chunks++
				used = 0
			}
			used += w
			base = last
		}
		if used > 0 {
			chunks++
		}
		size += chunks * ChunkBytes
	}
	if l.tailLen > 0 {
		size += 1 + tailBytes(in, l.tailStart()) + 2*(BlockLen-l.tailLen)
	}
	return alignUp(size, ChunkBytes)
}

// tailBytes returns the size of the tail differences of in[start:].
func tailBytes(in []uint32, start int) int {
	var prev uint32
	if start > 0 {
		prev = in[start-1]
	}
	n := 0
	for _, v := range in[start:] {
		if v-prev <= math.MaxUint16 {
			n += 2
		} else {
			n += 4
		}
		prev = v
	}
	return n
}

// Encode encodes in into out and returns the number of bytes written, which
// equals Estimate(in). Encode panics if out is shorter than Estimate(in).
// Bytes of out[:Estimate(in)] that carry no data are zeroed.
//
// Every value of a block must lie between the last value of the previous
// block (0 for the first block) and the last value of its own block, and the
// tail must be non-decreasing. Non-decreasing input satisfies both.
func Encode(in []uint32, out []byte) int {
	if len(in) == 0 {
		return 0
	}
	size := Estimate(in)
	if len(out) < size {
		panic(errors.AssertionFailedf("deltapack: output buffer too small: %d < %d", len(out), size))
	}
	if invariants.Enabled {
		if err := checkEncodable(in); err != nil {
			panic(err)
		}
	}
	out = out[:size]
	clear(out)

	l := makeLayout(len(in))
	off := l.flagRegion
	if l.nBlocks > 0 {
		var lanes [BlockLen]uint32
		var used uint
		var base uint32
		for b := 0; b < l.nBlocks; b++ {
			block := in[b*BlockLen : (b+1)*BlockLen]
			class := classOf(block[BlockLen-1] - base)
			w := uint(widths[class])
			idx, shift := l.flagPosition(b)
			out[idx] |= class << shift

			if used+w > LaneBits {
				off = flushChunk(out, off, &lanes)
				used = 0
			}
			for j, v := range block {
				lanes[j] |= (v - base) << used
			}
			used += w
			base = block[BlockLen-1]
		}
		if used > 0 {
			off = flushChunk(out, off, &lanes)
		}
	}

	if l.tailLen > 0 {
		flagOff := off
		off++
		start := l.tailStart()
		var prev uint32
		if start > 0 {
			prev = in[start-1]
		}
		for k, v := range in[start:] {
			if d := v - prev; d <= math.MaxUint16 {
				binary.LittleEndian.PutUint16(out[off:], uint16(d))
				off += 2
			} else {
				binary.LittleEndian.PutUint32(out[off:], d)
				off += 4
				out[flagOff] |= 1 << k
			}
			prev = v
		}
		// Slack, already zeroed.
		off += 2 * (BlockLen - l.tailLen)
	}

	if invariants.Enabled && alignUp(off, ChunkBytes) != size {
		panic(errors.AssertionFailedf("deltapack: encoded %d bytes, estimated %d", off, size))
	}
	return size
}

// flushChunk writes the lanes as one chunk at out[off:], clears them, and
// returns the offset following the chunk.
func flushChunk(out []byte, off int, lanes *[BlockLen]uint32) int {
	for j := range lanes {
		binary.LittleEndian.PutUint32(out[off+4*j:], lanes[j])
		lanes[j] = 0
	}
	return off + ChunkBytes
}

// checkEncodable returns an error if in holds a value that Encode cannot
// represent.
func checkEncodable(in []uint32) error {
	l := makeLayout(len(in))
	var base uint32
	for b := 0; b < l.nBlocks; b++ {
		block := in[b*BlockLen : (b+1)*BlockLen]
		last := block[BlockLen-1]
		for j, v := range block {
			if v < base || v > last {
				return errors.AssertionFailedf(
					"deltapack: value %d at %d outside block range [%d, %d]", v, b*BlockLen+j, base, last)
			}
		}
		base = last
	}
	for i := l.tailStart(); i < len(in); i++ {
		if in[i] < base {
			return errors.AssertionFailedf("deltapack: tail decreases at %d: %d < %d", i, in[i], base)
		}
		base = in[i]
	}
	return nil
}
