// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package deltapack implements a block-oriented delta codec for non-decreasing
// sequences of uint32 values, such as sorted neighbor lists.
//
// A stream of n values is laid out as:
//
//	+--------------+-------------------+------------------------------+
//	| flags region | payload chunks    | tail                         |
//	+--------------+-------------------+------------------------------+
//
// The input is split into n/8 blocks of 8 values. Each value of a block is
// stored as its difference from the last value of the previous block (0 for
// the first block), using the smallest width class able to hold the block's
// last (and therefore largest) difference. The 4-bit width class of every
// block is recorded in the flags region. Blocks are packed side by side into
// 32-byte chunks of 8 little-endian uint32 lanes; lane j of a chunk holds the
// j-th difference of every block in the chunk, each shifted by the number of
// bits used by the preceding blocks of the chunk. A block that does not fit in
// the remaining bits of a chunk starts a new chunk.
//
// The n%8 remaining values form the tail: a flag byte followed by one
// difference per value (relative to the preceding value, or to 0 for the
// first value of the sequence) stored as a uint16, or as a uint32 when the
// corresponding flag bit is set. The tail is followed by 2*(8-n%8) bytes of
// slack so that a decoder may read a fixed number of fields.
//
// The flags region is rounded up to 32 bytes, and so is the whole stream. The
// flag bytes of every complete group of 64 blocks are interleaved the way a
// 256-bit vector unit would split them: byte 32g+i holds the class of block
// 64g+i in its low nibble and the class of block 64g+32+i in its high nibble.
// The flags of the remaining blocks are stored pairwise, the even block in the
// low nibble.
//
// The number of values is not recorded in the stream; callers carry it on the
// side.
package deltapack

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

const (
	// BlockLen is the number of values in a block.
	BlockLen = 8
	// ChunkBytes is the size of a payload chunk and the alignment of the
	// flags region and of the whole stream.
	ChunkBytes = 32
	// LaneBits is the number of bits in a chunk lane.
	LaneBits = 32

	// flagGroupBlocks is the number of blocks whose flags are interleaved
	// across one 32-byte group of the flags region.
	flagGroupBlocks = 2 * ChunkBytes
	// tailFields is the maximum number of values in a tail.
	tailFields = BlockLen - 1
)

// widths maps a width class to its bit width.
var widths = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 16, 20, 32}

// masks maps a width class to the mask selecting its low bits.
var masks [16]uint32

// classByLeadingZeros maps the number of leading zeros of a difference to the
// smallest width class able to hold it.
var classByLeadingZeros [LaneBits + 1]uint8

func init() {
	for c, w := range widths {
		masks[c] = uint32(uint64(1)<<w - 1)
	}
	for lz := 0; lz <= LaneBits; lz++ {
		c := 0
		for int(widths[c]) < LaneBits-lz {
			c++
		}
		classByLeadingZeros[lz] = uint8(c)
	}
}

// classOf returns the width class of d.
func classOf(d uint32) uint8 {
	return classByLeadingZeros[bits.LeadingZeros32(d)]
}

// Width returns the bit width of the given width class.
func Width(class uint8) int {
	return int(widths[class&0xF])
}

func alignUp[T constraints.Integer](v, align T) T {
	return (v + align - 1) / align * align
}

// layout describes the fixed regions of a stream of n values.
type layout struct {
	nBlocks int
	// nFlagBytes is the number of flag bytes holding block classes.
	nFlagBytes int
	// flagRegion is nFlagBytes rounded up to ChunkBytes.
	flagRegion int
	// groups is the number of complete interleaved flag groups.
	groups int
	// tailLen is the number of values following the last block.
	tailLen int
}

func makeLayout(n int) layout {
	l := layout{
		nBlocks: n / BlockLen,
		tailLen: n % BlockLen,
	}
	if l.nBlocks > 0 {
		l.nFlagBytes = (l.nBlocks + 1) / 2
		l.flagRegion = alignUp(l.nFlagBytes, ChunkBytes)
		l.groups = l.nFlagBytes / ChunkBytes
	}
	return l
}

// tailStart returns the index of the first tail value.
func (l layout) tailStart() int {
	return l.nBlocks * BlockLen
}

// flagPosition returns the flags region byte holding the class of block k, and
// the shift of its nibble within that byte.
func (l layout) flagPosition(k int) (idx int, shift uint) {
	if k < l.groups*flagGroupBlocks {
		g, i := k/flagGroupBlocks, k%flagGroupBlocks
		if i < ChunkBytes {
			return g*ChunkBytes + i, 0
		}
		return g*ChunkBytes + i - ChunkBytes, 4
	}
	j := k - l.groups*flagGroupBlocks
	return l.groups*ChunkBytes + j/2, uint(j&1) * 4
}
