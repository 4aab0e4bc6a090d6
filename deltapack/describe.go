// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package deltapack

import (
	"fmt"

	"github.com/hoshizora/hoshizora/internal/binfmt"
)

// Describe annotates the encoded stream of n values starting at the
// formatter's current offset, region by region.
func Describe(f *binfmt.Formatter, n int) {
	if n == 0 {
		return
	}
	start := f.Offset()
	l := makeLayout(n)
	data := f.Data()[start:]

	if l.nBlocks > 0 {
		f.CommentLine("flags: %d blocks", l.nBlocks)
		for i := 0; i < l.nFlagBytes; i++ {
			lo, hi := flagBlocks(l, i)
			b := f.Data()[f.Offset()]
			f.Byte("%s, %s", describeFlag(l, lo, b&0xF), describeFlag(l, hi, b>>4))
		}
		if pad := l.flagRegion - l.nFlagBytes; pad > 0 {
			f.HexBytesln(pad, "flags padding")
		}

		var used uint
		first, last := -1, -1
		for b := 0; b < l.nBlocks; b++ {
			idx, shift := l.flagPosition(b)
			w := uint(widths[(data[idx]>>shift)&0xF])
			if used+w > LaneBits {
				f.HexBytesln(ChunkBytes, "chunk: blocks %d-%d", first, last)
				used = 0
				first = -1
			}
			if w > 0 && first < 0 {
				first = b
			}
			if first >= 0 {
				last = b
			}
			used += w
		}
		if used > 0 {
			f.HexBytesln(ChunkBytes, "chunk: blocks %d-%d", first, last)
		}
	}

	if l.tailLen > 0 {
		flags := f.Data()[f.Offset()]
		f.Byte("tail flags: %d values", l.tailLen)
		for k := 0; k < l.tailLen; k++ {
			if flags&(1<<k) != 0 {
				f.HexBytesln(4, "delta %d (uint32)", k)
			} else {
				f.HexBytesln(2, "delta %d (uint16)", k)
			}
		}
		f.HexBytesln(2*(BlockLen-l.tailLen), "tail slack")
	}

	if written := f.Offset() - start; written%ChunkBytes != 0 {
		f.HexBytesln(alignUp(written, ChunkBytes)-written, "padding")
	}
}

// flagBlocks returns the blocks whose classes are stored in the low and high
// nibbles of flag byte i.
func flagBlocks(l layout, i int) (lo, hi int) {
	if i < l.groups*ChunkBytes {
		g, j := i/ChunkBytes, i%ChunkBytes
		return g*flagGroupBlocks + j, g*flagGroupBlocks + ChunkBytes + j
	}
	k := l.groups*flagGroupBlocks + 2*(i-l.groups*ChunkBytes)
	return k, k + 1
}

func describeFlag(l layout, block int, class uint8) string {
	if block >= l.nBlocks {
		return "unused"
	}
	return fmt.Sprintf("block %d: %d bits", block, widths[class])
}
