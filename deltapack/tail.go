// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package deltapack

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// tailLayout holds the precomputed positions of the tail fields described by
// one tail flag byte.
type tailLayout struct {
	// offsets[k] is the offset of field k relative to the first field;
	// offsets[tailFields] is the size of all fields.
	offsets [tailFields + 1]uint8
	// hiMasks[k] selects the upper 16 bits of field k: 0xFFFF for a uint32
	// field and 0 for a uint16 field.
	hiMasks [tailFields]uint32
}

// tailLayouts is indexed by the tail flag byte. Bit 7 is never set by Encode
// and is ignored.
var tailLayouts [256]tailLayout

func init() {
	for flags := range tailLayouts {
		t := &tailLayouts[flags]
		var off uint8
		for k := 0; k < tailFields; k++ {
			t.offsets[k] = off
			if flags&(1<<k) != 0 {
				t.hiMasks[k] = 0xFFFF
				off += 4
			} else {
				off += 2
			}
		}
		t.offsets[tailFields] = off
	}
}

// unpackTail decodes a tail of len(out) values starting with the tail flag
// byte at in[off]. Values are accumulated from prev. It returns the offset
// following the last tail field.
//
// Every field is read as a low and a high uint16 with the high half masked
// away for uint16 fields, so the reads do not depend on the field widths. The
// high half of a trailing uint16 field lies in the slack written by Encode.
func unpackTail(in []byte, off int, prev uint32, out []uint32) int {
	r := len(out)
	t := &tailLayouts[in[off]]
	fields := in[off+1:]
	if need := int(t.offsets[r-1]) + 4; len(fields) < need {
		panic(errors.AssertionFailedf("deltapack: truncated tail: %d < %d bytes", len(fields), need))
	}
	for k := range out {
		o := t.offsets[k]
		lo := uint32(binary.LittleEndian.Uint16(fields[o:]))
		hi := uint32(binary.LittleEndian.Uint16(fields[o+2:])) & t.hiMasks[k]
		prev += lo | hi<<16
		out[k] = prev
	}
	return off + 1 + int(t.offsets[r])
}
