// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package aligned allocates byte slices whose first byte sits on a 32-byte
// boundary, matching the chunk size of deltapack streams.
package aligned

import (
	"fmt"
	"unsafe"
)

// Alignment is the guaranteed alignment, in bytes, of slices returned by
// ByteSlice.
const Alignment = 32

// ByteSlice allocates a new zeroed byte slice of length n whose address is
// Alignment-aligned. Go only guarantees word alignment for make([]byte, n),
// so we over-allocate by up to one alignment unit and slice into the
// backing array.
func ByteSlice(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	a := make([]uint64, (n+Alignment+7)/8)
	ptr := uintptr(unsafe.Pointer(&a[0]))
	skip := int((Alignment - ptr%Alignment) % Alignment)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a)*8)[skip : skip+n : skip+n]

	// Verify alignment.
	if p := uintptr(unsafe.Pointer(&b[0])); p%Alignment != 0 {
		panic(fmt.Sprintf("allocated slice not %d-aligned: pointer %p", Alignment, &b[0]))
	}
	return b
}

// IsAligned reports whether the first byte of b is Alignment-aligned.
func IsAligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%Alignment == 0
}
