// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package binfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	data := []byte{0x05, 0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	f := New(data)
	f.CommentLine("header")
	f.Byte("flags")
	f.HexBytesln(4, "payload")
	require.Equal(t, uint64(0x0201), f.PeekUint(2))
	f.Line(2).HexBytes(1).Append(" ").HexBytes(1).Done("pair")
	require.False(t, f.More())
	require.Equal(t, 0, f.Remaining())

	want := "# header\n" +
		"0-1: b 00000101 # flags\n" +
		"1-5: x deadbeef # payload\n" +
		"5-7: 01 02      # pair\n"
	require.Equal(t, want, f.String())
}

func TestFormatterContinuedLines(t *testing.T) {
	f := New(make([]byte, 6)).LineWidth(4)
	f.HexBytesln(6, "zeros")
	want := "0-2: x 0000 # zeros\n" +
		"2-4: x 0000 # (continued...)\n" +
		"4-6: x 0000 # (continued...)\n"
	require.Equal(t, want, f.String())
}
