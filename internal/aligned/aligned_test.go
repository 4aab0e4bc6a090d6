// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package aligned

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteSlice(t *testing.T) {
	for _, n := range []int{0, 1, 7, 31, 32, 33, 100, 4096} {
		b := ByteSlice(n)
		require.Len(t, b, n)
		require.Equal(t, n, cap(b))
		require.True(t, IsAligned(b))
		for i := range b {
			require.Zero(t, b[i])
		}
	}
}
