// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

//go:build !linux

package numa

// Pin is a no-op on platforms without thread affinity support.
func Pin(cpus []int) (unpin func(), err error) {
	return func() {}, nil
}
