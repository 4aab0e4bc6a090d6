// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants gates expensive assertions behind the "invariants" and
// "race" build tags.
package invariants

import "github.com/hoshizora/hoshizora/internal/buildtags"

// RaceEnabled is true if we were built with the "race" build tag.
const RaceEnabled = buildtags.Race

// Integer is a constraint that permits any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}
