// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines definitions shared by the hoshizora packages that do
// not belong anywhere more specific.
package base
