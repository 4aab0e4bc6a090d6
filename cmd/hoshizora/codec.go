// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/hoshizora/hoshizora/deltapack"
	"github.com/hoshizora/hoshizora/internal/aligned"
	"github.com/hoshizora/hoshizora/internal/binfmt"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var codecConfig struct {
	random   int
	maxDelta uint32
	seed     int64
}

var codecCmd = &cobra.Command{
	Use:   "codec [values...]",
	Short: "dump the delta-packed encoding of a sorted sequence",
	Long: `
Encode a non-decreasing sequence of unsigned 32-bit integers, either given as
arguments or generated with --random, and print an annotated dump of the
encoded bytes.
`,
	RunE: runCodec,
}

func runCodec(cmd *cobra.Command, args []string) error {
	var values []uint32
	if codecConfig.random > 0 {
		rng := rand.New(rand.NewSource(uint64(codecConfig.seed)))
		values = make([]uint32, codecConfig.random)
		var v uint32
		for i := range values {
			v += rng.Uint32() % (codecConfig.maxDelta + 1)
			values[i] = v
		}
	} else {
		for _, arg := range args {
			v, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "parsing %q", arg)
			}
			values = append(values, uint32(v))
		}
	}
	if len(values) == 0 {
		return errors.New("no values to encode")
	}
	if !slices.IsSorted(values) {
		return errors.New("values must be non-decreasing")
	}

	buf := aligned.ByteSlice(deltapack.Estimate(values))
	size := deltapack.Encode(values, buf)
	decoded := make([]uint32, len(values))
	consumed := deltapack.Decode(buf, len(values), decoded)
	if !slices.Equal(values, decoded) {
		return errors.AssertionFailedf("decoded values differ from the input")
	}

	f := binfmt.New(buf[:size]).LineWidth(2 * deltapack.ChunkBytes)
	deltapack.Describe(f, len(values))
	out := cmd.OutOrStdout()
	fmt.Fprint(out, f.String())
	fmt.Fprintf(out, "%d values: %d bytes encoded, %d consumed by decode (%.2f bits/value)\n",
		len(values), size, consumed, 8*float64(consumed)/float64(max(len(values), 1)))
	return nil
}
