// Copyright 2026 The Hoshizora Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package lint

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ghemawat/stream"
	"github.com/stretchr/testify/require"
)

const root = "../.."

var (
	hoshizoraCopyright = regexp.MustCompile(`^// Copyright \d{4} The Hoshizora Authors\. All rights reserved\.`)
	pebbleCopyright    = regexp.MustCompile(`^// Copyright \d{4} The LevelDB-Go and Pebble Authors\. All rights reserved\.`)
)

// goFiles returns the Go files of the module, relative to root. Directories
// ignored by the go tool are skipped.
func goFiles(t *testing.T) []string {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".go") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

// derivedFiles returns the files NOTICE lists as derived from Pebble.
func derivedFiles(t *testing.T) map[string]bool {
	f, err := os.Open(filepath.Join(root, "NOTICE"))
	require.NoError(t, err)
	defer f.Close()

	derived := make(map[string]bool)
	require.NoError(t, stream.ForEach(
		stream.Sequence(
			stream.ReadLines(f),
			stream.Grep(`^\s+\S+\.go$`),
		), func(s string) {
			derived[strings.TrimSpace(s)] = true
		}))
	return derived
}

func TestCopyright(t *testing.T) {
	derived := derivedFiles(t)
	require.NotEmpty(t, derived)

	seen := make(map[string]bool)
	for _, file := range goFiles(t) {
		seen[file] = true
		data, err := os.ReadFile(filepath.Join(root, file))
		require.NoError(t, err)
		if derived[file] {
			if !pebbleCopyright.Match(data) {
				t.Errorf("%s: derived from Pebble but lacks its copyright line", file)
			}
			continue
		}
		if !hoshizoraCopyright.Match(data) && !pebbleCopyright.Match(data) {
			t.Errorf("%s: missing copyright line", file)
		}
		if pebbleCopyright.Match(data) {
			t.Errorf("%s: carries the Pebble copyright line but is not listed in NOTICE", file)
		}
	}
	for file := range derived {
		if !seen[file] {
			t.Errorf("NOTICE lists %s, which does not exist", file)
		}
	}
}
