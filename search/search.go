// Package search discovers capture files under a directory tree, adapted
// from the teacher project's search/search.go trawl/FindGsf functions: the
// same recursive-match-and-collect shape, generalized from "*.gsf" over a
// TileDB VFS to "*.pcap"/"*.pcapng" over the local filesystem.
package search

import (
	"io/fs"
	"path/filepath"
)

// patterns a capture file is recognised by.
var patterns = []string{"*.pcap", "*.pcapng"}

// FindCaptures recursively searches root for files matching any of
// patterns and returns their paths.
//
// This walks the local filesystem with the standard library's
// filepath.WalkDir rather than through a third-party VFS abstraction: the
// teacher's trawl used TileDB's VFS because GSF files routinely live in
// object storage behind a TileDB config, but BeeFI's core owns no
// persistence layer (spec.md 1) and nothing in this module has a TileDB
// context to hand this a config for, so a plain directory walk is the only
// thing available to ground this on.
func FindCaptures(root string) ([]string, error) {
	items := make([]string, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, pattern := range patterns {
			match, err := filepath.Match(pattern, filepath.Base(path))
			if err != nil {
				return err
			}
			if match {
				items = append(items, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}
