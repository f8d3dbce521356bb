/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package fileutils

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sap/go-generics/slices"
)

var manifestExtensions = []string{".yaml", ".yml"}

// IsManifestFile reports whether the given path carries one of the recognized
// YAML extensions (.yaml or .yml, case-insensitive).
func IsManifestFile(path string) bool {
	return slices.Contains(manifestExtensions, strings.ToLower(filepath.Ext(path)))
}

// FindManifests searches fsys for regular files under dir carrying one of the
// recognized YAML extensions. If recursive is false, only files directly under
// dir are considered. Paths matching one of the exclude globs are dropped; the
// globs are matched against the slash-separated path relative to fsys.
// A non-existent dir yields an empty result, not an error.
// The returned paths are relative to fsys, cleaned and sorted.
func FindManifests(fsys fs.FS, dir string, recursive bool, excludes []glob.Glob) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	paths, err := findManifests(fsys, filepath.Clean(dir), recursive, excludes)
	if err != nil {
		return nil, err
	}
	return slices.Sort(slices.Uniq(paths)), nil
}

func findManifests(fsys fs.FS, dir string, recursive bool, excludes []glob.Glob) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var result []string
	for _, entry := range entries {
		entryPath := filepath.Clean(dir + "/" + entry.Name())
		if slices.Any(excludes, func(g glob.Glob) bool { return g.Match(filepath.ToSlash(entryPath)) }) {
			continue
		}
		if entry.IsDir() {
			if recursive {
				entryResult, err := findManifests(fsys, entryPath, recursive, excludes)
				if err != nil {
					return nil, err
				}
				result = append(result, entryResult...)
			}
			continue
		}
		if entry.Type().IsRegular() && IsManifestFile(entryPath) {
			result = append(result, entryPath)
		}
	}

	return result, nil
}
