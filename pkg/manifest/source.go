/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"io/fs"

	"github.com/go-logr/logr"
	"github.com/gobwas/glob"

	"sigs.k8s.io/kustomize/kyaml/kio"
	"sigs.k8s.io/kustomize/kyaml/yaml"

	"github.com/openshift/pko-tools/internal/fileutils"
)

// Source describes where manifests are read from.
type Source struct {
	// Directory containing the manifests, relative to the filesystem the source is read from.
	Dir string
	// Whether to descend into subdirectories.
	Recursive bool
	// Glob patterns for paths to be skipped.
	Excludes []glob.Glob
}

// Files returns the sorted paths of all manifest files under the source.
// A non-existent source directory yields an empty result, not an error.
func (s Source) Files(fsys fs.FS) ([]string, error) {
	return fileutils.FindManifests(fsys, s.Dir, s.Recursive, s.Excludes)
}

// Load reads all manifest files under the source and parses every YAML document
// found in them. Unreadable or malformed files are skipped with a diagnostic and
// processing continues; the error return is reserved for failures of the
// directory traversal itself.
func (s Source) Load(fsys fs.FS, log logr.Logger) ([]*yaml.RNode, error) {
	paths, err := s.Files(fsys)
	if err != nil {
		return nil, err
	}

	var objects []*yaml.RNode
	for _, path := range paths {
		log.Info("reading manifest file", "path", path)
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			log.Error(err, "skipping unreadable manifest file", "path", path)
			continue
		}
		documents, err := kio.FromBytes(raw)
		if err != nil {
			log.Error(err, "skipping malformed manifest file", "path", path)
			continue
		}
		for _, document := range documents {
			if document.IsNilOrEmpty() {
				continue
			}
			if document.YNode().Kind != yaml.MappingNode {
				log.Info("skipping non-mapping document", "path", path)
				continue
			}
			objects = append(objects, document)
		}
	}

	return objects, nil
}
