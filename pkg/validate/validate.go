/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package validate

import (
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"sigs.k8s.io/kustomize/kyaml/kio"

	"github.com/openshift/pko-tools/internal/fileutils"
)

// Issue describes a file that failed YAML syntax validation.
type Issue struct {
	Path string
	Err  error
}

// Path validates the YAML syntax of the given file, or of all YAML files
// directly contained in the given directory (non-recursive). Files without a
// recognized YAML extension are ignored. Each syntax failure is reported as an
// Issue and logged; the error return is reserved for a missing or unreadable
// path.
func Path(path string, log logr.Logger) ([]Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot validate %s", path)
	}

	var files []string
	if info.IsDir() {
		names, err := fileutils.FindManifests(os.DirFS(path), ".", false, nil)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			files = append(files, filepath.Join(path, name))
		}
	} else if fileutils.IsManifestFile(path) {
		files = []string{path}
	}

	var issues []Issue
	for _, file := range files {
		log.Info("validating file", "path", file)
		raw, err := os.ReadFile(file)
		if err != nil {
			issues = append(issues, Issue{Path: file, Err: err})
			log.Error(err, "could not read file", "path", file)
			continue
		}
		if _, err := kio.FromBytes(raw); err != nil {
			issues = append(issues, Issue{Path: file, Err: err})
			log.Error(err, "invalid YAML syntax", "path", file)
		}
	}

	return issues, nil
}
