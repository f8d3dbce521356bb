/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package generate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DockerfileName is the fixed name of the generated package container build file.
const DockerfileName = "Dockerfile.pko"

// WriteDockerfile renders the container build descriptor for the package image
// into the given build directory, which must already exist. Returns the
// written path.
func WriteDockerfile(config Config, dir string) (string, error) {
	if err := checkDirectoryExists(dir); err != nil {
		return "", errors.Wrapf(err, "operator does not contain a %s folder", dir)
	}

	data := config.toMap()
	data["repositorySubpath"] = strings.TrimPrefix(config.RepositoryURL, "https://github.com/")

	out, err := renderTemplate("dockerfile.tpl", data, "{{", "}}")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, DockerfileName)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", err
	}
	return path, nil
}
