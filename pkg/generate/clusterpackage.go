/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package generate

import (
	"os"
	"path/filepath"

	"github.com/openshift/pko-tools/pkg/manifest"
)

// ClusterPackageFilename is the fixed name of the generated ClusterPackage template.
const ClusterPackageFilename = "clusterpackage.yaml"

// WriteClusterPackageTemplate renders the OpenShift Template wrapping the
// SelectorSyncSet that delivers the ClusterPackage to managed clusters. The
// target directory is created if absent. Returns the written path.
func WriteClusterPackageTemplate(config Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data := config.toMap()
	data["collisionProtectionAnnotation"] = manifest.CollisionProtectionAnnotation
	data["collisionProtectionValue"] = manifest.CollisionProtectionValue

	out, err := renderTemplate("clusterpackage.yaml.tpl", data, "{{", "}}")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ClusterPackageFilename)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", err
	}
	return path, nil
}
