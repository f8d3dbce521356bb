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

// CleanupJobFilename is the fixed name of the generated cleanup Job template.
const CleanupJobFilename = "Cleanup-OLM-Job.yaml"

// WriteCleanupJob renders the template for the Job that removes the old OLM
// resources (CSVs, Subscriptions) after the package has been migrated. The
// resources carry the cleanup-rbac and cleanup-deploy phases. The template
// needs manual review before being deployed. Returns the written path.
func WriteCleanupJob(config Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data := config.toMap()
	data["phaseAnnotation"] = manifest.PhaseAnnotation
	data["collisionProtectionAnnotation"] = manifest.CollisionProtectionAnnotation
	data["collisionProtectionValue"] = manifest.CollisionProtectionValue
	data["cleanupRbacPhase"] = string(manifest.PhaseCleanupRBAC)
	data["cleanupDeployPhase"] = string(manifest.PhaseCleanupDeploy)

	out, err := renderTemplate("cleanup-job.yaml.tpl", data, "{{", "}}")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, CleanupJobFilename)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", err
	}
	return path, nil
}
