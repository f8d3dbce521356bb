/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/sap/go-generics/slices"

	"sigs.k8s.io/kustomize/kyaml/yaml"
)

// Filename returns the default output file name for the given manifest:
// <Kind>-<name>.yaml, with an additional template-marking suffix for
// Deployments since their container images still need substitution.
func Filename(obj *yaml.RNode) string {
	kind := obj.GetKind()
	name := obj.GetName()
	if name == "" {
		name = "unknown"
	}
	ext := ".yaml"
	if kind == deploymentKind {
		ext += TemplateSuffix
	}
	return fmt.Sprintf("%s-%s%s", kind, name, ext)
}

// Writer serializes manifests into a target directory, creating it if needed.
// Existing files of the same name are overwritten, keeping repeated runs
// idempotent.
type Writer struct {
	Dir string
	Log logr.Logger
}

// Write serializes the given manifest to a YAML file under the writer's
// directory, preserving key order. If filename is empty, it is derived via
// Filename(). Manifests without a kind, and manifests of package-level wrapper
// kinds, are skipped unless force is set. Returns the written path, or the
// empty string if the manifest was skipped.
func (w Writer) Write(obj *yaml.RNode, filename string, force bool) (string, error) {
	kind := obj.GetKind()
	if !force && (kind == "" || slices.Contains(skippedKinds, kind)) {
		w.Log.Info("skipping package-level kind", "kind", kind, "name", obj.GetName())
		return "", nil
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", err
	}

	if filename == "" {
		filename = Filename(obj)
	}
	out, err := obj.String()
	if err != nil {
		return "", errors.Wrapf(err, "error serializing manifest %s/%s", kind, obj.GetName())
	}

	path := filepath.Join(w.Dir, filename)
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return "", err
	}
	return path, nil
}
