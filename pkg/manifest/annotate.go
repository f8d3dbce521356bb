/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/sap/go-generics/slices"

	"sigs.k8s.io/kustomize/kyaml/yaml"
)

// Annotate assigns the given deployment phase to the manifest by setting the
// phase annotation, and additionally sets the collision-protection annotation.
// Existing annotations are preserved; reapplying the same phase is idempotent.
func Annotate(obj *yaml.RNode, phase Phase) error {
	if err := obj.PipeE(yaml.SetAnnotation(PhaseAnnotation, string(phase))); err != nil {
		return errors.Wrapf(err, "error setting annotation %s", PhaseAnnotation)
	}
	if err := obj.PipeE(yaml.SetAnnotation(CollisionProtectionAnnotation, CollisionProtectionValue)); err != nil {
		return errors.Wrapf(err, "error setting annotation %s", CollisionProtectionAnnotation)
	}
	return nil
}

// SetImageTemplate replaces every container image reference under the pod
// template with the image placeholder. The rewrite is best-effort: a manifest
// lacking the nested container list is left unchanged.
func SetImageTemplate(obj *yaml.RNode) error {
	containers, err := obj.Pipe(yaml.Lookup("spec", "template", "spec", "containers"))
	if err != nil {
		return errors.Wrap(err, "error looking up pod template containers")
	}
	if containers == nil {
		return nil
	}
	return containers.VisitElements(func(container *yaml.RNode) error {
		return container.PipeE(yaml.SetField("image", yaml.NewStringRNode(ImagePlaceholder)))
	})
}

// AnnotateResult is the outcome of annotating a set of manifests.
type AnnotateResult struct {
	// All manifests, annotated where their kind is recognized.
	Objects []*yaml.RNode
	// Kinds that were passed through unannotated; these need operator review
	// before the package is built.
	UnhandledKinds []string
}

// AnnotateAll assigns deployment phases to all given manifests based on their
// declared kind. Deployments additionally get their container images templated.
// Manifests of unrecognized kinds are passed through unannotated and reported
// via UnhandledKinds; per-manifest failures are logged and the affected manifest
// is passed through unmodified.
func AnnotateAll(objects []*yaml.RNode, log logr.Logger) AnnotateResult {
	var result AnnotateResult

	for _, obj := range objects {
		kind := obj.GetKind()
		phase, ok := PhaseForKind(kind)
		if !ok {
			log.Info("unhandled kind; passing through without phase annotation", "kind", kind, "name", obj.GetName())
			if kind != "" {
				result.UnhandledKinds = append(result.UnhandledKinds, kind)
			}
			result.Objects = append(result.Objects, obj)
			continue
		}
		if err := Annotate(obj, phase); err != nil {
			log.Error(err, "could not annotate manifest; passing through unmodified", "kind", kind, "name", obj.GetName())
			result.Objects = append(result.Objects, obj)
			continue
		}
		if kind == deploymentKind {
			if err := SetImageTemplate(obj); err != nil {
				log.Error(err, "could not template container images", "kind", kind, "name", obj.GetName())
			}
		}
		result.Objects = append(result.Objects, obj)
	}

	result.UnhandledKinds = slices.Uniq(result.UnhandledKinds)
	return result
}
