/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

// Annotations applied to every manifest that is assigned a deployment phase.
const (
	PhaseAnnotation               = "package-operator.run/phase"
	CollisionProtectionAnnotation = "package-operator.run/collision-protection"
	CollisionProtectionValue      = "IfNoController"
)

// ImagePlaceholder replaces container image references in Deployment manifests;
// package-operator substitutes it from the package configuration at install time.
const ImagePlaceholder = "{{ .config.image }}"

// TemplateSuffix marks output files that still contain template expressions
// requiring later variable substitution.
const TemplateSuffix = ".gotmpl"

// Phase is a package-operator deployment phase.
type Phase string

const (
	PhaseCRDs          Phase = "crds"
	PhaseNamespace     Phase = "namespace"
	PhaseRBAC          Phase = "rbac"
	PhaseDeploy        Phase = "deploy"
	PhaseCleanupRBAC   Phase = "cleanup-rbac"
	PhaseCleanupDeploy Phase = "cleanup-deploy"
)

// Phases returns all phases in rollout order. The ordering is fixed and is
// written verbatim into the generated PackageManifest.
func Phases() []Phase {
	return []Phase{PhaseCRDs, PhaseNamespace, PhaseRBAC, PhaseDeploy, PhaseCleanupRBAC, PhaseCleanupDeploy}
}

// deploymentKind gets special treatment: templated container images and a
// template-marking output extension.
const deploymentKind = "Deployment"

var phaseForKind = map[string]Phase{
	"CustomResourceDefinition": PhaseCRDs,
	"ClusterRole":              PhaseRBAC,
	"ClusterRoleBinding":       PhaseRBAC,
	"Role":                     PhaseRBAC,
	"RoleBinding":              PhaseRBAC,
	"ServiceAccount":           PhaseRBAC,
	"Service":                  PhaseDeploy,
	"ServiceMonitor":           PhaseDeploy,
	deploymentKind:             PhaseDeploy,
}

// PhaseForKind returns the deployment phase assigned to the given resource kind.
func PhaseForKind(kind string) (Phase, bool) {
	phase, ok := phaseForKind[kind]
	return phase, ok
}

// Package-level wrapper kinds which the writer refuses to write unless forced.
var skippedKinds = []string{"ClusterPackage", "Package", "PackageManifest"}
