/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"github.com/sap/go-generics/slices"

	"sigs.k8s.io/kustomize/kyaml/yaml"
	kyaml "sigs.k8s.io/yaml"
)

// PackageManifestFilename is the fixed name of the package descriptor file.
const PackageManifestFilename = "manifest.yaml"

// PackageManifest is the top-level package descriptor expected by
// package-operator at the root of the package image.
type PackageManifest struct {
	APIVersion string                  `json:"apiVersion"`
	Kind       string                  `json:"kind"`
	Metadata   PackageManifestMetadata `json:"metadata"`
	Spec       PackageManifestSpec     `json:"spec"`
}

type PackageManifestMetadata struct {
	Name string `json:"name"`
}

type PackageManifestSpec struct {
	Scopes             []string            `json:"scopes"`
	Phases             []PackagePhase      `json:"phases"`
	AvailabilityProbes []AvailabilityProbe `json:"availabilityProbes"`
	Config             PackageConfig       `json:"config"`
}

type PackagePhase struct {
	Name string `json:"name"`
}

// AvailabilityProbe asserts readiness of the objects selected by Selector.
type AvailabilityProbe struct {
	Probes   []Probe       `json:"probes"`
	Selector ProbeSelector `json:"selector"`
}

type Probe struct {
	Condition   *ProbeCondition   `json:"condition,omitempty"`
	FieldsEqual *ProbeFieldsEqual `json:"fieldsEqual,omitempty"`
}

type ProbeCondition struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type ProbeFieldsEqual struct {
	FieldA string `json:"fieldA"`
	FieldB string `json:"fieldB"`
}

type ProbeSelector struct {
	Kind KindSelector `json:"kind"`
}

type KindSelector struct {
	Group string `json:"group"`
	Kind  string `json:"kind"`
}

type PackageConfig struct {
	OpenAPIV3Schema SchemaProps `json:"openAPIV3Schema"`
}

type SchemaProps struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Default     string                 `json:"default,omitempty"`
	Properties  map[string]SchemaProps `json:"properties,omitempty"`
}

// NewPackageManifest synthesizes the package descriptor for the given operator:
// the fixed phase list, a readiness probe for Deployment workloads, and a
// configuration schema exposing the image to deploy.
func NewPackageManifest(operatorName string) *PackageManifest {
	return &PackageManifest{
		APIVersion: "manifests.package-operator.run/v1alpha1",
		Kind:       "PackageManifest",
		Metadata:   PackageManifestMetadata{Name: operatorName},
		Spec: PackageManifestSpec{
			Scopes: []string{"Cluster"},
			Phases: slices.Collect(Phases(), func(phase Phase) PackagePhase { return PackagePhase{Name: string(phase)} }),
			AvailabilityProbes: []AvailabilityProbe{
				{
					Probes: []Probe{
						{Condition: &ProbeCondition{Type: "Available", Status: "True"}},
						{FieldsEqual: &ProbeFieldsEqual{FieldA: ".status.updatedReplicas", FieldB: ".status.replicas"}},
					},
					Selector: ProbeSelector{Kind: KindSelector{Group: "apps", Kind: deploymentKind}},
				},
			},
			Config: PackageConfig{
				OpenAPIV3Schema: SchemaProps{
					Type: "object",
					Properties: map[string]SchemaProps{
						"image": {
							Type:        "string",
							Description: "Operator image to deploy",
							Default:     "None",
						},
					},
				},
			},
		},
	}
}

// ToRNode renders the descriptor as a yaml node suitable for the Writer.
func (m *PackageManifest) ToRNode() (*yaml.RNode, error) {
	raw, err := kyaml.Marshal(m)
	if err != nil {
		return nil, err
	}
	return yaml.Parse(string(raw))
}
