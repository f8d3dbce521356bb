/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package manifest_test

import (
	"github.com/go-logr/logr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sigs.k8s.io/kustomize/kyaml/yaml"

	"github.com/openshift/pko-tools/pkg/manifest"
)

func parse(doc string) *yaml.RNode {
	obj, err := yaml.Parse(doc)
	Expect(err).NotTo(HaveOccurred())
	return obj
}

var _ = Describe("testing: annotate.go", func() {
	Describe("testing: Annotate()", func() {
		It("should set the phase and collision-protection annotations", func() {
			obj := parse(`
apiVersion: v1
kind: ServiceAccount
metadata:
  name: my-operator
`)
			Expect(manifest.Annotate(obj, manifest.PhaseRBAC)).To(Succeed())
			annotations := obj.GetAnnotations()
			Expect(annotations).To(HaveKeyWithValue(manifest.PhaseAnnotation, "rbac"))
			Expect(annotations).To(HaveKeyWithValue(manifest.CollisionProtectionAnnotation, manifest.CollisionProtectionValue))
		})

		It("should preserve existing annotations", func() {
			obj := parse(`
apiVersion: v1
kind: ServiceAccount
metadata:
  name: my-operator
  annotations:
    some.example.com/keep: "yes"
`)
			Expect(manifest.Annotate(obj, manifest.PhaseRBAC)).To(Succeed())
			Expect(obj.GetAnnotations()).To(HaveKeyWithValue("some.example.com/keep", "yes"))
		})

		It("should be idempotent", func() {
			obj := parse(`
apiVersion: v1
kind: ServiceAccount
metadata:
  name: my-operator
`)
			Expect(manifest.Annotate(obj, manifest.PhaseRBAC)).To(Succeed())
			before, err := obj.String()
			Expect(err).NotTo(HaveOccurred())
			Expect(manifest.Annotate(obj, manifest.PhaseRBAC)).To(Succeed())
			after, err := obj.String()
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})
	})

	Describe("testing: SetImageTemplate()", func() {
		It("should replace the image of every container", func() {
			obj := parse(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-operator
spec:
  template:
    spec:
      containers:
        - name: manager
          image: quay.io/example/my-operator:v1.2.3
        - name: sidecar
          image: quay.io/example/sidecar:latest
`)
			Expect(manifest.SetImageTemplate(obj)).To(Succeed())
			out, err := obj.String()
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(ContainSubstring("quay.io/example"))
			containers, err := obj.Pipe(yaml.Lookup("spec", "template", "spec", "containers"))
			Expect(err).NotTo(HaveOccurred())
			count := 0
			Expect(containers.VisitElements(func(container *yaml.RNode) error {
				image, err := container.Pipe(yaml.Lookup("image"))
				Expect(err).NotTo(HaveOccurred())
				Expect(yaml.GetValue(image)).To(Equal(manifest.ImagePlaceholder))
				count++
				return nil
			})).To(Succeed())
			Expect(count).To(Equal(2))
		})

		It("should leave manifests without a container list unchanged", func() {
			obj := parse(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-operator
spec:
  replicas: 1
`)
			before, err := obj.String()
			Expect(err).NotTo(HaveOccurred())
			Expect(manifest.SetImageTemplate(obj)).To(Succeed())
			after, err := obj.String()
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})
	})

	Describe("testing: AnnotateAll()", func() {
		It("should annotate known kinds and pass through unknown kinds", func() {
			objects := []*yaml.RNode{
				parse("apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: things.example.com\n"),
				parse("apiVersion: v1\nkind: ServiceAccount\nmetadata:\n  name: my-operator\n"),
				parse("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: unrelated\n"),
				parse("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: another\n"),
			}
			result := manifest.AnnotateAll(objects, logr.Discard())
			Expect(result.Objects).To(HaveLen(4))
			Expect(result.UnhandledKinds).To(Equal([]string{"ConfigMap"}))
			Expect(result.Objects[0].GetAnnotations()).To(HaveKeyWithValue(manifest.PhaseAnnotation, "crds"))
			Expect(result.Objects[1].GetAnnotations()).To(HaveKeyWithValue(manifest.PhaseAnnotation, "rbac"))
			Expect(result.Objects[2].GetAnnotations()).NotTo(HaveKey(manifest.PhaseAnnotation))
		})

		It("should not report documents without a kind", func() {
			objects := []*yaml.RNode{
				parse("metadata:\n  name: fragment\n"),
				parse("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: unrelated\n"),
			}
			result := manifest.AnnotateAll(objects, logr.Discard())
			Expect(result.Objects).To(HaveLen(2))
			Expect(result.UnhandledKinds).To(Equal([]string{"ConfigMap"}))
		})

		It("should template container images of Deployments", func() {
			objects := []*yaml.RNode{
				parse(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-operator
spec:
  template:
    spec:
      containers:
        - name: manager
          image: quay.io/example/my-operator:v1.2.3
`),
			}
			result := manifest.AnnotateAll(objects, logr.Discard())
			Expect(result.UnhandledKinds).To(BeEmpty())
			Expect(result.Objects[0].GetAnnotations()).To(HaveKeyWithValue(manifest.PhaseAnnotation, "deploy"))
			out, err := result.Objects[0].String()
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(manifest.ImagePlaceholder))
		})
	})

	DescribeTable("testing: PhaseForKind()",
		func(kind string, expectedPhase manifest.Phase, expectedOk bool) {
			phase, ok := manifest.PhaseForKind(kind)
			Expect(ok).To(Equal(expectedOk))
			Expect(phase).To(Equal(expectedPhase))
		},
		Entry(nil, "CustomResourceDefinition", manifest.PhaseCRDs, true),
		Entry(nil, "ClusterRole", manifest.PhaseRBAC, true),
		Entry(nil, "ClusterRoleBinding", manifest.PhaseRBAC, true),
		Entry(nil, "Role", manifest.PhaseRBAC, true),
		Entry(nil, "RoleBinding", manifest.PhaseRBAC, true),
		Entry(nil, "ServiceAccount", manifest.PhaseRBAC, true),
		Entry(nil, "Service", manifest.PhaseDeploy, true),
		Entry(nil, "ServiceMonitor", manifest.PhaseDeploy, true),
		Entry(nil, "Deployment", manifest.PhaseDeploy, true),
		Entry(nil, "ConfigMap", manifest.Phase(""), false),
		Entry(nil, "Secret", manifest.Phase(""), false),
	)
})
