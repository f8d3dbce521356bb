/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package bundle_test

import (
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	kyaml "sigs.k8s.io/yaml"

	"github.com/openshift/pko-tools/pkg/bundle"
)

const csvTemplate = `apiVersion: operators.coreos.com/v1alpha1
kind: ClusterServiceVersion
metadata:
  name: my-operator.vX.Y.Z
  annotations:
    capabilities: Basic Install
spec:
  displayName: my-operator
  install:
    strategy: deployment
    spec:
      deployments:
        - name: my-operator
          spec: {}
`

const operatorRole = `apiVersion: rbac.authorization.k8s.io/v1
kind: Role
metadata:
  name: my-operator
rules:
  - apiGroups:
      - ""
    resources:
      - secrets
    verbs:
      - get
      - list
`

const operatorDeployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-operator
spec:
  replicas: 1
  selector:
    matchLabels:
      name: my-operator
  template:
    metadata:
      labels:
        name: my-operator
    spec:
      serviceAccountName: my-operator
      containers:
        - name: my-operator
          image: REPLACE_IMAGE
`

var _ = Describe("testing: bundle.go", func() {
	var dir string
	var opts bundle.Options

	writeFixture := func(path string, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		writeFixture(filepath.Join(dir, "deploy", "role.yaml"), operatorRole)
		writeFixture(filepath.Join(dir, "deploy", "operator.yaml"), operatorDeployment)
		writeFixture(filepath.Join(dir, "deploy", "crds", "things_crd.yaml"), "apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: things.example.com\n")
		writeFixture(filepath.Join(dir, "deploy", "crds", "notes.txt"), "not a crd")
		writeFixture(filepath.Join(dir, "csv-template.yaml"), csvTemplate)

		opts = bundle.Options{
			OutputDir:       filepath.Join(dir, "bundle"),
			PreviousVersion: "0.1.41-deadbeef",
			CommitCount:     42,
			CommitHash:      "abcd1234",
			OperatorImage:   "quay.io/example/my-operator@sha256:123",
			OperatorName:    "my-operator",
			CSVTemplatePath: filepath.Join(dir, "csv-template.yaml"),
			DeployDir:       filepath.Join(dir, "deploy"),
		}
	})

	loadCSV := func(path string) map[string]any {
		raw, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		var csv map[string]any
		Expect(kyaml.Unmarshal(raw, &csv)).To(Succeed())
		return csv
	}

	Describe("testing: Options.Version()", func() {
		It("should compose the version from commit count and hash", func() {
			Expect(opts.Version()).To(Equal("0.1.42-abcd1234"))
		})
	})

	Describe("testing: Generate()", func() {
		It("should write the CSV into a versioned directory", func() {
			path, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, "bundle", "0.1.42-abcd1234", "my-operator.v0.1.42-abcd1234.clusterserviceversion.yaml")))
			Expect(path).To(BeARegularFile())
		})

		It("should set name, version and replaces", func() {
			path, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			csv := loadCSV(path)
			name, _, err := unstructured.NestedString(csv, "metadata", "name")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("my-operator.v0.1.42-abcd1234"))
			version, _, err := unstructured.NestedString(csv, "spec", "version")
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal("0.1.42-abcd1234"))
			replaces, _, err := unstructured.NestedString(csv, "spec", "replaces")
			Expect(err).NotTo(HaveOccurred())
			Expect(replaces).To(Equal("my-operator.v0.1.41-deadbeef"))
		})

		It("should stamp the creation time and keep template annotations", func() {
			path, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			csv := loadCSV(path)
			annotations, _, err := unstructured.NestedStringMap(csv, "metadata", "annotations")
			Expect(err).NotTo(HaveOccurred())
			Expect(annotations).To(HaveKeyWithValue("capabilities", "Basic Install"))
			Expect(annotations["createdAt"]).To(MatchRegexp(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`))
		})

		It("should stitch the role rules into clusterPermissions", func() {
			path, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			csv := loadCSV(path)
			permissions, _, err := unstructured.NestedSlice(csv, "spec", "install", "spec", "clusterPermissions")
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(HaveLen(1))
			permission := permissions[0].(map[string]any)
			Expect(permission["serviceAccountName"]).To(Equal("my-operator"))
			rules := permission["rules"].([]any)
			Expect(rules).To(HaveLen(1))
			Expect(rules[0].(map[string]any)["resources"]).To(Equal([]any{"secrets"}))
		})

		It("should stitch the deployment spec with the overridden image", func() {
			path, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			csv := loadCSV(path)
			deployments, _, err := unstructured.NestedSlice(csv, "spec", "install", "spec", "deployments")
			Expect(err).NotTo(HaveOccurred())
			Expect(deployments).To(HaveLen(1))
			deployment := deployments[0].(map[string]any)
			Expect(deployment["name"]).To(Equal("my-operator"))
			containers, _, err := unstructured.NestedSlice(deployment, "spec", "template", "spec", "containers")
			Expect(err).NotTo(HaveOccurred())
			Expect(containers).To(HaveLen(1))
			Expect(containers[0].(map[string]any)["image"]).To(Equal("quay.io/example/my-operator@sha256:123"))
		})

		It("should copy only CRD files into the bundle", func() {
			_, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			versionDir := filepath.Join(dir, "bundle", "0.1.42-abcd1234")
			Expect(filepath.Join(versionDir, "things_crd.yaml")).To(BeARegularFile())
			Expect(filepath.Join(versionDir, "notes.txt")).NotTo(BeAnExistingFile())
		})

		It("should tolerate a missing CRD directory", func() {
			Expect(os.RemoveAll(filepath.Join(dir, "deploy", "crds"))).To(Succeed())
			_, err := bundle.Generate(opts, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should fail on a missing CSV template", func() {
			opts.CSVTemplatePath = filepath.Join(dir, "missing.yaml")
			_, err := bundle.Generate(opts, logr.Discard())
			Expect(err).To(HaveOccurred())
		})

		It("should fail on a deployment without containers", func() {
			writeFixture(filepath.Join(dir, "deploy", "operator.yaml"), "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: my-operator\nspec: {}\n")
			_, err := bundle.Generate(opts, logr.Discard())
			Expect(err).To(HaveOccurred())
		})
	})
})
