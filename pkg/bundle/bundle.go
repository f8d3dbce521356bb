/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	appsv1 "k8s.io/api/apps/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/kustomize/kyaml/kio"
	kyaml "sigs.k8s.io/yaml"
)

// versionBase is the leading part of generated bundle versions; the commit
// count and hash are appended, e.g. 0.1.189-3f73a592.
const versionBase = "0.1"

const crdFileSuffix = "_crd.yaml"

// Options control the bundle generation.
type Options struct {
	// Directory the versioned bundle is written to.
	OutputDir string
	// Version the generated ClusterServiceVersion replaces.
	PreviousVersion string
	// Number of commits reachable from HEAD, part of the generated version.
	CommitCount int
	// Abbreviated HEAD commit hash, part of the generated version.
	CommitHash string
	// Operator image the CSV deployment is switched to.
	OperatorImage string
	OperatorName  string
	// Path to the ClusterServiceVersion template.
	CSVTemplatePath string
	// Directory holding the operator's deployment manifests (role.yaml,
	// operator.yaml and the crds subdirectory).
	DeployDir string
}

// Version returns the full bundle version composed from the commit count and hash.
func (o Options) Version() string {
	return fmt.Sprintf("%s.%d-%s", versionBase, o.CommitCount, o.CommitHash)
}

// Generate composes the ClusterServiceVersion for an OLM bundle: it copies the
// CRD files into the versioned output directory, and stitches the operator's
// Role rules and Deployment spec (with the image reference overridden) into the
// CSV template. Returns the path of the written CSV.
func Generate(opts Options, log logr.Logger) (string, error) {
	fullVersion := opts.Version()
	versionDir := filepath.Join(opts.OutputDir, fullVersion)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return "", err
	}

	if err := copyCRDFiles(filepath.Join(opts.DeployDir, "crds"), versionDir, log); err != nil {
		return "", err
	}

	csv, err := loadCSVTemplate(opts.CSVTemplatePath)
	if err != nil {
		return "", err
	}

	clusterPermissions, err := clusterPermissionsFromRole(filepath.Join(opts.DeployDir, "role.yaml"), opts.OperatorName)
	if err != nil {
		return "", err
	}
	if err := unstructured.SetNestedSlice(csv.Object, clusterPermissions, "spec", "install", "spec", "clusterPermissions"); err != nil {
		return "", errors.Wrap(err, "error setting clusterPermissions")
	}

	deploymentSpec, err := deploymentSpecFromManifest(filepath.Join(opts.DeployDir, "operator.yaml"), opts.OperatorImage)
	if err != nil {
		return "", err
	}
	if err := setCSVDeploymentSpec(csv, deploymentSpec); err != nil {
		return "", err
	}

	csv.SetName(fmt.Sprintf("%s.v%s", opts.OperatorName, fullVersion))
	if err := unstructured.SetNestedField(csv.Object, fullVersion, "spec", "version"); err != nil {
		return "", err
	}
	if err := unstructured.SetNestedField(csv.Object, fmt.Sprintf("%s.v%s", opts.OperatorName, opts.PreviousVersion), "spec", "replaces"); err != nil {
		return "", err
	}

	annotations := csv.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations["createdAt"] = time.Now().UTC().Format("2006-01-02T15:04:05Z")
	csv.SetAnnotations(annotations)

	out, err := kyaml.Marshal(csv.Object)
	if err != nil {
		return "", errors.Wrap(err, "error serializing ClusterServiceVersion")
	}
	path := filepath.Join(versionDir, fmt.Sprintf("%s.v%s.clusterserviceversion.yaml", opts.OperatorName, fullVersion))
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// copyCRDFiles copies all CRD manifests from the deploy tree into the bundle.
func copyCRDFiles(crdDir string, versionDir string, log logr.Logger) error {
	entries, err := os.ReadDir(crdDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("no CRD directory found; skipping CRD files", "dir", crdDir)
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), crdFileSuffix) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(crdDir, entry.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(versionDir, entry.Name()), raw, 0644); err != nil {
			return err
		}
		log.Info("copied CRD file into bundle", "file", entry.Name())
	}
	return nil
}

func loadCSVTemplate(path string) (*unstructured.Unstructured, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading CSV template")
	}
	var data map[string]any
	if err := kyaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "error parsing CSV template")
	}
	return &unstructured.Unstructured{Object: data}, nil
}

// clusterPermissionsFromRole converts the operator Role into the CSV's
// clusterPermissions entry.
func clusterPermissionsFromRole(path string, serviceAccountName string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading operator role")
	}
	var role rbacv1.Role
	if err := kyaml.Unmarshal(raw, &role); err != nil {
		return nil, errors.Wrap(err, "error parsing operator role")
	}
	roleMap, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&role)
	if err != nil {
		return nil, err
	}
	return []any{
		map[string]any{
			"rules":              roleMap["rules"],
			"serviceAccountName": serviceAccountName,
		},
	}, nil
}

// deploymentSpecFromManifest extracts the spec of the first Deployment document
// in the given manifest file, with the image of its first container overridden.
func deploymentSpecFromManifest(path string, image string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading operator deployment")
	}
	documents, err := kio.FromBytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing operator deployment")
	}
	if len(documents) == 0 {
		return nil, errors.Errorf("no documents found in %s", path)
	}

	var deployment appsv1.Deployment
	serialized, err := documents[0].String()
	if err != nil {
		return nil, err
	}
	if err := kyaml.Unmarshal([]byte(serialized), &deployment); err != nil {
		return nil, errors.Wrap(err, "error parsing operator deployment")
	}
	if len(deployment.Spec.Template.Spec.Containers) == 0 {
		return nil, errors.Errorf("operator deployment in %s has no containers", path)
	}
	deployment.Spec.Template.Spec.Containers[0].Image = image

	deploymentMap, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&deployment)
	if err != nil {
		return nil, err
	}
	spec, ok := deploymentMap["spec"].(map[string]any)
	if !ok {
		return nil, errors.Errorf("operator deployment in %s has no spec", path)
	}
	return spec, nil
}

func setCSVDeploymentSpec(csv *unstructured.Unstructured, spec map[string]any) error {
	deployments, ok, err := unstructured.NestedSlice(csv.Object, "spec", "install", "spec", "deployments")
	if err != nil {
		return errors.Wrap(err, "error reading CSV deployments")
	}
	if !ok || len(deployments) == 0 {
		return errors.New("CSV template does not declare any deployments")
	}
	deployment, ok := deployments[0].(map[string]any)
	if !ok {
		return errors.New("CSV template deployment has unexpected structure")
	}
	deployment["spec"] = spec
	return unstructured.SetNestedSlice(csv.Object, deployments, "spec", "install", "spec", "deployments")
}
