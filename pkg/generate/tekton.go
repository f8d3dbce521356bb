/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"sigs.k8s.io/kustomize/kyaml/yaml"
)

type tektonParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// tektonVariant describes the differences between the generated pipelines.
type tektonVariant struct {
	suffix           string
	event            string
	cancelInProgress bool
	imageTag         string
	additionalParams []tektonParam
}

var tektonVariants = []tektonVariant{
	{
		suffix:   "push",
		event:    "push",
		imageTag: "{{revision}}",
	},
	{
		suffix:           "pull-request",
		event:            "pull_request",
		cancelInProgress: true,
		imageTag:         "on-pr-{{revision}}",
		additionalParams: []tektonParam{{Name: "image-expires-after", Value: "3d"}},
	},
}

// ConvertPipelineRun rewrites an existing PipelineRun manifest in place: an
// inline pipelineSpec and any taskRunSpecs are dropped and replaced with a
// pipelineRef resolving the shared boilerplate build pipeline. All other
// fields are preserved, including key order.
func ConvertPipelineRun(config Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading pipeline manifest %s", path)
	}
	obj, err := yaml.Parse(string(raw))
	if err != nil {
		return errors.Wrapf(err, "error parsing pipeline manifest %s", path)
	}

	spec, err := obj.Pipe(yaml.LookupCreate(yaml.MappingNode, "spec"))
	if err != nil {
		return err
	}
	if err := spec.PipeE(yaml.Clear("pipelineSpec")); err != nil {
		return err
	}
	if err := spec.PipeE(yaml.Clear("taskRunSpecs")); err != nil {
		return err
	}

	ref, err := yaml.Parse(fmt.Sprintf(`resolver: git
params:
  - name: url
    value: https://github.com/openshift/boilerplate
  - name: revision
    value: %s
  - name: pathInRepo
    value: pipelines/docker-build-oci-ta/pipeline.yaml
`, config.BoilerplateBranch))
	if err != nil {
		return err
	}
	if err := spec.PipeE(yaml.SetField("pipelineRef", ref)); err != nil {
		return err
	}

	out, err := obj.String()
	if err != nil {
		return errors.Wrapf(err, "error serializing pipeline manifest %s", path)
	}
	return os.WriteFile(path, []byte(out), 0644)
}

// WriteTektonPipelines renders the push and pull-request build pipelines into
// the given directory, which must already exist. The pipelines differ only in
// trigger event, cancellation behavior, image tag prefix and an image expiry
// parameter on the pull-request variant. Returns the written paths.
func WriteTektonPipelines(config Config, dir string) ([]string, error) {
	if err := checkDirectoryExists(dir); err != nil {
		return nil, errors.Wrapf(err, "operator does not contain a %s folder", dir)
	}

	var paths []string
	for _, variant := range tektonVariants {
		data := config.toMap()
		data["event"] = variant.event
		data["cancelInProgress"] = cast.ToString(variant.cancelInProgress)
		data["imageTag"] = variant.imageTag
		data["additionalParams"] = variant.additionalParams

		// the rendered pipeline carries literal {{ }} pipelines-as-code placeholders
		out, err := renderTemplate("tekton-pipeline.yaml.tpl", data, "[[", "]]")
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, fmt.Sprintf("%s-pko-%s.yaml", config.OperatorName, variant.suffix))
		if err := os.WriteFile(path, out, 0644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}
