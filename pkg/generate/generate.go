/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package generate

import (
	"bytes"
	"embed"
	"encoding/json"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/openshift/pko-tools/internal/templatex"
	"github.com/openshift/pko-tools/pkg/repository"
)

//go:embed templates
var templates embed.FS

// BoilerplateBranch is the default branch of the shared pipeline repository;
// the boilerplate repository still uses master.
const BoilerplateBranch = "master"

// Config carries the dynamic inputs of the artifact generators.
type Config struct {
	OperatorName      string `json:"operatorName"`
	RepositoryURL     string `json:"repositoryURL"`
	DefaultBranch     string `json:"defaultBranch"`
	BoilerplateBranch string `json:"boilerplateBranch"`
}

// NewConfig derives the generator configuration from the repository context.
func NewConfig(repo *repository.Context) Config {
	return Config{
		OperatorName:      repo.OperatorName,
		RepositoryURL:     repo.UpstreamURL,
		DefaultBranch:     repo.DefaultBranch,
		BoilerplateBranch: BoilerplateBranch,
	}
}

func (c Config) toMap() map[string]any {
	raw, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		panic(err)
	}
	return result
}

// renderTemplate renders the embedded template with the given data. Templates
// emitting pipelines-as-code placeholders use the alternate [[ ]] delimiters so
// that literal {{ }} expressions pass through unchanged.
func renderTemplate(name string, data map[string]any, leftDelim string, rightDelim string) ([]byte, error) {
	raw, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return nil, err
	}
	tmpl := template.New(name).
		Delims(leftDelim, rightDelim).
		Funcs(sprig.TxtFuncMap()).
		Funcs(templatex.FuncMap()).
		Option("missingkey=error")
	if _, err := tmpl.Parse(string(raw)); err != nil {
		return nil, errors.Wrapf(err, "error parsing template %s", name)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, errors.Wrapf(err, "error rendering template %s", name)
	}
	return out.Bytes(), nil
}

func checkDirectoryExists(path string) error {
	fsinfo, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fsinfo.IsDir() {
		return errors.Errorf("not a directory: %s", path)
	}
	return nil
}
