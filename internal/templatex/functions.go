/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package templatex

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	kyaml "sigs.k8s.io/yaml"
)

// template FuncMap generator
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"toYaml":   toYaml,
		"fromYaml": fromYaml,
		"toJson":   toJson,
		"fromJson": fromJson,
		"required": required,
	}
}

func toYaml(data any) (string, error) {
	raw, err := kyaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(raw), "\n"), nil
}

func fromYaml(data string) (map[string]any, error) {
	var res map[string]any
	if err := kyaml.Unmarshal([]byte(data), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func toJson(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func fromJson(data string) (map[string]any, error) {
	var res map[string]any
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func required(warn string, data any) (any, error) {
	if data == nil {
		return data, errors.New(warn)
	} else if s, ok := data.(string); ok {
		if s == "" {
			return data, errors.New(warn)
		}
	}
	return data, nil
}
