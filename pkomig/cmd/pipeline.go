/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openshift/pko-tools/pkg/generate"
)

const convertPipelineUsage = `Rewrite PipelineRun manifests to reference the shared boilerplate build pipeline`

func newConvertPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "convert-pipeline FILE...",
		Short:        "Rewrite PipelineRun manifests to use a pipelineRef",
		Long:         convertPipelineUsage,
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config := generate.Config{BoilerplateBranch: generate.BoilerplateBranch}
			for _, arg := range args {
				path, err := expandPath(arg)
				if err != nil {
					return err
				}
				if err := generate.ConvertPipelineRun(config, path); err != nil {
					return err
				}
				fmt.Printf("Rewrote %s to use the boilerplate pipelineRef\n", path)
			}
			return nil
		},
	}
	return cmd
}
