/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"github.com/spf13/cobra"
)

const shortName = "pkomig"

const rootUsage = `Operator packaging tooling for Package Operator (PKO)

Common actions for pkomig:
- pkomig migrate           Convert OLM manifests to PKO format
- pkomig bundle            Generate an OLM bundle (ClusterServiceVersion)
- pkomig validate          Validate YAML syntax of files or directories
- pkomig convert-pipeline  Rewrite PipelineRun manifests to use a pipelineRef
`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          shortName,
		Short:        "Operator packaging tooling",
		Long:         rootUsage,
		SilenceUsage: true,
	}

	cmd.Flags().SortFlags = false

	cmd.AddCommand(
		newVersionCmd(),
		newMigrateCmd(),
		newBundleCmd(),
		newValidateCmd(),
		newConvertPipelineCmd(),
	)

	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
