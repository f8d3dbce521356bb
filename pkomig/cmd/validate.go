/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/openshift/pko-tools/pkg/validate"
)

const validateUsage = `Validate YAML syntax of manifest files or directories`

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate PATH...",
		Short:        "Validate YAML manifests",
		Long:         validateUsage,
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			log := newLogger()

			var issues []validate.Issue
			for _, arg := range args {
				path, err := expandPath(arg)
				if err != nil {
					return err
				}
				found, err := validate.Path(path, log)
				if err != nil {
					return err
				}
				issues = append(issues, found...)
			}

			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Printf("INVALID %s: %v\n", issue.Path, issue.Err)
				}
				return errors.Errorf("%d file(s) failed validation", len(issues))
			}
			fmt.Println("All files are valid YAML.")
			return nil
		},
	}
	return cmd
}
