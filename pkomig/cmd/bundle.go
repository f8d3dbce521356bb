/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openshift/pko-tools/pkg/bundle"
	"github.com/openshift/pko-tools/pkg/repository"
)

const bundleUsage = `Generate an OLM bundle (ClusterServiceVersion plus CRD copies) for the operator`

type bundleOptions struct {
	previousVersion string
	image           string
	csvTemplate     string
	deployDir       string
	commits         int
	hash            string
}

func newBundleCmd() *cobra.Command {
	options := &bundleOptions{}

	cmd := &cobra.Command{
		Use:          "bundle OUTPUT_DIR",
		Short:        "Generate an OLM bundle",
		Long:         bundleUsage,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			log := newLogger()

			outputDir, err := expandPath(args[0])
			if err != nil {
				return err
			}
			deployDir, err := expandPath(options.deployDir)
			if err != nil {
				return err
			}

			repo, err := repository.Detect(".", log)
			if err != nil {
				return err
			}

			commits := options.commits
			if commits == 0 {
				commits, err = repo.CommitCount()
				if err != nil {
					return err
				}
			}
			hash := options.hash
			if hash == "" {
				hash, err = repo.HeadHash()
				if err != nil {
					return err
				}
			}

			csvTemplate := options.csvTemplate
			if csvTemplate == "" {
				csvTemplate = fmt.Sprintf("config/templates/%s-csv-template.yaml", repo.OperatorName)
			}

			opts := bundle.Options{
				OutputDir:       outputDir,
				PreviousVersion: options.previousVersion,
				CommitCount:     commits,
				CommitHash:      hash,
				OperatorImage:   options.image,
				OperatorName:    repo.OperatorName,
				CSVTemplatePath: csvTemplate,
				DeployDir:       deployDir,
			}
			csvPath, err := bundle.Generate(opts, log)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote ClusterServiceVersion: %s\n", csvPath)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&options.previousVersion, "previous-version", "", "Semantic version of the previous bundle (used as spec.replaces)")
	flags.StringVar(&options.image, "image", "", "Operator image reference to inject into the deployment")
	flags.StringVar(&options.csvTemplate, "csv-template", "", "Path to the ClusterServiceVersion template (defaults to config/templates/<operator>-csv-template.yaml)")
	flags.StringVar(&options.deployDir, "deploy-dir", "deploy", "Folder that contains the operator's deploy manifests")
	flags.IntVar(&options.commits, "commits", 0, "Commit count to use in the version (defaults to the repository's commit count)")
	flags.StringVar(&options.hash, "hash", "", "Commit hash to use in the version (defaults to the repository's HEAD)")
	_ = cmd.MarkFlagRequired("previous-version")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}
