/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/sap/go-generics/slices"
	"github.com/spf13/cobra"

	"github.com/openshift/pko-tools/pkg/generate"
	"github.com/openshift/pko-tools/pkg/manifest"
	"github.com/openshift/pko-tools/pkg/repository"
)

const migrateUsage = `Convert OLM manifests to PKO (Package Operator) format`

type migrateOptions struct {
	folder           string
	output           string
	noRecursive      bool
	excludes         []string
	noDockerfile     bool
	noTekton         bool
	noClusterPackage bool
	yes              bool
}

func newMigrateCmd() *cobra.Command {
	options := &migrateOptions{}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Convert OLM manifests to PKO format",
		Long:         migrateUsage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			log := newLogger()

			if !options.yes {
				printMigrationInfo()
				if !confirm("Do you want to proceed with the migration?") {
					fmt.Println("Migration cancelled.")
					return nil
				}
			}

			folder, err := expandPath(options.folder)
			if err != nil {
				return err
			}
			output, err := expandPath(options.output)
			if err != nil {
				return err
			}

			if _, err := os.Stat(folder); err != nil {
				if os.IsNotExist(err) {
					return errors.Errorf("folder %s does not exist", folder)
				}
				return err
			}

			excludes := make([]glob.Glob, 0, len(options.excludes))
			for _, pattern := range options.excludes {
				g, err := glob.Compile(pattern)
				if err != nil {
					return errors.Wrapf(err, "invalid exclude pattern %s", pattern)
				}
				excludes = append(excludes, g)
			}

			repo, err := repository.Detect(".", log)
			if err != nil {
				return err
			}

			mode := "recursively"
			if options.noRecursive {
				mode = "non-recursively"
			}
			fmt.Printf("Scanning %s in: %s\n", mode, folder)

			source := manifest.Source{Dir: ".", Recursive: !options.noRecursive, Excludes: excludes}
			objects, err := source.Load(os.DirFS(folder), log)
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Printf("Warning: no YAML manifests found in %s\n", folder)
				return nil
			}

			fmt.Printf("Processing %d manifest(s)...\n", len(objects))
			result := manifest.AnnotateAll(objects, log)

			writer := manifest.Writer{Dir: output, Log: log}
			written := 0
			for _, obj := range result.Objects {
				path, err := writer.Write(obj, "", false)
				if err != nil {
					log.Error(err, "skipping manifest", "kind", obj.GetKind(), "name", obj.GetName())
					continue
				}
				if path != "" {
					fmt.Printf("Writing %s to %s\n", obj.GetKind(), path)
					written++
				}
			}

			pkoManifest, err := manifest.NewPackageManifest(repo.OperatorName).ToRNode()
			if err != nil {
				return err
			}
			descriptorPath, err := writer.Write(pkoManifest, manifest.PackageManifestFilename, true)
			if err != nil {
				return err
			}
			fmt.Printf("Writing PackageManifest to %s\n", descriptorPath)

			config := generate.NewConfig(repo)

			cleanupPath, err := generate.WriteCleanupJob(config, output)
			if err != nil {
				return err
			}
			fmt.Printf("Writing cleanup Job template to %s\n", cleanupPath)

			if options.noDockerfile {
				fmt.Println("Skipping Dockerfile generation (--no-dockerfile)")
			} else {
				fmt.Println("Generating Dockerfile.pko...")
				if _, err := generate.WriteDockerfile(config, "build"); err != nil {
					return err
				}
			}

			if options.noTekton {
				fmt.Println("Skipping Tekton pipeline generation (--no-tekton)")
			} else {
				fmt.Println("Generating Tekton pipeline manifests...")
				if _, err := generate.WriteTektonPipelines(config, ".tekton"); err != nil {
					return err
				}
			}

			if options.noClusterPackage {
				fmt.Println("Skipping ClusterPackage template generation (--no-clusterpackage)")
			} else {
				fmt.Println("Generating ClusterPackage template...")
				if _, err := generate.WriteClusterPackageTemplate(config, "hack/pko"); err != nil {
					return err
				}
			}

			printMigrationSummary(output, cleanupPath, written, result.UnhandledKinds)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.folder, "folder", "f", "deploy", "Folder that contains the source manifests")
	flags.StringVarP(&options.output, "output", "o", "deploy_pko", "Output folder for PKO manifests")
	flags.BoolVar(&options.noRecursive, "no-recursive", false, "Only process files in the top-level folder, not subdirectories")
	flags.StringArrayVar(&options.excludes, "exclude", nil, "Glob pattern for paths to skip during discovery (can be repeated)")
	flags.BoolVar(&options.noDockerfile, "no-dockerfile", false, "Skip generating Dockerfile.pko in the build folder")
	flags.BoolVar(&options.noTekton, "no-tekton", false, "Skip generating Tekton pipeline manifests in the .tekton folder")
	flags.BoolVar(&options.noClusterPackage, "no-clusterpackage", false, "Skip generating the ClusterPackage template in hack/pko")
	flags.BoolVarP(&options.yes, "yes", "y", false, "Skip confirmation prompt and proceed automatically")

	return cmd
}

func printMigrationInfo() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("OLM to PKO (Package Operator) Migration")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
	fmt.Println("This command migrates your operator from OLM to PKO format.")
	fmt.Println()
	fmt.Println("The following will be generated:")
	fmt.Println("  - PKO manifests with phase annotations (crds, rbac, deploy)")
	fmt.Println("  - PackageManifest with phases including cleanup-rbac and cleanup-deploy")
	fmt.Println("  - Dockerfile.pko for building the PKO package (in the build folder)")
	fmt.Println("  - Tekton pipeline manifests for CI/CD (in the .tekton folder)")
	fmt.Println("  - Cleanup-OLM-Job.yaml template for removing old OLM resources")
	fmt.Println("  - ClusterPackage template for deployment (in the hack/pko folder)")
	fmt.Println()
	fmt.Println("IMPORTANT - Post-Migration Steps:")
	fmt.Println("  After migration, you MUST review and deploy the generated")
	fmt.Println("  Cleanup-OLM-Job.yaml file to clean up old OLM resources")
	fmt.Println("  (CSVs, Subscriptions, etc.) from your clusters.")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

func printMigrationSummary(output string, cleanupPath string, written int, unhandledKinds []string) {
	fmt.Println()
	fmt.Printf("Conversion complete! PKO manifests written to %s\n", output)
	fmt.Printf("Total manifests written: %d\n", written)
	if len(unhandledKinds) > 0 {
		fmt.Println()
		fmt.Printf("WARNING: the following kinds were passed through without a phase annotation: %s\n", strings.Join(slices.Sort(unhandledKinds), ", "))
		fmt.Println("Review these manifests before packaging.")
	}
	fmt.Println()
	fmt.Println("IMPORTANT: A cleanup Job template has been generated:")
	fmt.Printf("  %s\n", cleanupPath)
	fmt.Println()
	fmt.Println("Please review and customize this file before deploying it to your cluster.")
	fmt.Println("This Job will clean up old OLM resources (CSVs, Subscriptions, etc.)")
	fmt.Println("The cleanup resources use phases 'cleanup-rbac' and 'cleanup-deploy'.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Ensure a Konflux tenant matching the Tekton pipelines exists")
	fmt.Println("  2. Update the SAAS files that might deploy your operator")
}
