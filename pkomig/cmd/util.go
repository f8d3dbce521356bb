/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/drone/envsubst"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}

// newLogger returns the diagnostic logger used by all commands; diagnostics go
// to stderr, user-facing progress output goes to stdout via fmt.
func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix+": "+args)
		} else {
			fmt.Fprintln(os.Stderr, args)
		}
	}, funcr.Options{})
}

// expandPath expands ${VAR} style environment references in path flags.
func expandPath(path string) (string, error) {
	return envsubst.EvalEnv(path)
}

// confirm prompts the user; a non-affirmative answer or an interrupt both
// report false.
func confirm(message string) bool {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok); err != nil {
		return false
	}
	return ok
}
