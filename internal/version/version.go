/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"runtime"
)

// set by the build via -ldflags
var (
	version      = "latest"
	gitCommit    = ""
	gitTreeState = ""
)

type BuildInfo struct {
	Version      string `json:"version,omitempty"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	GoVersion    string `json:"goVersion,omitempty"`
}

func GetVersion() string {
	return version
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:      GetVersion(),
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		GoVersion:    runtime.Version(),
	}
}
