// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     version
// Description: Build and version information
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Set at build time via
// -ldflags "-X github.com/msto63/voicedesk/pkg/core/version.GitCommit=..."
var (
	// Version is the semantic version of VoiceDesk
	Version = "0.4.0"

	// GitCommit is the commit the binary was built from
	GitCommit = ""

	// BuildTime is the time the binary was built
	BuildTime = ""
)

// Info describes the running binary
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: orUnknown(GitCommit),
		BuildTime: orUnknown(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns "v<version> (<commit>)"
func (i Info) String() string {
	return fmt.Sprintf("v%s (%s)", i.Version, i.GitCommit)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
