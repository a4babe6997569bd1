// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package version provides version information for the vpnwatch binaries.
// The version is set at build time via ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current version of vpnwatch (set by ldflags)
	Version = "dev"

	// Commit is the git commit hash (set by ldflags)
	Commit = "unknown"

	// BuildTime is the build timestamp (set by ldflags)
	BuildTime = "unknown"
)

// Info returns a formatted version string for the named binary
func Info(binary string) string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)",
		binary, Version, Commit, BuildTime, runtime.Version())
}

// Short returns just the version number
func Short() string {
	return Version
}

// UserAgent is sent with every backend request
func UserAgent() string {
	return "vpnwatch/" + Version
}
