// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"os"
	"path/filepath"
)

// Home returns the per-user vpnwatch directory.
func Home() string {
	if home := os.Getenv("VPNWATCH_HOME"); home != "" {
		return home
	}
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser, ".vpnwatch")
	}
	return filepath.Join(os.Getenv("HOME"), ".vpnwatch")
}

// DefaultConfigPath is where Load looks when VPNWATCH_CONFIG is unset.
func DefaultConfigPath() string {
	return filepath.Join(Home(), "config.yml")
}

// DefaultPrefsPath is the preferences file used by the dashboard commands.
func DefaultPrefsPath() string {
	return filepath.Join(Home(), "prefs.json")
}
