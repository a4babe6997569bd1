// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Poll.StatsInterval)
	assert.Equal(t, 5*time.Second, cfg.Poll.SystemInterval)
	assert.Equal(t, 5*time.Minute, cfg.Watchdog.Timeout)
	assert.Equal(t, 7, cfg.Database.RetainDays)
	assert.True(t, cfg.Features.MetricsEnabled)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
client:
  base_url: https://vpn.example.com
  base_path: /status
poll:
  stats_interval: 1s
watchdog:
  remember_me: true
wireguard:
  config_files: [/tmp/wg0.conf]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://vpn.example.com", cfg.Client.BaseURL)
	assert.Equal(t, "/status", cfg.Client.BasePath)
	assert.Equal(t, time.Second, cfg.Poll.StatsInterval)
	assert.True(t, cfg.Watchdog.RememberMe)
	assert.Equal(t, []string{"/tmp/wg0.conf"}, cfg.WireGuard.ConfigFiles)
	// untouched sections keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Poll.SystemInterval)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  base_url: http://file\n"), 0644))

	t.Setenv("VPNWATCH_URL", "http://env")
	t.Setenv("VPNWATCH_STATS_INTERVAL", "250ms")
	t.Setenv("VPNWATCH_WG_CONFIGS", "/a.conf,/b.conf")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env", cfg.Client.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.StatsInterval)
	assert.Equal(t, []string{"/a.conf", "/b.conf"}, cfg.WireGuard.ConfigFiles)
	assert.False(t, cfg.Features.MetricsEnabled)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("poll: [unclosed"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileRejectsZeroInterval(t *testing.T) {
	t.Setenv("VPNWATCH_STATS_INTERVAL", "0s")

	_, err := LoadFile("")
	assert.Error(t, err)
}

func TestHomeOverride(t *testing.T) {
	t.Setenv("VPNWATCH_HOME", "/opt/vpnwatch")
	assert.Equal(t, "/opt/vpnwatch/config.yml", DefaultConfigPath())
	assert.Equal(t, "/opt/vpnwatch/prefs.json", DefaultPrefsPath())
}
