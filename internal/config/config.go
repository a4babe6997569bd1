// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the vpnwatch CLI and backend
type Config struct {
	Client    ClientConfig    `yaml:"client"`
	Poll      PollConfig      `yaml:"poll"`
	Prefs     PrefsConfig     `yaml:"prefs"`
	Watchdog  WatchdogConfig  `yaml:"watchdog"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	WireGuard WireGuardConfig `yaml:"wireguard"`
	Features  FeaturesConfig  `yaml:"features"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
}

// ClientConfig describes how to reach the dashboard backend
type ClientConfig struct {
	BaseURL  string        `yaml:"base_url"`
	BasePath string        `yaml:"base_path"`
	Session  string        `yaml:"session"`
	Timeout  time.Duration `yaml:"timeout"`
}

// PollConfig holds refresh intervals
type PollConfig struct {
	StatsInterval  time.Duration `yaml:"stats_interval"`
	SystemInterval time.Duration `yaml:"system_interval"`
	CPULive        time.Duration `yaml:"cpu_live"`
}

// PrefsConfig locates the preferences file
type PrefsConfig struct {
	Path string `yaml:"path"`
}

// WatchdogConfig holds the inactivity logout settings
type WatchdogConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	RememberMe bool          `yaml:"remember_me"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	BasePath     string        `yaml:"base_path"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds the traffic history database. Empty URL keeps history in memory.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	RetainDays int    `yaml:"retain_days"`
}

// WireGuardConfig controls how peer stats are collected
type WireGuardConfig struct {
	ConfigFiles  []string      `yaml:"config_files"`
	OnlineWindow time.Duration `yaml:"online_window"`
	SampleEvery  time.Duration `yaml:"sample_every"`
}

// FeaturesConfig holds feature flags
type FeaturesConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// UIConfig holds terminal presentation settings
type UIConfig struct {
	Theme string `yaml:"theme"` // "auto", "light" or "dark"
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL: "http://127.0.0.1:8080",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			StatsInterval:  3 * time.Second,
			SystemInterval: 5 * time.Second,
			CPULive:        5 * time.Second,
		},
		Prefs: PrefsConfig{
			Path: DefaultPrefsPath(),
		},
		Watchdog: WatchdogConfig{
			Timeout: 5 * time.Minute,
		},
		Server: ServerConfig{
			ListenAddr:   ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			RetainDays: 7,
		},
		WireGuard: WireGuardConfig{
			ConfigFiles:  []string{"/etc/wireguard/vpn.conf", "/etc/wireguard/antizapret.conf"},
			OnlineWindow: 3 * time.Minute,
			SampleEvery:  30 * time.Second,
		},
		Features: FeaturesConfig{
			MetricsEnabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Load reads defaults, then the YAML file, then environment variables.
// A missing config file is not an error.
func Load() (*Config, error) {
	path := getEnv("VPNWATCH_CONFIG", DefaultConfigPath())
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Poll.StatsInterval <= 0 {
		return nil, fmt.Errorf("poll.stats_interval must be positive")
	}
	if cfg.Watchdog.Timeout <= 0 {
		return nil, fmt.Errorf("watchdog.timeout must be positive")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Client.BaseURL = getEnv("VPNWATCH_URL", cfg.Client.BaseURL)
	cfg.Client.BasePath = getEnv("VPNWATCH_BASE_PATH", cfg.Client.BasePath)
	cfg.Client.Session = getEnv("VPNWATCH_SESSION", cfg.Client.Session)
	cfg.Client.Timeout = getDuration("VPNWATCH_TIMEOUT", cfg.Client.Timeout)

	cfg.Poll.StatsInterval = getDuration("VPNWATCH_STATS_INTERVAL", cfg.Poll.StatsInterval)
	cfg.Poll.SystemInterval = getDuration("VPNWATCH_SYSTEM_INTERVAL", cfg.Poll.SystemInterval)
	cfg.Poll.CPULive = getDuration("VPNWATCH_CPU_LIVE_INTERVAL", cfg.Poll.CPULive)

	cfg.Prefs.Path = getEnv("VPNWATCH_PREFS", cfg.Prefs.Path)

	cfg.Watchdog.Timeout = getDuration("VPNWATCH_INACTIVITY_TIMEOUT", cfg.Watchdog.Timeout)
	cfg.Watchdog.RememberMe = getBool("VPNWATCH_REMEMBER_ME", cfg.Watchdog.RememberMe)

	cfg.Server.ListenAddr = getEnv("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.BasePath = getEnv("VPNWATCH_SERVER_BASE_PATH", cfg.Server.BasePath)
	cfg.Server.ReadTimeout = getDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getDuration("IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.RetainDays = getInt("VPNWATCH_RETAIN_DAYS", cfg.Database.RetainDays)

	if files := os.Getenv("VPNWATCH_WG_CONFIGS"); files != "" {
		cfg.WireGuard.ConfigFiles = strings.Split(files, ",")
	}
	cfg.WireGuard.OnlineWindow = getDuration("VPNWATCH_ONLINE_WINDOW", cfg.WireGuard.OnlineWindow)
	cfg.WireGuard.SampleEvery = getDuration("VPNWATCH_SAMPLE_EVERY", cfg.WireGuard.SampleEvery)

	cfg.Features.MetricsEnabled = getBool("METRICS_ENABLED", cfg.Features.MetricsEnabled)

	cfg.Log.Level = getEnv("VPNWATCH_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Debug = getBool("VPNWATCH_DEBUG", cfg.Log.Debug)

	cfg.UI.Theme = getEnv("VPNWATCH_THEME", cfg.UI.Theme)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
