// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package cli implements the vpnwatch terminal dashboard commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sharedco/vpnwatch/internal/charts"
	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/config"
	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/prefs"
	"github.com/sharedco/vpnwatch/internal/version"
)

// session is everything a command needs, built once per invocation
type session struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *client.Client
	prefs  *prefs.Store
	theme  charts.Theme
}

var app *session

var rootCmd = &cobra.Command{
	Use:   "vpnwatch",
	Short: "vpnwatch - terminal dashboard for a WireGuard VPN server",
	Long: `vpnwatch shows the peers of a WireGuard server, their traffic and the
host's load, polling the dashboard backend's JSON API.

Settings come from ~/.config/vpnwatch/config.yaml, VPNWATCH_* environment
variables and the flags below, in increasing order of precedence.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		app = s
		return nil
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ~/.config/vpnwatch/config.yaml)")
	pf.String("url", "", "Dashboard backend URL")
	pf.String("base-path", "", "Path prefix of the dashboard, e.g. /panel")
	pf.String("session", "", "Session cookie value")
	pf.Bool("ask-session", false, "Prompt for the session cookie")
	pf.Bool("no-prefs", false, "Do not read or write the preferences file")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(adminsCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logoutCmd)
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()

	cfgFile, _ := flags.GetString("config")
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("url") {
		cfg.Client.BaseURL, _ = flags.GetString("url")
	}
	if flags.Changed("base-path") {
		cfg.Client.BasePath, _ = flags.GetString("base-path")
	}
	if flags.Changed("session") {
		cfg.Client.Session, _ = flags.GetString("session")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Debug = true
	}

	if ask, _ := flags.GetBool("ask-session"); ask {
		secret, err := readSecret(cmd, "Session: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read session: %w", err)
		}
		cfg.Client.Session = secret
	}

	level := cfg.Log.Level
	if cfg.Log.Debug {
		level = "debug"
	}
	log := logging.New(cmd.ErrOrStderr(), level)

	store := prefs.Memory()
	if noPrefs, _ := flags.GetBool("no-prefs"); !noPrefs {
		store, err = prefs.Open(cfg.Prefs.Path)
		if err != nil {
			return nil, err
		}
	}

	c := client.New(cfg.Client.BaseURL,
		client.WithBasePath(cfg.Client.BasePath),
		client.WithSession(cfg.Client.Session),
		client.WithTimeout(cfg.Client.Timeout),
	)

	log.WithFields(logrus.Fields{
		"url":   cfg.Client.BaseURL,
		"prefs": cfg.Prefs.Path,
	}).Debug("session ready")

	return &session{
		cfg:    cfg,
		log:    log,
		client: c,
		prefs:  store,
		theme:  charts.DetectTheme(cfg.UI.Theme),
	}, nil
}

// readSecret prompts without echo on a terminal, or reads one line otherwise
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
