// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/dashboard"
	"github.com/sharedco/vpnwatch/internal/prefs"
	"github.com/sharedco/vpnwatch/internal/watchdog"
)

const watchHelp = `Commands (type and press Enter):
  <Enter>  refresh now
  o        toggle online-only
  u        toggle hiding peers with unknown state
  r        toggle real endpoint IPs
  a        toggle auto-refresh
  w        toggle wide columns
  i N      expand or collapse the allowed IPs of peer N
  q        quit`

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show WireGuard peers, refreshed every few seconds",
	Long: `Show the peers of every WireGuard interface with their status, endpoint,
allowed IPs and traffic.

Filter flags are saved to the preferences file and restored next time.
Without input for the inactivity timeout the session is logged out,
unless remember-me is set.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("online-only", false, "Show only online peers")
	watchCmd.Flags().Bool("hide-undef", false, "Hide peers whose state is unknown")
	watchCmd.Flags().Bool("real-ip", false, "Show real endpoint IPs instead of masked ones")
	watchCmd.Flags().Bool("wide", false, "Show handshake, daily traffic and share columns")
	watchCmd.Flags().Bool("auto-refresh", true, "Refresh automatically")
	watchCmd.Flags().Bool("once", false, "Print one snapshot and exit")
}

var filterFlags = map[string]string{
	"online-only": dashboard.FilterOnlineOnly,
	"hide-undef":  dashboard.FilterHideUndef,
	"real-ip":     dashboard.FilterShowRealIP,
}

// watchUI holds the interactive state of the watch command
type watchUI struct {
	mon    *dashboard.Monitor
	screen *screen
	store  *prefs.Store

	mu   sync.Mutex
	wide bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	once, _ := flags.GetBool("once")

	ui := &watchUI{
		screen: newScreen(cmd.OutOrStdout(), app.log),
		store:  app.prefs,
		wide:   app.prefs.Bool(prefs.ShowColumns, false),
	}

	opts := dashboard.MonitorOptions{
		Interval: app.cfg.Poll.StatsInterval,
		Timeout:  app.cfg.Client.Timeout,
		Log:      app.log,
	}
	if !once {
		opts.Sink = ui.render
	}
	ui.mon = dashboard.NewMonitor(app.client, app.prefs, opts)

	for flag, filter := range filterFlags {
		if !flags.Changed(flag) {
			continue
		}
		on, _ := flags.GetBool(flag)
		if err := ui.mon.SetFilter(filter, on); err != nil {
			app.log.WithError(err).Warn("filter not saved")
		}
	}
	if flags.Changed("wide") {
		wide, _ := flags.GetBool("wide")
		ui.setWide(wide)
	}

	if once {
		if err := ui.mon.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return dashboard.WriteTable(cmd.OutOrStdout(), ui.mon.Page(), dashboard.TableOptions{Wide: ui.isWide()})
	}

	ctx, stop := untilInterrupted(cmd.Context())
	defer stop()

	if flags.Changed("auto-refresh") {
		on, _ := flags.GetBool("auto-refresh")
		if err := ui.mon.SetAutoRefresh(on); err != nil {
			app.log.WithError(err).Warn("auto-refresh not saved")
		}
	} else {
		ui.mon.Start()
	}
	defer ui.mon.Stop()

	expired := make(chan string, 1)
	wd := watchdog.New(app.cfg.Watchdog.Timeout, app.client.Logout, func(loginURL string) {
		select {
		case expired <- loginURL:
		default:
		}
	}, watchdog.Options{
		BasePath:   app.cfg.Client.BasePath,
		RememberMe: app.cfg.Watchdog.RememberMe || app.prefs.Bool(prefs.RememberChoice, false),
		Log:        app.log,
	})
	defer wd.Stop()

	if !ui.mon.AutoRefresh() {
		if err := ui.mon.Refresh(ctx); err != nil {
			app.log.WithError(err).Warn("initial refresh failed")
		}
	}

	lines := readLines(ctx, cmd.InOrStdin())
	for {
		select {
		case <-ctx.Done():
			return nil
		case loginURL := <-expired:
			fmt.Fprintf(cmd.OutOrStdout(), "\nSession closed after %s without activity. Log in again at %s%s\n",
				app.cfg.Watchdog.Timeout, strings.TrimRight(client.EnsureScheme(app.cfg.Client.BaseURL), "/"), loginURL)
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			wd.Touch()
			quit, err := ui.handle(ctx, line)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			if quit {
				return nil
			}
		}
	}
}

// readLines forwards input lines until EOF, then closes the channel
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (u *watchUI) isWide() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.wide
}

func (u *watchUI) setWide(on bool) {
	u.mu.Lock()
	u.wide = on
	u.mu.Unlock()
	if err := u.store.SetBool(prefs.ShowColumns, on); err != nil {
		app.log.WithError(err).Warn("column setting not saved")
	}
}

func (u *watchUI) render(page *dashboard.Page) {
	opts := dashboard.TableOptions{Wide: u.isWide()}
	u.screen.draw(func(w io.Writer) error {
		if err := dashboard.WriteTable(w, page, opts); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%s\n", u.status())
		return err
	})
}

func (u *watchUI) status() string {
	f := u.mon.Filters()
	parts := []string{"auto-refresh " + onOff(u.mon.AutoRefresh())}
	if f.OnlineOnly {
		parts = append(parts, "online only")
	}
	if f.HideUndef {
		parts = append(parts, "unknown hidden")
	}
	if f.ShowRealIP {
		parts = append(parts, "real IPs")
	}
	return strings.Join(parts, " | ") + " | ? for help"
}

// handle runs one input line. It reports whether the user asked to quit.
func (u *watchUI) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, u.mon.Refresh(ctx)
	}

	f := u.mon.Filters()
	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "o":
		return false, u.mon.SetFilter(dashboard.FilterOnlineOnly, !f.OnlineOnly)
	case "u":
		return false, u.mon.SetFilter(dashboard.FilterHideUndef, !f.HideUndef)
	case "r":
		return false, u.mon.SetFilter(dashboard.FilterShowRealIP, !f.ShowRealIP)
	case "a":
		return false, u.mon.SetAutoRefresh(!u.mon.AutoRefresh())
	case "w":
		u.setWide(!u.isWide())
		if page := u.mon.Page(); page != nil {
			u.render(page)
		}
		return false, nil
	case "i":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: i N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return false, fmt.Errorf("invalid peer number %q", fields[1])
		}
		u.mon.ToggleIPs(n)
		return false, nil
	case "?", "h", "help":
		u.screen.draw(func(w io.Writer) error {
			_, err := fmt.Fprintln(w, watchHelp)
			return err
		})
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q, type ? for help", fields[0])
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
