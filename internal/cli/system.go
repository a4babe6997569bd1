// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/dashboard"
	"github.com/sharedco/vpnwatch/internal/poller"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show host load and VPN client counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		out := cmd.OutOrStdout()

		if !watch {
			info, err := app.client.SystemInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load system info: %w", err)
			}
			return dashboard.WriteSystem(out, dashboard.RenderSystem(*info))
		}

		ctx, stop := untilInterrupted(cmd.Context())
		defer stop()

		scr := newScreen(out, app.log)
		p := poller.New("system_info", app.cfg.Poll.SystemInterval, app.client.SystemInfo,
			func(info *client.SystemInfo) {
				view := dashboard.RenderSystem(*info)
				scr.draw(func(w io.Writer) error { return dashboard.WriteSystem(w, view) })
			},
			poller.WithLogger(app.log), poller.WithTimeout(app.cfg.Client.Timeout))
		p.Start()
		defer p.Stop()

		<-ctx.Done()
		return nil
	},
}

func init() {
	systemCmd.Flags().BoolP("watch", "w", false, "Keep refreshing until interrupted")
}
