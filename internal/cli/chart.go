// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/charts"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show CPU, RAM and bandwidth charts",
}

var cpuChartCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Show CPU and RAM usage",
	Long: `Show CPU and RAM usage for a period: live, hour, day, week or month.

With --watch the live period keeps refreshing until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		watch, _ := cmd.Flags().GetBool("watch")
		if err := checkPeriod(period, true); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		width := chartWidth(out)
		scr := newScreen(out, app.log)

		var ch *charts.CPUChart
		opts := charts.Options{
			Theme:    app.theme,
			Interval: app.cfg.Poll.CPULive,
			Log:      app.log,
		}
		if watch {
			opts.OnUpdate = func() {
				v := ch.View()
				scr.draw(func(w io.Writer) error { return charts.WriteCPU(w, v, width) })
			}
		}
		ch = charts.NewCPUChart(app.client, app.prefs, opts)

		if !watch {
			if err := ch.Update(cmd.Context(), period); err != nil {
				return fmt.Errorf("failed to load CPU data: %w", err)
			}
			v := ch.View()
			if v.Period == "" {
				return errors.New("backend returned no CPU data")
			}
			return charts.WriteCPU(out, v, width)
		}

		ctx, stop := untilInterrupted(cmd.Context())
		defer stop()

		if err := ch.SetPeriod(ctx, period); err != nil {
			return err
		}
		if err := ch.Show(ctx); err != nil {
			return fmt.Errorf("failed to load CPU data: %w", err)
		}
		defer ch.Hide()

		<-ctx.Done()
		return nil
	},
}

var bwChartCmd = &cobra.Command{
	Use:     "bw",
	Aliases: []string{"bandwidth"},
	Short:   "Show received and sent bandwidth of an interface",
	Long: `Show received and sent bandwidth of an interface for a period: hour, day,
week or month. Without --iface the first of eth0, enp3s0, ens33 and wlan0
present on the host is used, else the first interface listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		iface, _ := cmd.Flags().GetString("iface")
		if err := checkPeriod(period, false); err != nil {
			return err
		}
		ctx := cmd.Context()

		ch := charts.NewBandwidthChart(app.client, app.prefs, charts.Options{
			Theme: app.theme,
			Log:   app.log,
		})
		if err := ch.SetPeriod(ctx, period); err != nil {
			return err
		}

		if iface == "" {
			if _, err := ch.LoadInterfaces(ctx); err != nil {
				return fmt.Errorf("failed to load bandwidth data: %w", err)
			}
			if ch.Selected() == "" {
				return errors.New("backend reported no network interfaces")
			}
		} else if err := ch.Select(ctx, iface); err != nil {
			return fmt.Errorf("failed to load bandwidth data: %w", err)
		}

		return charts.WriteBandwidth(cmd.OutOrStdout(), ch.View(), chartWidth(cmd.OutOrStdout()))
	},
}

func init() {
	cpuChartCmd.Flags().StringP("period", "p", charts.PeriodLive, "Period: live, hour, day, week, month")
	cpuChartCmd.Flags().BoolP("watch", "w", false, "Keep refreshing until interrupted")

	bwChartCmd.Flags().StringP("period", "p", charts.PeriodDay, "Period: hour, day, week, month")
	bwChartCmd.Flags().StringP("iface", "i", "", "Network interface")

	chartCmd.AddCommand(cpuChartCmd)
	chartCmd.AddCommand(bwChartCmd)
}

func checkPeriod(period string, live bool) error {
	switch period {
	case charts.PeriodHour, charts.PeriodDay, charts.PeriodWeek, charts.PeriodMonth:
		return nil
	case charts.PeriodLive:
		if live {
			return nil
		}
	}
	return fmt.Errorf("invalid period %q", period)
}
