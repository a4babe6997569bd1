// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/history"
)

var defaultStatusFiles = []string{
	"/etc/openvpn/server/logs/antizapret-udp-status.log",
	"/etc/openvpn/server/logs/antizapret-tcp-status.log",
}

var historyCmd = &cobra.Command{
	Use:   "history [status-file...]",
	Short: "List OpenVPN connections from server status files",
	Long: `List the clients connected to OpenVPN, read from status-version 2 files.

Without arguments the antizapret UDP and TCP status files are read and
missing ones are skipped. --filter matches client name, real IP, local IP
and protocol; with --clients it matches the client name only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("filter")
		clients, _ := cmd.Flags().GetBool("clients")
		tz, _ := cmd.Flags().GetString("tz")

		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("unknown time zone %q: %w", tz, err)
		}

		files, optional := args, false
		if len(files) == 0 {
			files, optional = defaultStatusFiles, true
		}

		var rows []history.LogRow
		for _, path := range files {
			got, err := readStatusFile(path)
			if optional && errors.Is(err, fs.ErrNotExist) {
				app.log.WithField("file", path).Debug("status file not found")
				continue
			}
			if err != nil {
				return err
			}
			rows = append(rows, got...)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if clients {
			fmt.Fprintln(w, "CLIENT\tREAL IP\tLOCAL IP\tCONNECTED")
			for _, r := range history.FilterClients(history.Clients(rows), query) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ClientName, r.RealIP, r.LocalIP, history.LocalTime(r.ConnectedAt, loc))
			}
			return w.Flush()
		}

		fmt.Fprintln(w, "CLIENT\tREAL IP\tLOCAL IP\tPROTO\tCONNECTED")
		for _, r := range history.FilterLog(rows, query) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ClientName, r.RealIP, r.LocalIP, r.Protocol, history.LocalTime(r.ConnectedAt, loc))
		}
		return w.Flush()
	},
}

func readStatusFile(path string) ([]history.LogRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := history.ReadStatus(f, history.ProtocolOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func init() {
	historyCmd.Flags().String("filter", "", "Only show rows containing this text")
	historyCmd.Flags().Bool("clients", false, "Show the client table instead of the connection log")
	historyCmd.Flags().String("tz", "Local", "Time zone for connection times")
}
