// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// NoActiveConnectionsText is the banner shown when filters leave nothing visible
const NoActiveConnectionsText = "No active connections"

// TableOptions controls WriteTable output
type TableOptions struct {
	// Wide adds the handshake, daily and percentage columns
	Wide bool
}

// WriteTable prints the visible part of page as one table per interface.
// Output depends only on the page, so the same page always prints the same text.
func WriteTable(w io.Writer, page *Page, opts TableOptions) error {
	if page.NoActiveConnections {
		_, err := fmt.Fprintln(w, NoActiveConnectionsText)
		return err
	}

	printed := false
	for _, s := range page.Sections {
		if s.Hidden {
			continue
		}
		if printed {
			fmt.Fprintln(w)
		}
		printed = true
		fmt.Fprintf(w, "%s  [%s]\n", s.Interface, s.Badge)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if opts.Wide {
			fmt.Fprintf(tw, "\tCLIENT\tSTATUS\tENDPOINT\tALLOWED IPS\tHANDSHAKE\tRECEIVED\tSENT\tTODAY RX\tTODAY TX\tRX %%\tTX %%\t\n")
		} else {
			fmt.Fprintf(tw, "\tCLIENT\tSTATUS\tENDPOINT\tALLOWED IPS\tRECEIVED\tSENT\t\n")
		}

		for _, r := range s.Rows {
			if r.Hidden {
				continue
			}
			ips := allowedIPs(r)
			if opts.Wide {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					r.Icon, r.Client, r.StatusText, r.IPText, ips, r.Handshake,
					r.Received, r.Sent, r.DailyReceived, r.DailySent, r.ReceivedPct, r.SentPct)
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					r.Icon, r.Client, r.StatusText, r.IPText, ips, r.Received, r.Sent)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func allowedIPs(r *Row) string {
	if len(r.HiddenIPs) == 0 {
		return r.VisibleIPs
	}
	if r.ShowHiddenIPs {
		return r.VisibleIPs + ", " + strings.Join(r.HiddenIPs, ", ")
	}
	return fmt.Sprintf("%s (+%d)", r.VisibleIPs, len(r.HiddenIPs))
}
