// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sharedco/vpnwatch/internal/client"
)

// SystemView is the rendered host status card
type SystemView struct {
	CPU       string
	Memory    string
	Disk      string
	Uptime    string
	Interface string
	Rx        string
	Tx        string
	Network   []string
	VPN       []string
}

var numbers = message.NewPrinter(language.English)

// RenderSystem builds the host status card. Interfaces are listed by name.
func RenderSystem(info client.SystemInfo) SystemView {
	view := SystemView{
		CPU:       info.CPULoad,
		Memory:    info.MemoryUsed,
		Disk:      info.DiskUsed,
		Uptime:    info.Uptime,
		Interface: info.NetworkInterface,
		Rx:        numbers.Sprintf("%d", info.RxBytes),
		Tx:        numbers.Sprintf("%d", info.TxBytes),
	}

	names := make([]string, 0, len(info.NetworkLoad))
	for name := range info.NetworkLoad {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		load := info.NetworkLoad[name]
		view.Network = append(view.Network,
			fmt.Sprintf("%s: sent %v Mbit/s, received %v Mbit/s", name, load.SentSpeed, load.RecvSpeed))
	}

	openvpn, wireguard := 0, 0
	if info.VPNClients != nil {
		if info.VPNClients.OpenVPN != nil {
			openvpn = *info.VPNClients.OpenVPN
		}
		if info.VPNClients.WireGuard != nil {
			wireguard = *info.VPNClients.WireGuard
		}
	}
	view.VPN = []string{
		fmt.Sprintf("OpenVPN: %d", openvpn),
		fmt.Sprintf("WireGuard: %d", wireguard),
	}

	return view
}

// WriteSystem prints the host status card
func WriteSystem(w io.Writer, v SystemView) error {
	_, err := fmt.Fprintf(w, "CPU:       %s\nMemory:    %s\nDisk:      %s\nUptime:    %s\nInterface: %s (rx %s B, tx %s B)\n",
		v.CPU, v.Memory, v.Disk, v.Uptime, v.Interface, v.Rx, v.Tx)
	if err != nil {
		return err
	}
	for _, line := range v.Network {
		fmt.Fprintf(w, "  %s\n", line)
	}
	for _, line := range v.VPN {
		fmt.Fprintf(w, "%s\n", line)
	}
	return nil
}
