// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/stats"
)

func TestWriteTableSkipsHiddenRows(t *testing.T) {
	page := Render(twoInterfaces(), AllInterfaces)
	Apply(page, Filters{OnlineOnly: true})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, page, TableOptions{}))
	out := buf.String()

	assert.Contains(t, out, "vpn  [1 / 2]")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "dave")
	assert.NotContains(t, out, "bob")
	assert.NotContains(t, out, "HANDSHAKE")
}

func TestWriteTableBanner(t *testing.T) {
	data := []stats.InterfaceStats{{Interface: "vpn", Peers: []stats.PeerStats{peer("a", false)}}}
	page := Render(data, AllInterfaces)
	Apply(page, Filters{OnlineOnly: true})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, page, TableOptions{}))
	assert.Equal(t, NoActiveConnectionsText+"\n", buf.String())
}

func TestWriteTableHiddenIPs(t *testing.T) {
	p := peer("alice", true)
	p.HiddenIPs = []string{"10.1.0.2/32", "10.2.0.2/32"}
	page := Render([]stats.InterfaceStats{{Interface: "vpn", Peers: []stats.PeerStats{p}}}, AllInterfaces)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, page, TableOptions{}))
	assert.Contains(t, buf.String(), "10.0.0.2/32 (+2)")

	ToggleIPs(page, 1)
	buf.Reset()
	require.NoError(t, WriteTable(&buf, page, TableOptions{}))
	assert.Contains(t, buf.String(), "10.0.0.2/32, 10.1.0.2/32, 10.2.0.2/32")
}

func TestRenderSystem(t *testing.T) {
	wg := 3
	info := client.SystemInfo{
		CPULoad:          "12%",
		MemoryUsed:       "1.2 GB",
		NetworkInterface: "eth0",
		RxBytes:          1234567,
		TxBytes:          89,
		NetworkLoad: map[string]client.NetLoad{
			"wg0":  {SentSpeed: 1.5, RecvSpeed: 2},
			"eth0": {SentSpeed: 10, RecvSpeed: 20.25},
		},
		VPNClients: &client.VPNClients{WireGuard: &wg},
	}

	view := RenderSystem(info)
	assert.Equal(t, "1,234,567", view.Rx)
	assert.Equal(t, "89", view.Tx)
	assert.Equal(t, []string{
		"eth0: sent 10 Mbit/s, received 20.25 Mbit/s",
		"wg0: sent 1.5 Mbit/s, received 2 Mbit/s",
	}, view.Network)
	assert.Equal(t, []string{"OpenVPN: 0", "WireGuard: 3"}, view.VPN)

	var buf bytes.Buffer
	require.NoError(t, WriteSystem(&buf, view))
	assert.Contains(t, buf.String(), "CPU:       12%")
}

func TestRenderSystemNoClients(t *testing.T) {
	view := RenderSystem(client.SystemInfo{})
	assert.Equal(t, []string{"OpenVPN: 0", "WireGuard: 0"}, view.VPN)
	assert.Empty(t, view.Network)
}
