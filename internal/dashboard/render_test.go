// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedco/vpnwatch/internal/stats"
)

func peer(client string, online bool) stats.PeerStats {
	return stats.PeerStats{
		Client:     client,
		MaskedPeer: "abcdefgh...",
		Online:     online,
		Endpoint:   stats.String("203.0.113.7:51820"),
		VisibleIPs: []string{"10.0.0.2/32"},
		Received:   stats.String("1.00 MB"),
		Sent:       stats.String("2.00 MB"),
	}
}

// twoInterfaces has one online and one offline peer on each interface
func twoInterfaces() []stats.InterfaceStats {
	return []stats.InterfaceStats{
		{Interface: "vpn", Peers: []stats.PeerStats{peer("alice", true), peer("bob", false)}},
		{Interface: "antizapret", Peers: []stats.PeerStats{peer("carol", false), peer("dave", true)}},
	}
}

func TestContainerID(t *testing.T) {
	assert.Equal(t, "peers-vpn", ContainerID("vpn"))
	assert.Equal(t, "peers-vpn-udp", ContainerID("vpn-udp"))
	assert.Equal(t, "peers-wg0-1", ContainerID("wg0.1"))
}

func TestRenderBadges(t *testing.T) {
	page := Render(twoInterfaces(), AllInterfaces)
	require.Len(t, page.Sections, 2)

	for _, s := range page.Sections {
		assert.Equal(t, Badge{Online: 1, Total: 2}, s.Badge)
		assert.Equal(t, "1 / 2", s.Badge.String())
	}
}

func TestRenderPreservesOrderAndIndexes(t *testing.T) {
	page := Render(twoInterfaces(), AllInterfaces)

	var names []string
	var indexes []int
	for _, s := range page.Sections {
		for _, r := range s.Rows {
			names = append(names, r.Client)
			indexes = append(indexes, r.Index)
		}
	}
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, names)
	assert.Equal(t, []int{1, 2, 3, 4}, indexes)
}

func TestRenderRowText(t *testing.T) {
	page := Render(twoInterfaces(), AllInterfaces)
	online := page.Sections[0].Rows[0]
	offline := page.Sections[0].Rows[1]

	assert.Equal(t, OnlineText, online.StatusText)
	assert.Equal(t, "status-dot online", online.DotClass)
	assert.Equal(t, OfflineText, offline.StatusText)
	assert.Equal(t, "status-dot offline", offline.DotClass)

	assert.Equal(t, "203.0.113.7:51820", online.RealIP)
	assert.Equal(t, "203.***.***.***:51820", online.MaskedIP)
	assert.Equal(t, online.MaskedIP, online.IPText)
	assert.Equal(t, "10.0.0.2/32", online.VisibleIPs)
}

func TestRenderNullFields(t *testing.T) {
	data := []stats.InterfaceStats{{Interface: "vpn", Peers: []stats.PeerStats{{Client: "x"}}}}
	row := Render(data, AllInterfaces).Sections[0].Rows[0]

	assert.Equal(t, stats.NotAvailable, row.RealIP)
	assert.Equal(t, stats.NotAvailable, row.MaskedIP)
	assert.Equal(t, stats.NotAvailable, row.VisibleIPs)
	assert.Equal(t, stats.NotAvailable, row.Handshake)
	assert.Equal(t, stats.NotAvailable, row.Received)
	assert.Equal(t, stats.NotAvailable, row.DailySent)
	assert.Equal(t, stats.NotAvailable, row.ReceivedPct)
	assert.Empty(t, row.ToggleText)
}

func TestRenderSkipsMissingContainers(t *testing.T) {
	page := Render(twoInterfaces(), LayoutFor("vpn"))
	require.Len(t, page.Sections, 1)
	assert.Equal(t, "vpn", page.Sections[0].Interface)
	assert.Nil(t, page.Section("antizapret"))
}

func TestRenderIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, WriteTable(&a, Render(twoInterfaces(), AllInterfaces), TableOptions{Wide: true}))
	require.NoError(t, WriteTable(&b, Render(twoInterfaces(), AllInterfaces), TableOptions{Wide: true}))
	assert.Equal(t, a.String(), b.String())
	assert.NotEmpty(t, a.String())
}

func TestToggleIPs(t *testing.T) {
	p := peer("alice", true)
	p.HiddenIPs = []string{"fd00::2/128", "10.1.0.2/32"}
	page := Render([]stats.InterfaceStats{{Interface: "vpn", Peers: []stats.PeerStats{p}}}, AllInterfaces)
	row := page.Sections[0].Rows[0]
	assert.Equal(t, "Show all", row.ToggleText)

	ToggleIPs(page, 1)
	assert.True(t, row.ShowHiddenIPs)
	assert.Equal(t, "Collapse", row.ToggleText)

	ToggleIPs(page, 1)
	assert.False(t, row.ShowHiddenIPs)
	assert.Equal(t, "Show all", row.ToggleText)

	// out of range
	ToggleIPs(page, 7)
	assert.False(t, row.ShowHiddenIPs)
}

func TestCloneIsDeep(t *testing.T) {
	page := Render(twoInterfaces(), AllInterfaces)
	c := page.Clone()
	c.Sections[0].Rows[0].Client = "changed"
	assert.Equal(t, "alice", page.Sections[0].Rows[0].Client)
}
