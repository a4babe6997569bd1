// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package stats holds the peer and interface statistics exchanged between
// the vpnwatch backend and its dashboards.
package stats

// NotAvailable is shown for any statistic the backend reported as null.
const NotAvailable = "N/A"

// InterfaceStats is the status of one VPN interface and its peers.
// Peers are kept in the order the backend sent them.
type InterfaceStats struct {
	Interface string      `json:"interface"`
	Peers     []PeerStats `json:"peers"`
}

// PeerStats is the status of a single peer.
// Nullable fields are pointers so that null and "" stay distinct.
type PeerStats struct {
	Client             string   `json:"client"`
	MaskedPeer         string   `json:"masked_peer"`
	Online             bool     `json:"online"`
	Endpoint           *string  `json:"endpoint"`
	VisibleIPs         []string `json:"visible_ips"`
	HiddenIPs          []string `json:"hidden_ips"`
	LatestHandshake    *string  `json:"latest_handshake"`
	Received           *string  `json:"received"`
	Sent               *string  `json:"sent"`
	DailyReceived      *string  `json:"daily_received"`
	DailySent          *string  `json:"daily_sent"`
	ReceivedPercentage *float64 `json:"received_percentage"`
	SentPercentage     *float64 `json:"sent_percentage"`
}

// OnlineCount returns how many peers of the interface are online.
func (s InterfaceStats) OnlineCount() int {
	n := 0
	for _, p := range s.Peers {
		if p.Online {
			n++
		}
	}
	return n
}

// OrNA dereferences s, falling back to NotAvailable for nil.
func OrNA(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return *s
}

// String returns a pointer to s, for building PeerStats literals.
func String(s string) *string {
	return &s
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
