// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package history formats server timestamps and filters the OpenVPN
// client and connection-log tables.
package history

import (
	"strings"
	"time"
)

// DisplayLayout is how timestamps are shown to the user
const DisplayLayout = "02.01.2006 15:04"

var utcLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseUTC parses a server timestamp. Timestamps without a zone are UTC.
func ParseUTC(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	for _, layout := range utcLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LocalTime renders a server UTC timestamp in loc. Input that does not
// parse is returned unchanged.
func LocalTime(utc string, loc *time.Location) string {
	t, ok := ParseUTC(utc)
	if !ok {
		return utc
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// LogRow is one row of the OpenVPN connection history
type LogRow struct {
	ClientName  string `json:"client_name"`
	RealIP      string `json:"real_ip"`
	LocalIP     string `json:"local_ip"`
	Protocol    string `json:"protocol"`
	ConnectedAt string `json:"connected_at"`
}

// ClientRow is one row of the OpenVPN client table
type ClientRow struct {
	ClientName  string `json:"client_name"`
	RealIP      string `json:"real_ip"`
	LocalIP     string `json:"local_ip"`
	ConnectedAt string `json:"connected_at"`
}

// FilterLog keeps rows whose client name, real IP, local IP or protocol
// contains query, ignoring case. An empty query keeps every row.
func FilterLog(rows []LogRow, query string) []LogRow {
	query = strings.ToLower(query)
	out := make([]LogRow, 0, len(rows))
	for _, r := range rows {
		text := strings.ToLower(strings.Join([]string{r.ClientName, r.RealIP, r.LocalIP, r.Protocol}, " "))
		if strings.Contains(text, query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterClients keeps rows whose client name contains query, ignoring case
func FilterClients(rows []ClientRow, query string) []ClientRow {
	query = strings.ToLower(query)
	out := make([]ClientRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ClientName), query) {
			out = append(out, r)
		}
	}
	return out
}
