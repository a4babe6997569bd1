// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package history

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTime(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)

	assert.Equal(t, "01.03.2024 13:04", LocalTime("2024-03-01T10:04:59Z", msk))
	assert.Equal(t, "01.03.2024 13:04", LocalTime("2024-03-01 10:04:59", msk))
	assert.Equal(t, "02.03.2024 00:30", LocalTime("2024-03-01T22:30:00+01:00", msk))
	assert.Equal(t, "not a date", LocalTime("not a date", msk))
	assert.Equal(t, "", LocalTime("", msk))
}

func TestFilterLog(t *testing.T) {
	rows := []LogRow{
		{ClientName: "Alice", RealIP: "203.0.113.7", LocalIP: "10.8.0.2", Protocol: "UDP"},
		{ClientName: "bob", RealIP: "198.51.100.1", LocalIP: "10.8.0.3", Protocol: "TCP"},
	}

	assert.Len(t, FilterLog(rows, ""), 2)
	assert.Equal(t, "Alice", FilterLog(rows, "alice")[0].ClientName)
	assert.Equal(t, "bob", FilterLog(rows, "198.51")[0].ClientName)
	assert.Equal(t, "bob", FilterLog(rows, "10.8.0.3")[0].ClientName)
	assert.Equal(t, "Alice", FilterLog(rows, "udp")[0].ClientName)
	assert.Empty(t, FilterLog(rows, "carol"))
}

func TestFilterClients(t *testing.T) {
	rows := []ClientRow{{ClientName: "Alice", RealIP: "bob-host"}, {ClientName: "bob"}}

	got := FilterClients(rows, "BOB")
	assert.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ClientName)
}

func TestParseUTCWithoutZone(t *testing.T) {
	ts, ok := ParseUTC("2024-03-01 10:00:00")
	assert.True(t, ok)
	assert.Equal(t, time.UTC, ts.Location())

	_, ok = ParseUTC("yesterday")
	assert.False(t, ok)
}

func TestReadStatus(t *testing.T) {
	status := strings.Join([]string{
		"TITLE,OpenVPN 2.6.9",
		"HEADER,CLIENT_LIST,Common Name,Real Address,Virtual Address,Virtual IPv6 Address,Bytes Received,Bytes Sent,Connected Since",
		"CLIENT_LIST,antizapret-alice,203.0.113.7:40112,10.29.0.2,,4096,8192,2024-03-01 10:04:59",
		"ROUTING_TABLE,10.29.0.2,antizapret-alice,203.0.113.7:40112,2024-03-01 10:05:00",
		"CLIENT_LIST,bob,198.51.100.1,10.29.0.3,,10,20,2024-03-01 22:30:00",
		"END",
	}, "\n")

	rows, err := ReadStatus(strings.NewReader(status), "TCP")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, LogRow{
		ClientName:  "alice",
		RealIP:      "203.0.113.7",
		LocalIP:     "10.29.0.2",
		Protocol:    "TCP",
		ConnectedAt: "2024-03-01 10:04:59",
	}, rows[0])
	assert.Equal(t, "198.51.100.1", rows[1].RealIP)

	clients := Clients(rows)
	assert.Equal(t, "bob", FilterClients(clients, "bo")[0].ClientName)
}

func TestReadStatusShortRow(t *testing.T) {
	_, err := ReadStatus(strings.NewReader("CLIENT_LIST,alice,203.0.113.7\n"), "UDP")
	assert.ErrorContains(t, err, "status line 1")
}

func TestProtocolOf(t *testing.T) {
	assert.Equal(t, "UDP", ProtocolOf("/etc/openvpn/server/logs/antizapret-udp-status.log"))
	assert.Equal(t, "TCP", ProtocolOf("antizapret-TCP-status.log"))
	assert.Equal(t, "", ProtocolOf("status.log"))
}
