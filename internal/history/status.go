// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"
)

// ClientPrefix is stripped from OpenVPN common names
const ClientPrefix = "antizapret-"

// ReadStatus reads the CLIENT_LIST rows of an OpenVPN status file
// (status-version 2). Every row is tagged with protocol.
func ReadStatus(r io.Reader, protocol string) ([]LogRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []LogRow
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("status line %d: %w", line, err)
		}
		if record[0] != "CLIENT_LIST" {
			continue
		}
		if len(record) < 8 {
			return nil, fmt.Errorf("status line %d: want at least 8 fields, got %d", line, len(record))
		}
		rows = append(rows, LogRow{
			ClientName:  strings.TrimPrefix(record[1], ClientPrefix),
			RealIP:      stripPort(record[2]),
			LocalIP:     record[3],
			Protocol:    protocol,
			ConnectedAt: record[7],
		})
	}
}

// ProtocolOf guesses the protocol from a status file name such as
// antizapret-udp-status.log. Unknown names give "".
func ProtocolOf(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "tcp"):
		return "TCP"
	case strings.Contains(name, "udp"):
		return "UDP"
	}
	return ""
}

// Clients projects connection rows onto the client table
func Clients(rows []LogRow) []ClientRow {
	out := make([]ClientRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ClientRow{
			ClientName:  r.ClientName,
			RealIP:      r.RealIP,
			LocalIP:     r.LocalIP,
			ConnectedAt: r.ConnectedAt,
		})
	}
	return out
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
