// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package stats

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

var byteUnits = map[string]float64{
	"B":   1,
	"KiB": 1024,
	"MiB": 1024 * 1024,
	"GiB": 1024 * 1024 * 1024,
	"TiB": 1024 * 1024 * 1024 * 1024,
	"KB":  1000,
	"MB":  1000 * 1000,
	"GB":  1000 * 1000 * 1000,
	"TB":  1000 * 1000 * 1000 * 1000,
}

// FormatBytes renders a byte count with two decimals in 1024 steps.
func FormatBytes(size int64) string {
	v := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if v < 1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2f TB", v)
}

// ParseBytes converts transfer strings such as "1.5 GiB" or "12 KB" to bytes.
// Unknown units and malformed input yield 0.
func ParseBytes(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		n, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0
		}
		return n
	case 2:
		mult, ok := byteUnits[parts[1]]
		if !ok {
			return 0
		}
		num, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return int64(num * mult)
	default:
		return 0
	}
}

// MaskIP hides all but the first octet of an IPv4 address.
// A trailing port is kept; anything that is not a dotted quad is returned as is.
func MaskIP(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}

	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return addr
	}

	masked := parts[0] + ".***.***.***"
	if port != "" {
		return masked + ":" + port
	}
	return masked
}

// MaskKey shortens a peer public key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}

// CleanClientName strips the antizapret- prefix the VPN scripts add to client names.
func CleanClientName(name string) string {
	return strings.TrimPrefix(name, "antizapret-")
}
