// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package client

// SystemInfo is the response of GET /api/system_info
type SystemInfo struct {
	CPULoad          string             `json:"cpu_load"`
	MemoryUsed       string             `json:"memory_used"`
	DiskUsed         string             `json:"disk_used"`
	Uptime           string             `json:"uptime"`
	NetworkInterface string             `json:"network_interface"`
	RxBytes          int64              `json:"rx_bytes"`
	TxBytes          int64              `json:"tx_bytes"`
	NetworkLoad      map[string]NetLoad `json:"network_load"`
	VPNClients       *VPNClients        `json:"vpn_clients"`
}

// NetLoad is the current throughput of one interface in Mbit/s
type NetLoad struct {
	SentSpeed float64 `json:"sent_speed"`
	RecvSpeed float64 `json:"recv_speed"`
}

// VPNClients counts connected clients per VPN type
type VPNClients struct {
	OpenVPN   *int `json:"OpenVPN"`
	WireGuard *int `json:"WireGuard"`
}

// CPUSeries is the response of GET /api/cpu
type CPUSeries struct {
	UTCLabels  []string  `json:"utc_labels"`
	CPUPercent []float64 `json:"cpu_percent"`
	RAMPercent []float64 `json:"ram_percent"`
	Error      string    `json:"error,omitempty"`
}

// BandwidthSeries is the response of GET /api/bw
type BandwidthSeries struct {
	UTCLabels []string  `json:"utc_labels"`
	Labels    []string  `json:"labels"`
	RxMbps    []float64 `json:"rx_mbps"`
	TxMbps    []float64 `json:"tx_mbps"`
}

// InterfaceList is the response of GET /api/interfaces
type InterfaceList struct {
	Interfaces []string `json:"interfaces"`
}

// Admin is one bot administrator or candidate
type Admin struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// AdminRequest is the body of POST /api/admins/{add,remove}
type AdminRequest struct {
	TelegramID string `json:"telegram_id"`
}

// AdminResponse is returned by the admin endpoints on success and on error
type AdminResponse struct {
	Message          string  `json:"message"`
	Admins           []Admin `json:"admins"`
	AvailableAdmins  []Admin `json:"available_admins"`
	AdminIDValue     string  `json:"admin_id_value"`
	BotServiceActive *bool   `json:"bot_service_active"`
}
