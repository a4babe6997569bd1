// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sharedco/vpnwatch/internal/stats"
)

// Metrics describe the peers seen by the last stats request
type Metrics struct {
	Peers       *prometheus.GaugeVec
	PeersOnline *prometheus.GaugeVec
}

// NewMetrics registers the gauges on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Peers: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "vpnwatch",
			Subsystem: "wireguard",
			Name:      "peers",
			Help:      "Number of configured peers per interface.",
		}, []string{"interface"}),
		PeersOnline: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "vpnwatch",
			Subsystem: "wireguard",
			Name:      "peers_online",
			Help:      "Number of peers with a recent handshake per interface.",
		}, []string{"interface"}),
	}
}

func (m *Metrics) observe(data []stats.InterfaceStats) {
	for _, iface := range data {
		m.Peers.WithLabelValues(iface.Interface).Set(float64(len(iface.Peers)))
		m.PeersOnline.WithLabelValues(iface.Interface).Set(float64(iface.OnlineCount()))
	}
}
