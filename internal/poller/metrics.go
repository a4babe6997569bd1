// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts poll outcomes per poller name
type Metrics struct {
	Fetches   *prometheus.CounterVec
	Failures  *prometheus.CounterVec
	Applied   *prometheus.CounterVec
	Discarded *prometheus.CounterVec
}

// NewMetrics registers the poll counters on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpnwatch",
			Subsystem: "poll",
			Name:      "fetches_total",
			Help:      "Fetches issued by the poller.",
		}, []string{"poller"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpnwatch",
			Subsystem: "poll",
			Name:      "failures_total",
			Help:      "Fetches that returned an error.",
		}, []string{"poller"}),
		Applied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpnwatch",
			Subsystem: "poll",
			Name:      "applied_total",
			Help:      "Results handed to the renderer.",
		}, []string{"poller"}),
		Discarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpnwatch",
			Subsystem: "poll",
			Name:      "discarded_total",
			Help:      "Results dropped because a newer one was applied or the poller was stopped.",
		}, []string{"poller"}),
	}
}
