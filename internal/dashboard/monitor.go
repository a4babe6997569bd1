// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/poller"
	"github.com/sharedco/vpnwatch/internal/prefs"
	"github.com/sharedco/vpnwatch/internal/stats"
)

// DefaultInterval is the stats refresh period
const DefaultInterval = 3 * time.Second

// Source fetches the per-interface stats
type Source interface {
	WGStats(ctx context.Context) ([]stats.InterfaceStats, error)
}

// Sink receives every filtered page. Pages handed to a sink are copies.
type Sink func(*Page)

// MonitorOptions configures a Monitor
type MonitorOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	Layout   Layout
	Sink     Sink
	Log      logrus.FieldLogger
	Metrics  *poller.Metrics
}

// Monitor polls the stats source, renders each response and applies the
// current filters before publishing it.
type Monitor struct {
	prefs  *prefs.Store
	layout Layout
	sink   Sink
	log    logrus.FieldLogger
	poller *poller.Poller[[]stats.InterfaceStats]

	// publishMu keeps sink calls in the order their pages were built
	publishMu sync.Mutex

	mu          sync.Mutex
	page        *Page
	filters     Filters
	autoRefresh bool
}

// NewMonitor restores the auto-refresh and filter toggles from store
func NewMonitor(source Source, store *prefs.Store, opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Layout == nil {
		opts.Layout = AllInterfaces
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if store == nil {
		store = prefs.Memory()
	}

	m := &Monitor{
		prefs:       store,
		layout:      opts.Layout,
		sink:        opts.Sink,
		log:         opts.Log,
		filters:     FiltersFromPrefs(store),
		autoRefresh: store.Bool(prefs.AutoRefreshEnabled, true),
	}

	pollOpts := []poller.Option{poller.WithLogger(opts.Log), poller.WithTimeout(opts.Timeout)}
	if opts.Metrics != nil {
		pollOpts = append(pollOpts, poller.WithMetrics(opts.Metrics))
	}
	m.poller = poller.New("wg_stats", opts.Interval, source.WGStats, m.show, pollOpts...)
	return m
}

// Start begins polling if auto-refresh is enabled
func (m *Monitor) Start() {
	if m.AutoRefresh() {
		m.poller.Start()
	}
}

// Stop halts polling. A request in flight finishes and is discarded.
func (m *Monitor) Stop() {
	m.poller.Stop()
}

// Polling reports whether the stats timer is live
func (m *Monitor) Polling() bool {
	return m.poller.Enabled()
}

// AutoRefresh reports the auto-refresh toggle
func (m *Monitor) AutoRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoRefresh
}

// SetAutoRefresh persists the toggle and starts or stops polling.
// The toggle takes effect even when it cannot be persisted.
func (m *Monitor) SetAutoRefresh(on bool) error {
	m.mu.Lock()
	m.autoRefresh = on
	m.mu.Unlock()

	if on {
		m.poller.Start()
	} else {
		m.poller.Stop()
	}

	if err := m.prefs.SetBool(prefs.AutoRefreshEnabled, on); err != nil {
		return fmt.Errorf("failed to save auto-refresh: %w", err)
	}
	return nil
}

// Filters returns the active filters
func (m *Monitor) Filters() Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

// SetFilter changes one filter, persists it and re-applies all filters to
// the last rendered page.
func (m *Monitor) SetFilter(name string, on bool) error {
	m.mu.Lock()
	f, err := m.filters.With(name, on)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.filters = f
	m.mu.Unlock()

	m.republish()

	if err := m.prefs.SetBool(filterPrefs[name], on); err != nil {
		return fmt.Errorf("failed to save filter %s: %w", name, err)
	}
	return nil
}

// Refresh runs one numbered fetch, render and filter cycle outside the timer.
// An older timer fetch that completes afterwards is discarded.
func (m *Monitor) Refresh(ctx context.Context) error {
	if err := m.poller.Poll(ctx); err != nil {
		m.log.WithError(err).Warn("stats refresh failed")
		return err
	}
	return nil
}

// ToggleIPs expands or collapses the hidden IPs of one row on the current page
func (m *Monitor) ToggleIPs(index int) {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	m.mu.Lock()
	if m.page == nil {
		m.mu.Unlock()
		return
	}
	ToggleIPs(m.page, index)
	out := m.page.Clone()
	m.mu.Unlock()

	m.publish(out)
}

// Page returns a copy of the last published page, or nil before the first fetch
func (m *Monitor) Page() *Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page.Clone()
}

func (m *Monitor) show(data []stats.InterfaceStats) {
	page := Render(data, m.layout)

	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	m.mu.Lock()
	Apply(page, m.filters)
	m.page = page
	out := page.Clone()
	m.mu.Unlock()

	m.publish(out)
}

func (m *Monitor) republish() {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	m.mu.Lock()
	if m.page == nil {
		m.mu.Unlock()
		return
	}
	Apply(m.page, m.filters)
	out := m.page.Clone()
	m.mu.Unlock()

	m.publish(out)
}

func (m *Monitor) publish(page *Page) {
	if m.sink != nil {
		m.sink(page)
	}
}
